package mockapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/forms"
)

// Options configures the mock server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
	// Metrics enables the echoprometheus middleware and /metrics. Off in
	// tests, where duplicate registry registration would panic.
	Metrics bool
}

// echoValidator adapts the shared forms validator to echo's interface.
type echoValidator struct{}

func (echoValidator) Validate(i any) error { return forms.Check(i) }

// New builds the Echo instance with all routes registered.
func New(store *Store, opts Options, log zerolog.Logger) *echo.Echo {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = echoValidator{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Err(v.Error).
				Msg("request")
			return nil
		},
	}))
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware(metricsNamespace))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Dependencies ---
	authHandler := NewAuthHandler(store, opts.JWTSecret, opts.TokenTTL, log)
	carHandler := NewCarHandler(store, opts.UploadDir)
	bookingHandler := NewBookingHandler(store)
	userHandler := NewUserHandler(store)
	contentHandler := NewContentHandler(store, carHandler)
	dashboardHandler := NewDashboardHandler(store)

	auth := Auth(opts.JWTSecret)
	staff := RBAC(domain.RoleAdmin, domain.RoleModerator)
	adminOnly := RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "status": "ok"})
	})
	e.GET("/api/public/content", contentHandler.Public)
	e.GET("/api/cars", carHandler.List)
	e.Static("/uploads", opts.UploadDir)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/api/auth/resend-code", authHandler.ResendCode)

	// --- Inventory and content, staff scoped ---
	e.POST("/api/cars", carHandler.Create, auth, staff)
	e.PUT("/api/cars/:id", carHandler.Update, auth, staff)
	e.DELETE("/api/cars/:id", carHandler.Delete, auth, staff)

	e.GET("/api/content", contentHandler.List, auth, staff)
	e.POST("/api/content", contentHandler.Create, auth, staff)
	e.PUT("/api/content/:id", contentHandler.Update, auth, staff)

	// --- Bookings ---
	e.GET("/api/bookings", bookingHandler.List, auth, staff)
	e.POST("/api/bookings", bookingHandler.Create, auth)
	e.GET("/api/bookings/my-bookings", bookingHandler.Mine, auth)
	e.PATCH("/api/bookings/:id/status", bookingHandler.SetStatus, auth, staff)

	// --- Users ---
	e.GET("/api/users", userHandler.List, auth, staff)
	e.PATCH("/api/users/:id/role", userHandler.SetRole, auth, adminOnly)
	e.PUT("/api/users/profile", userHandler.UpdateProfile, auth)
	e.PUT("/api/users/change-password", userHandler.ChangePassword, auth)

	// --- Dashboard ---
	e.GET("/api/dashboard/summary", dashboardHandler.Summary, auth, staff)
	e.GET("/api/dashboard/charts", dashboardHandler.Charts, auth, staff)

	return e
}
