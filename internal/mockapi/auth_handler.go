package mockapi

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/forms"
)

const verifyCodeTTL = 15 * time.Minute

// AuthHandler implements the auth endpoints. This deployment variant issues a
// session straight from registration, bypassing email verification; the
// verify/resend endpoints still work for clients that use the code flow.
type AuthHandler struct {
	store  *Store
	secret string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewAuthHandler(store *Store, secret string, ttl time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{store: store, secret: secret, ttl: ttl, log: log}
}

func (h *AuthHandler) session(c echo.Context, status int, message string, user *domain.User) error {
	token, err := SignToken(user, h.secret, h.ttl)
	if err != nil {
		return err
	}
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"token":   token,
		"user":    user,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req forms.RegisterForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.CreateUser(req.Name, req.Email, req.Password, domain.RoleUser, true)
	if err != nil {
		return err
	}
	return h.session(c, http.StatusCreated, "Registration successful", user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req forms.LoginForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		LoginsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	LoginsTotal.WithLabelValues("ok").Inc()
	return h.session(c, http.StatusOK, "Login successful", user)
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.Verify(req.Email, req.Code)
	if err != nil {
		return err
	}
	return h.session(c, http.StatusOK, "Email verified successfully", user)
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendCode handles POST /api/auth/resend-code. No mail is sent; the code is
// logged so developers can pick it up.
func (h *AuthHandler) ResendCode(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	code := fmt.Sprintf("%06d", rand.Intn(1_000_000))
	if err := h.store.SetVerifyCode(req.Email, code, verifyCodeTTL); err != nil {
		return err
	}
	h.log.Info().Str("email", req.Email).Str("code", code).Msg("verification code issued")

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Verification code sent successfully"})
}
