// rentctl is the back-office CLI for the rental platform: session handling,
// car inventory, bookings, user roles, content blocks, and dashboard
// analytics, all against the REST backend. Car and content screens keep
// working against a local cache when the backend is down.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/akamensky/argparse"

	"github.com/rentgrid/backoffice/internal/backend"
	"github.com/rentgrid/backoffice/internal/config"
	"github.com/rentgrid/backoffice/internal/core/ports"
	"github.com/rentgrid/backoffice/internal/store"
	"github.com/rentgrid/backoffice/pkg/logger"
)

func main() {
	parser := argparse.NewParser("rentctl", "Rental platform back office")

	// auth
	loginCmd := parser.NewCommand("login", "Log in and persist the session")
	loginEmail := loginCmd.String("e", "email", &argparse.Options{Required: true, Help: "Account email"})
	loginPassword := loginCmd.String("p", "password", &argparse.Options{Required: true, Help: "Account password"})

	logoutCmd := parser.NewCommand("logout", "Clear the persisted session")

	registerCmd := parser.NewCommand("register", "Create an account")
	registerName := registerCmd.String("n", "name", &argparse.Options{Required: true, Help: "Display name"})
	registerEmail := registerCmd.String("e", "email", &argparse.Options{Required: true, Help: "Account email"})
	registerPassword := registerCmd.String("p", "password", &argparse.Options{Required: true, Help: "Account password"})

	verifyCmd := parser.NewCommand("verify-email", "Redeem a verification code")
	verifyEmail := verifyCmd.String("e", "email", &argparse.Options{Required: true, Help: "Account email"})
	verifyCode := verifyCmd.String("c", "code", &argparse.Options{Required: true, Help: "Verification code"})

	resendCmd := parser.NewCommand("resend-code", "Request a fresh verification code")
	resendEmail := resendCmd.String("e", "email", &argparse.Options{Required: true, Help: "Account email"})

	whoamiCmd := parser.NewCommand("whoami", "Show the current session")

	themeCmd := parser.NewCommand("theme", "Show or set the persisted theme")
	themeSet := themeCmd.String("s", "set", &argparse.Options{Help: "dark or light"})

	landingCmd := parser.NewCommand("landing", "Fetch the public landing-page data")

	// cars
	carsCmd := parser.NewCommand("cars", "Car inventory")
	carsListCmd := carsCmd.NewCommand("list", "List the inventory")
	carsCreateCmd := carsCmd.NewCommand("create", "Add a car")
	carsUpdateCmd := carsCmd.NewCommand("update", "Edit a car")
	carsUpdateID := carsUpdateCmd.Int("i", "id", &argparse.Options{Required: true, Help: "Car id"})
	carsDeleteCmd := carsCmd.NewCommand("delete", "Remove a car")
	carsDeleteID := carsDeleteCmd.Int("i", "id", &argparse.Options{Required: true, Help: "Car id"})
	carsSyncCmd := carsCmd.NewCommand("sync", "Replay offline edits against the backend")

	carFlags := func(cmd *argparse.Command) (name, brand, details, features, specs, image *string, seats *int, active *bool) {
		name = cmd.String("n", "name", &argparse.Options{Help: "Car name"})
		brand = cmd.String("b", "brand", &argparse.Options{Help: "Brand"})
		details = cmd.String("d", "details", &argparse.Options{Help: "Description"})
		features = cmd.String("f", "features", &argparse.Options{Help: "Comma-separated feature list"})
		specs = cmd.String("", "specs", &argparse.Options{Help: "Specs as a JSON object"})
		image = cmd.String("", "image", &argparse.Options{Help: "Path to an image file"})
		seats = cmd.Int("s", "seats", &argparse.Options{Help: "Seat count", Default: 0})
		active = cmd.Flag("a", "active", &argparse.Options{Help: "Mark the car active"})
		return
	}
	cName, cBrand, cDetails, cFeatures, cSpecs, cImage, cSeats, cActive := carFlags(carsCreateCmd)
	uName, uBrand, uDetails, uFeatures, uSpecs, uImage, uSeats, uActive := carFlags(carsUpdateCmd)

	// bookings
	bookingsCmd := parser.NewCommand("bookings", "Booking management")
	bookingsListCmd := bookingsCmd.NewCommand("list", "List bookings")
	bookingsStatus := bookingsListCmd.String("s", "status", &argparse.Options{Help: "Filter by status"})
	bookingsFrom := bookingsListCmd.String("", "from", &argparse.Options{Help: "Pickup date lower bound (YYYY-MM-DD)"})
	bookingsTo := bookingsListCmd.String("", "to", &argparse.Options{Help: "Pickup date upper bound (YYYY-MM-DD)"})
	bookingsMineCmd := bookingsCmd.NewCommand("mine", "List my bookings")
	bookingsCreateCmd := bookingsCmd.NewCommand("create", "Create a booking")
	bkPickup := bookingsCreateCmd.String("", "pickup", &argparse.Options{Required: true, Help: "Pickup location"})
	bkDropoff := bookingsCreateCmd.String("", "dropoff", &argparse.Options{Required: true, Help: "Dropoff location"})
	bkCarID := bookingsCreateCmd.Int("", "car", &argparse.Options{Help: "Car id"})
	bkCarType := bookingsCreateCmd.String("", "type", &argparse.Options{Help: "Car type"})
	bkDate := bookingsCreateCmd.String("", "date", &argparse.Options{Required: true, Help: "Pickup date (YYYY-MM-DD)"})
	bkTime := bookingsCreateCmd.String("", "time", &argparse.Options{Required: true, Help: "Pickup time (HH:MM)"})
	bookingsSetCmd := bookingsCmd.NewCommand("set-status", "Change a booking's status")
	bkID := bookingsSetCmd.Int("i", "id", &argparse.Options{Required: true, Help: "Booking id"})
	bkStatus := bookingsSetCmd.String("s", "status", &argparse.Options{Required: true, Help: "pending, confirmed, completed, or cancelled"})

	// users
	usersCmd := parser.NewCommand("users", "User management")
	usersListCmd := usersCmd.NewCommand("list", "List accounts")
	usersRoleCmd := usersCmd.NewCommand("set-role", "Change an account's role")
	userID := usersRoleCmd.Int("i", "id", &argparse.Options{Required: true, Help: "User id"})
	userRole := usersRoleCmd.String("r", "role", &argparse.Options{Required: true, Help: "user, moderator, or admin"})

	// profile
	profileCmd := parser.NewCommand("profile", "Own account settings")
	profileUpdateCmd := profileCmd.NewCommand("update", "Change the display name")
	profileName := profileUpdateCmd.String("n", "name", &argparse.Options{Required: true, Help: "New display name"})
	passwordCmd := profileCmd.NewCommand("change-password", "Rotate the password")
	pwCurrent := passwordCmd.String("c", "current", &argparse.Options{Required: true, Help: "Current password"})
	pwNew := passwordCmd.String("n", "new", &argparse.Options{Required: true, Help: "New password"})

	// content
	contentCmd := parser.NewCommand("content", "Content blocks")
	contentListCmd := contentCmd.NewCommand("list", "List blocks")
	contentSetCmd := contentCmd.NewCommand("set", "Create or update a block by key")
	ctKey := contentSetCmd.String("k", "key", &argparse.Options{Required: true, Help: "Block key"})
	ctTitle := contentSetCmd.String("t", "title", &argparse.Options{Help: "Block title"})
	ctText := contentSetCmd.String("c", "content", &argparse.Options{Help: "Block content"})
	ctImage := contentSetCmd.String("", "image", &argparse.Options{Help: "Path to an image file"})
	contentSlidesCmd := contentCmd.NewCommand("slides", "Replace the header slide URLs")
	ctURLs := contentSlidesCmd.String("u", "urls", &argparse.Options{Required: true, Help: "Comma-separated slide URLs"})

	// dashboard
	dashCmd := parser.NewCommand("dashboard", "Analytics")
	dashSummaryCmd := dashCmd.NewCommand("summary", "Aggregate counters")
	dashChartsCmd := dashCmd.NewCommand("charts", "Time series")
	dashRange := dashChartsCmd.String("r", "range", &argparse.Options{Help: "7d, 30d, or 90d", Default: "7d"})
	dashOverviewCmd := dashCmd.NewCommand("overview", "Summary and charts together")
	dashOverviewRange := dashOverviewCmd.String("r", "range", &argparse.Options{Help: "7d, 30d, or 90d", Default: "7d"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty})

	kv, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	a := newApp(cfg, kv, log)

	switch {
	case loginCmd.Happened():
		err = a.login(ctx, *loginEmail, *loginPassword)
	case logoutCmd.Happened():
		err = a.logout()
	case registerCmd.Happened():
		err = a.register(ctx, *registerName, *registerEmail, *registerPassword)
	case verifyCmd.Happened():
		err = a.verifyEmail(ctx, *verifyEmail, *verifyCode)
	case resendCmd.Happened():
		err = a.resendCode(ctx, *resendEmail)
	case whoamiCmd.Happened():
		err = a.whoami()
	case themeCmd.Happened():
		err = a.setTheme(*themeSet)
	case landingCmd.Happened():
		err = a.landing(ctx)

	case carsListCmd.Happened():
		err = a.carsList(ctx)
	case carsCreateCmd.Happened():
		err = a.carsCreate(ctx, carInput{
			Name: *cName, Brand: *cBrand, Details: *cDetails,
			Features: *cFeatures, Specs: *cSpecs, Image: *cImage,
			Seats: *cSeats, Active: *cActive,
		})
	case carsUpdateCmd.Happened():
		err = a.carsUpdate(ctx, int64(*carsUpdateID), carInput{
			Name: *uName, Brand: *uBrand, Details: *uDetails,
			Features: *uFeatures, Specs: *uSpecs, Image: *uImage,
			Seats: *uSeats, Active: *uActive,
		})
	case carsDeleteCmd.Happened():
		err = a.carsDelete(ctx, int64(*carsDeleteID))
	case carsSyncCmd.Happened():
		err = a.carsSync(ctx)

	case bookingsListCmd.Happened():
		err = a.bookingsList(ctx, *bookingsStatus, *bookingsFrom, *bookingsTo)
	case bookingsMineCmd.Happened():
		err = a.bookingsMine(ctx)
	case bookingsCreateCmd.Happened():
		err = a.bookingsCreate(ctx, backend.BookingInput{
			PickupLocation:  *bkPickup,
			DropoffLocation: *bkDropoff,
			CarID:           int64(*bkCarID),
			CarType:         *bkCarType,
			PickupDate:      *bkDate,
			PickupTime:      *bkTime,
		})
	case bookingsSetCmd.Happened():
		err = a.bookingsSetStatus(ctx, int64(*bkID), *bkStatus)

	case usersListCmd.Happened():
		err = a.usersList(ctx)
	case usersRoleCmd.Happened():
		err = a.usersSetRole(ctx, int64(*userID), *userRole)

	case profileUpdateCmd.Happened():
		err = a.profileUpdate(ctx, *profileName)
	case passwordCmd.Happened():
		err = a.changePassword(ctx, *pwCurrent, *pwNew)

	case contentListCmd.Happened():
		err = a.contentList(ctx)
	case contentSetCmd.Happened():
		err = a.contentSet(ctx, *ctKey, *ctTitle, *ctText, *ctImage)
	case contentSlidesCmd.Happened():
		err = a.contentSlides(ctx, *ctURLs)

	case dashSummaryCmd.Happened():
		err = a.dashboardSummary(ctx)
	case dashChartsCmd.Happened():
		err = a.dashboardCharts(ctx, *dashRange)
	case dashOverviewCmd.Happened():
		err = a.dashboardOverview(ctx, *dashOverviewRange)

	default:
		fmt.Print(parser.Usage(nil))
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore picks the redis store when configured, the file store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	if cfg.Redis.Addr != "" {
		return store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	}
	return store.NewFileStore(cfg.StateDir)
}
