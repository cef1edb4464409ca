package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/backend"
	"github.com/rentgrid/backoffice/internal/config"
	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/core/ports"
	"github.com/rentgrid/backoffice/internal/core/service"
	"github.com/rentgrid/backoffice/internal/forms"
	"github.com/rentgrid/backoffice/internal/session"
)

// Local cache keys for the two degraded-mode resources.
const (
	carsCacheKey    = "localCars"
	contentCacheKey = "localContent"
)

// app wires the session, guard, and backend client for every command.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    ports.Store
	sessions *session.Manager
	guard    *service.Guard
	api      *backend.Client
	out      io.Writer

	// pending uploads consumed by the next online create/update, so the
	// generic fallback resource stays oblivious to multipart details
	pendingCarImage     *backend.Upload
	pendingContentImage *backend.Upload
}

func newApp(cfg *config.Config, store ports.Store, log zerolog.Logger) *app {
	sessions := session.NewManager(store, log)
	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		sessions: sessions,
		guard:    service.NewGuard(sessions, log),
		api:      backend.New(cfg.APIURL, sessions, log),
		out:      os.Stdout,
	}
}

// requireRole maps guard decisions onto CLI outcomes: redirect-to-login
// becomes a "log in first" error, redirect-to-home an access-denied one.
func (a *app) requireRole(roles ...string) (*domain.User, error) {
	d := a.guard.Check(roles...)
	switch d.State {
	case service.StateAuthorized:
		return d.User, nil
	case service.StateRedirectHome:
		return nil, errors.New("access denied: your role cannot open this view")
	default:
		return nil, errors.New("not logged in, run 'rentctl login' first")
	}
}

func staffRoles() []string { return []string{domain.RoleAdmin, domain.RoleModerator} }

// --- auth commands ---

func (a *app) login(ctx context.Context, email, password string) error {
	if err := forms.Check(&forms.LoginForm{Email: email, Password: password}); err != nil {
		return err
	}
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	sess := res.Session()
	if sess == nil {
		return fmt.Errorf("login did not return a session: %s", res.Message)
	}
	if err := a.sessions.Save(sess); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", sess.User.Name, sess.User.Role)
	return nil
}

func (a *app) logout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) register(ctx context.Context, name, email, password string) error {
	if err := forms.Check(&forms.RegisterForm{Name: name, Email: email, Password: password}); err != nil {
		return err
	}
	res, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	if sess := res.Session(); sess != nil {
		if err := a.sessions.Save(sess); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Registered and logged in as %s\n", sess.User.Name)
		return nil
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func (a *app) verifyEmail(ctx context.Context, email, code string) error {
	res, err := a.api.VerifyEmail(ctx, email, code)
	if err != nil {
		return err
	}
	if sess := res.Session(); sess != nil {
		if err := a.sessions.Save(sess); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func (a *app) resendCode(ctx context.Context, email string) error {
	if err := a.api.ResendCode(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Verification code sent")
	return nil
}

func (a *app) whoami() error {
	user, err := a.requireRole()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nverified: %v\n", user.Name, user.Email, user.Role, user.IsVerified)
	if exp, ok := session.TokenExpiry(a.sessions.Token()); ok {
		fmt.Fprintf(a.out, "token expires: %s\n", exp.Local().Format(time.RFC1123))
	}
	if theme := a.sessions.Theme(); theme != "" {
		fmt.Fprintf(a.out, "theme: %s\n", theme)
	}
	return nil
}

func (a *app) setTheme(value string) error {
	switch value {
	case "":
		if t := a.sessions.Theme(); t == session.ThemeDark {
			fmt.Fprintln(a.out, "dark")
		} else {
			fmt.Fprintln(a.out, "light")
		}
		return nil
	case "dark":
		return a.sessions.SetTheme(session.ThemeDark)
	case "light":
		return a.sessions.SetTheme("")
	default:
		return fmt.Errorf("theme must be dark or light")
	}
}

// --- cars ---

func (a *app) carResource() *service.Resource[domain.Car] {
	ops := service.RemoteOps[domain.Car]{
		List: func(ctx context.Context) ([]domain.Car, error) {
			return a.api.Cars(ctx, false)
		},
		Create: func(ctx context.Context, car domain.Car) (domain.Car, error) {
			img := a.pendingCarImage
			a.pendingCarImage = nil
			return a.api.CreateCar(ctx, car, img)
		},
		Update: func(ctx context.Context, car domain.Car) (domain.Car, error) {
			img := a.pendingCarImage
			a.pendingCarImage = nil
			return a.api.UpdateCar(ctx, car, img)
		},
		Delete: a.api.DeleteCar,
	}
	return service.NewResource(carsCacheKey, ops, a.store,
		func(c domain.Car) int64 { return c.ID },
		func(c *domain.Car, id int64) { c.ID = id },
		a.log)
}

func (a *app) carsList(ctx context.Context) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	cars := a.carResource()
	list, err := cars.Load(ctx)
	if err != nil {
		return err
	}
	a.printOfflineBadge(cars.Offline())
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tSEATS\tACTIVE\tIMAGE")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%v\t%s\n", c.ID, c.Name, c.Brand, c.Seats, c.IsActive, c.ImageURL)
	}
	return w.Flush()
}

// carInput groups the editable car fields shared by create and update.
type carInput struct {
	Name     string
	Brand    string
	Details  string
	Seats    int
	Features string // comma-separated
	Specs    string // JSON object
	Active   bool
	Image    string // path to an image file
}

func (in carInput) toCar() (domain.Car, error) {
	if err := forms.Check(&forms.CarForm{Name: in.Name, Brand: in.Brand, Details: in.Details, Seats: in.Seats}); err != nil {
		return domain.Car{}, err
	}
	car := domain.Car{
		Name:     in.Name,
		Brand:    in.Brand,
		Details:  in.Details,
		Seats:    in.Seats,
		IsActive: in.Active,
	}
	for _, f := range strings.Split(in.Features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			car.Features = append(car.Features, f)
		}
	}
	if in.Specs != "" {
		if err := json.Unmarshal([]byte(in.Specs), &car.Specs); err != nil {
			return domain.Car{}, fmt.Errorf("specs must be a JSON object: %w", err)
		}
	}
	return car, nil
}

func (a *app) carsCreate(ctx context.Context, in carInput) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	car, err := in.toCar()
	if err != nil {
		return err
	}

	cars := a.carResource()
	if _, err := cars.Load(ctx); err != nil {
		return err
	}
	if err := a.stageCarImage(cars.Offline(), in.Image, &car); err != nil {
		return err
	}

	created, err := cars.Create(ctx, car)
	if err != nil {
		return err
	}
	a.printOfflineBadge(cars.Offline())
	fmt.Fprintf(a.out, "Created car %d (%s)\n", created.ID, created.Name)
	return nil
}

func (a *app) carsUpdate(ctx context.Context, id int64, in carInput) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	car, err := in.toCar()
	if err != nil {
		return err
	}
	car.ID = id

	cars := a.carResource()
	if _, err := cars.Load(ctx); err != nil {
		return err
	}
	if err := a.stageCarImage(cars.Offline(), in.Image, &car); err != nil {
		return err
	}

	updated, err := cars.Update(ctx, car)
	if err != nil {
		return err
	}
	a.printOfflineBadge(cars.Offline())
	fmt.Fprintf(a.out, "Updated car %d (%s)\n", updated.ID, updated.Name)
	return nil
}

func (a *app) carsDelete(ctx context.Context, id int64) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	cars := a.carResource()
	if _, err := cars.Load(ctx); err != nil {
		return err
	}
	if err := cars.Delete(ctx, id); err != nil {
		return err
	}
	a.printOfflineBadge(cars.Offline())
	fmt.Fprintf(a.out, "Deleted car %d\n", id)
	return nil
}

func (a *app) carsSync(ctx context.Context) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	cars := a.carResource()
	if _, err := cars.Load(ctx); err != nil {
		return err
	}
	if !cars.Offline() {
		fmt.Fprintln(a.out, "Backend reachable, nothing to sync")
		return nil
	}
	if err := cars.Sync(ctx); err != nil {
		return fmt.Errorf("sync failed, offline edits kept: %w", err)
	}
	fmt.Fprintf(a.out, "Synced, %d cars on backend\n", len(cars.Items()))
	return nil
}

// stageCarImage routes an image file to the right place for the current
// mode: online it becomes the next multipart upload, offline it is inlined
// as a data URL so the preview stays viewable.
func (a *app) stageCarImage(offline bool, path string, car *domain.Car) error {
	if path == "" {
		return nil
	}
	upload, err := readUpload(path)
	if err != nil {
		return err
	}
	if offline {
		car.ImageURL = dataURL(path, upload.Data)
		return nil
	}
	a.pendingCarImage = upload
	return nil
}

func readUpload(path string) (*backend.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &backend.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func dataURL(path string, data []byte) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (a *app) printOfflineBadge(offline bool) {
	if offline {
		fmt.Fprintln(a.out, "[offline] backend unreachable, working against the local cache")
	}
}
