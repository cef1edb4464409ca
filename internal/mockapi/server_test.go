package mockapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/backend"
	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/mockapi"
)

// tokenBox is a mutable token source so one client can switch identities.
type tokenBox struct{ token string }

func (b *tokenBox) Token() string { return b.token }

func newTestServer(t *testing.T) (*backend.Client, *tokenBox) {
	t.Helper()

	store := mockapi.NewStore()
	store.Seed()
	e := mockapi.New(store, mockapi.Options{
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
	}, zerolog.Nop())

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	box := &tokenBox{}
	return backend.New(srv.URL, box, zerolog.Nop()), box
}

func login(t *testing.T, c *backend.Client, box *tokenBox, email, password string) *domain.User {
	t.Helper()
	res, err := c.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if res.Token == "" || res.User == nil {
		t.Fatalf("login %s returned no session: %+v", email, res)
	}
	box.token = res.Token
	return res.User
}

func TestLoginRoundTrip(t *testing.T) {
	c, box := newTestServer(t)

	user := login(t, c, box, "admin@rentgrid.test", "admin123")
	if user.Role != domain.RoleAdmin {
		t.Fatalf("role = %q", user.Role)
	}
	if user.LastLogin == nil {
		t.Fatal("last_login should be stamped on login")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	c, _ := newTestServer(t)

	_, err := c.Login(context.Background(), "admin@rentgrid.test", "wrong")
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d", reqErr.Status)
	}
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	c, box := newTestServer(t)

	res, err := c.Register(context.Background(), "New User", "new@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sess := res.Session()
	if sess == nil {
		t.Fatalf("registration should issue a session: %+v", res)
	}
	if sess.User.Role != domain.RoleUser {
		t.Fatalf("new accounts must start as plain users, got %q", sess.User.Role)
	}
	box.token = sess.Token

	_, err = c.Register(context.Background(), "Other", "new@rentgrid.test", "secret1")
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusConflict {
		t.Fatalf("duplicate email should 409, got %v", err)
	}
}

func TestPublicEndpoints(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	block, err := c.PublicContent(ctx, domain.ContentKeyAbout)
	if err != nil {
		t.Fatalf("public content: %v", err)
	}
	if block.Key != domain.ContentKeyAbout || block.Title == "" {
		t.Fatalf("block = %+v", block)
	}

	cars, err := c.ActiveCars(ctx)
	if err != nil {
		t.Fatalf("active cars: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("expected 2 seeded active cars, got %d", len(cars))
	}
	for _, car := range cars {
		if !car.IsActive {
			t.Fatalf("inactive car in active list: %+v", car)
		}
	}
}

func TestCarCreateRequiresAuth(t *testing.T) {
	c, _ := newTestServer(t)

	_, err := c.CreateCar(context.Background(), domain.Car{Name: "X", Brand: "Y"}, nil)
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnauthorized || reqErr.Message != "Token is missing" {
		t.Fatalf("got %d %q", reqErr.Status, reqErr.Message)
	}
}

func TestCarCreateForbiddenForPlainUser(t *testing.T) {
	c, box := newTestServer(t)

	res, err := c.Register(context.Background(), "Plain", "plain@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	box.token = res.Token

	_, err = c.CreateCar(context.Background(), domain.Car{Name: "X", Brand: "Y"}, nil)
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusForbidden {
		t.Fatalf("plain user creating a car should 403, got %v", err)
	}
}

func TestCarLifecycle(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()
	login(t, c, box, "admin@rentgrid.test", "admin123")

	created, err := c.CreateCar(ctx, domain.Car{
		Name:     "Ioniq 5",
		Brand:    "Hyundai",
		Details:  "Electric crossover",
		Seats:    5,
		Features: []string{"V2L"},
		Specs:    map[string]string{"range": "480 km"},
		IsActive: true,
	}, &backend.Upload{Filename: "ioniq.jpg", Data: []byte("fake jpeg bytes")})
	if err != nil {
		t.Fatalf("create car: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created car has no id")
	}
	if created.ImageURL == "" {
		t.Fatal("uploaded image should yield an image url")
	}

	all, err := c.Cars(ctx, false)
	if err != nil {
		t.Fatalf("list cars: %v", err)
	}
	var found *domain.Car
	for i := range all {
		if all[i].ID == created.ID {
			found = &all[i]
		}
	}
	if found == nil {
		t.Fatalf("created car missing from list: %+v", all)
	}
	if found.Name != "Ioniq 5" || found.Brand != "Hyundai" || !found.IsActive {
		t.Fatalf("refetched car mismatch: %+v", found)
	}
	if len(found.Features) != 1 || found.Features[0] != "V2L" {
		t.Fatalf("features lost in transit: %+v", found.Features)
	}
	if found.Specs["range"] != "480 km" {
		t.Fatalf("specs lost in transit: %+v", found.Specs)
	}

	found.IsActive = false
	updated, err := c.UpdateCar(ctx, *found, nil)
	if err != nil {
		t.Fatalf("update car: %v", err)
	}
	if updated.IsActive {
		t.Fatal("update did not persist is_active=false")
	}

	active, err := c.ActiveCars(ctx)
	if err != nil {
		t.Fatalf("active cars: %v", err)
	}
	for _, car := range active {
		if car.ID == created.ID {
			t.Fatal("deactivated car still in active list")
		}
	}

	if err := c.DeleteCar(ctx, created.ID); err != nil {
		t.Fatalf("delete car: %v", err)
	}
	all, _ = c.Cars(ctx, false)
	for _, car := range all {
		if car.ID == created.ID {
			t.Fatal("deleted car still listed")
		}
	}
}

func TestBookingFlow(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()

	res, err := c.Register(context.Background(), "Renter", "renter@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	box.token = res.Token

	booking, err := c.CreateBooking(ctx, backend.BookingInput{
		PickupLocation:  "Airport",
		DropoffLocation: "Hotel",
		CarID:           1,
		CarType:         "sedan",
		PickupDate:      "2026-09-15",
		PickupTime:      "09:30",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.Status != domain.BookingPending {
		t.Fatalf("new bookings must start pending, got %q", booking.Status)
	}

	mine, err := c.MyBookings(ctx)
	if err != nil {
		t.Fatalf("my bookings: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != booking.ID {
		t.Fatalf("my bookings = %+v", mine)
	}

	// staff list is off limits for the renter
	if _, err := c.Bookings(ctx, backend.BookingFilter{}); err == nil {
		t.Fatal("plain user must not read the staff booking list")
	}

	login(t, c, box, "mod@rentgrid.test", "mod123")

	pending, err := c.Bookings(ctx, backend.BookingFilter{Status: domain.BookingPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	found := false
	for _, b := range pending {
		if b.Status != domain.BookingPending {
			t.Fatalf("non-pending booking in filtered list: %+v", b)
		}
		if b.ID == booking.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("new booking missing from pending list")
	}

	confirmed, err := c.UpdateBookingStatus(ctx, booking.ID, domain.BookingConfirmed)
	if err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	if confirmed.Status != domain.BookingConfirmed {
		t.Fatalf("status = %q", confirmed.Status)
	}

	_, err = c.UpdateBookingStatus(ctx, booking.ID, "archived")
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusBadRequest {
		t.Fatalf("unknown status should 400, got %v", err)
	}
}

func TestRolePatchIsAdminOnly(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()

	res, err := c.Register(ctx, "Promotee", "promotee@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	target := res.User.ID

	login(t, c, box, "mod@rentgrid.test", "mod123")
	_, err = c.UpdateUserRole(ctx, target, domain.RoleModerator)
	var reqErr *backend.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusForbidden {
		t.Fatalf("moderator changing roles should 403, got %v", err)
	}

	login(t, c, box, "admin@rentgrid.test", "admin123")
	updated, err := c.UpdateUserRole(ctx, target, domain.RoleModerator)
	if err != nil {
		t.Fatalf("admin role patch: %v", err)
	}
	if updated.Role != domain.RoleModerator {
		t.Fatalf("role = %q", updated.Role)
	}

	if _, err := c.UpdateUserRole(ctx, target, "owner"); err == nil {
		t.Fatal("unknown role should be rejected")
	}
}

func TestUsersListIsStaffScoped(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()

	login(t, c, box, "mod@rentgrid.test", "mod123")
	users, err := c.Users(ctx)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) < 2 {
		t.Fatalf("expected the seeded accounts, got %+v", users)
	}

	res, err := c.Register(ctx, "Nosy", "nosy@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	box.token = res.Token
	if _, err := c.Users(ctx); err == nil {
		t.Fatal("plain user must not list accounts")
	}
}

func TestProfileAndPassword(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()

	res, err := c.Register(ctx, "Old Name", "profile@rentgrid.test", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	box.token = res.Token

	updated, err := c.UpdateProfile(ctx, "New Name")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("name = %q", updated.Name)
	}

	if err := c.ChangePassword(ctx, "wrong", "another1"); err == nil {
		t.Fatal("wrong current password should fail")
	}
	if err := c.ChangePassword(ctx, "secret1", "another1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	// old password no longer works, new one does
	if _, err := c.Login(ctx, "profile@rentgrid.test", "secret1"); err == nil {
		t.Fatal("old password should be rejected after rotation")
	}
	if _, err := c.Login(ctx, "profile@rentgrid.test", "another1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestContentAdminFlow(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()
	login(t, c, box, "admin@rentgrid.test", "admin123")

	blocks, err := c.ContentBlocks(ctx, "")
	if err != nil {
		t.Fatalf("content blocks: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 seeded blocks, got %d", len(blocks))
	}

	created, err := c.CreateContent(ctx, domain.ContentBlock{Key: "promo", Title: "Promo", Content: "Summer deal"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	created.Content = "Winter deal"
	updated, err := c.UpdateContent(ctx, created)
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.Content != "Winter deal" {
		t.Fatalf("content = %q", updated.Content)
	}

	withImage, err := c.CreateContentWithImage(ctx, domain.ContentBlock{Key: "banner", Title: "Banner"},
		&backend.Upload{Filename: "banner.png", Data: []byte("png bytes")})
	if err != nil {
		t.Fatalf("create content with image: %v", err)
	}
	if withImage.ImageURL == "" {
		t.Fatal("image upload should yield an image url")
	}

	filtered, err := c.ContentBlocks(ctx, "promo")
	if err != nil {
		t.Fatalf("filtered blocks: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Key != "promo" {
		t.Fatalf("filtered = %+v", filtered)
	}
}

func TestDashboard(t *testing.T) {
	c, box := newTestServer(t)
	ctx := context.Background()
	login(t, c, box, "mod@rentgrid.test", "mod123")

	summary, err := c.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Users.Total < 2 {
		t.Fatalf("expected the seeded accounts counted, got %+v", summary.Users)
	}
	if summary.Bookings.Total < 1 {
		t.Fatalf("expected the seeded booking counted, got %+v", summary.Bookings)
	}

	charts, err := c.Charts(ctx, "7d")
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	if len(charts.BookingsOverTime) != 7 {
		t.Fatalf("expected 7 daily points, got %d", len(charts.BookingsOverTime))
	}

	if _, err := c.Charts(ctx, "1y"); err == nil {
		t.Fatal("unknown range should be rejected")
	}
}
