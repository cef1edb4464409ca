// Package mockapi is the bundled development backend: the same REST surface
// the production platform exposes, served from memory so local work and
// integration tests need no external processes.
package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// account pairs the public user record with server-only auth state.
type account struct {
	domain.User
	PasswordHash string
	VerifyCode   string
	VerifyExpiry time.Time
}

// Store holds all mock data behind one mutex. Aggregations read live data so
// the dashboard reflects every mutation immediately.
type Store struct {
	mu       sync.Mutex
	users    map[int64]*account
	cars     map[int64]*domain.Car
	bookings map[int64]*domain.Booking
	content  map[int64]*domain.ContentBlock
	nextID   int64
}

func NewStore() *Store {
	return &Store{
		users:    map[int64]*account{},
		cars:     map[int64]*domain.Car{},
		bookings: map[int64]*domain.Booking{},
		content:  map[int64]*domain.ContentBlock{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- users ---

func (s *Store) CreateUser(name, email, password, role string, verified bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, a := range s.users {
		if a.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &account{
		User: domain.User{
			ID:         s.id(),
			Name:       name,
			Email:      email,
			Role:       role,
			IsVerified: verified,
			CreatedAt:  time.Now().UTC(),
		},
		PasswordHash: string(hash),
	}
	s.users[a.ID] = a
	u := a.User
	return &u, nil
}

// Authenticate checks credentials and stamps last_login on success.
func (s *Store) Authenticate(email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.byEmail(email)
	if a == nil {
		return nil, domain.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	now := time.Now().UTC()
	a.LastLogin = &now
	u := a.User
	return &u, nil
}

func (s *Store) byEmail(email string) *account {
	email = strings.ToLower(email)
	for _, a := range s.users {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func (s *Store) UserByID(id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := a.User
	return &u, nil
}

func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, a := range s.users {
		out = append(out, a.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) SetRole(id int64, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Role = role
	u := a.User
	return &u, nil
}

func (s *Store) Rename(id int64, name string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Name = name
	u := a.User
	return &u, nil
}

func (s *Store) ChangePassword(id int64, current, updated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)) != nil {
		return domain.ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// SetVerifyCode stores a pending verification code for the account.
func (s *Store) SetVerifyCode(email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byEmail(email)
	if a == nil {
		return domain.ErrNotFound
	}
	if a.IsVerified {
		return domain.ErrAlreadyVerified
	}
	a.VerifyCode = code
	a.VerifyExpiry = time.Now().Add(ttl)
	return nil
}

// Verify redeems a verification code.
func (s *Store) Verify(email, code string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byEmail(email)
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}
	if time.Now().After(a.VerifyExpiry) {
		return nil, domain.ErrVerifyCodeExpired
	}
	if a.VerifyCode == "" || a.VerifyCode != code {
		return nil, domain.ErrBadVerifyCode
	}
	a.IsVerified = true
	a.VerifyCode = ""
	u := a.User
	return &u, nil
}

// --- cars ---

func (s *Store) Cars(activeOnly bool) []domain.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Car, 0, len(s.cars))
	for _, c := range s.cars {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateCar(car domain.Car) domain.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	car.ID = s.id()
	car.CreatedAt = now
	car.UpdatedAt = now
	s.cars[car.ID] = &car
	return car
}

// UpdateCar replaces the editable fields, keeping created_at and, when the
// update carries no new image, the existing image URL.
func (s *Store) UpdateCar(car domain.Car) (domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cars[car.ID]
	if !ok {
		return domain.Car{}, domain.ErrNotFound
	}
	car.CreatedAt = existing.CreatedAt
	if car.ImageURL == "" {
		car.ImageURL = existing.ImageURL
	}
	car.UpdatedAt = time.Now().UTC()
	s.cars[car.ID] = &car
	return car, nil
}

func (s *Store) DeleteCar(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.cars, id)
	return nil
}

// --- bookings ---

func (s *Store) Bookings(status domain.BookingStatus, from, to string) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if status != "" && b.Status != status {
			continue
		}
		if from != "" && b.PickupDate < from {
			continue
		}
		if to != "" && b.PickupDate > to {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) BookingsForUser(userID int64) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateBooking(b domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	b.Status = domain.BookingPending
	b.CreatedAt = time.Now().UTC()
	s.bookings[b.ID] = &b
	return b
}

func (s *Store) SetBookingStatus(id int64, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, domain.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	b.Status = status
	return *b, nil
}

// --- content ---

func (s *Store) ContentBlocks(key string) []domain.ContentBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ContentBlock, 0, len(s.content))
	for _, b := range s.content {
		if key != "" && b.Key != key {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ContentByKey(key string) (*domain.ContentBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.content {
		if b.Key == key {
			out := *b
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateContent(block domain.ContentBlock) domain.ContentBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	block.ID = s.id()
	block.UpdatedAt = time.Now().UTC()
	s.content[block.ID] = &block
	return block
}

func (s *Store) UpdateContent(block domain.ContentBlock) (domain.ContentBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.content[block.ID]
	if !ok {
		return domain.ContentBlock{}, domain.ErrNotFound
	}
	if block.Key == "" {
		block.Key = existing.Key
	}
	if block.Title == "" {
		block.Title = existing.Title
	}
	if block.Content == "" {
		block.Content = existing.Content
	}
	if block.ImageURL == "" {
		block.ImageURL = existing.ImageURL
	}
	block.UpdatedAt = time.Now().UTC()
	s.content[block.ID] = &block
	return block, nil
}

// --- dashboard ---

func (s *Store) Summary() domain.DashboardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum domain.DashboardSummary
	for _, a := range s.users {
		sum.Users.Total++
		if a.IsVerified {
			sum.Users.Verified++
		}
		switch a.Role {
		case domain.RoleAdmin:
			sum.Users.Admins++
		case domain.RoleModerator:
			sum.Users.Moderators++
		}
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	for _, b := range s.bookings {
		sum.Bookings.Total++
		switch b.Status {
		case domain.BookingPending:
			sum.Bookings.Pending++
		case domain.BookingConfirmed:
			sum.Bookings.Confirmed++
		case domain.BookingCompleted:
			sum.Bookings.Completed++
		case domain.BookingCancelled:
			sum.Bookings.Cancelled++
		}
		if b.CreatedAt.After(weekAgo) {
			sum.Bookings.Recent7Days++
		}
		if b.Status != domain.BookingCancelled {
			sum.Revenue.Total += b.Price
		}
	}
	return sum
}

// Charts buckets bookings, revenue, and signups per day over the range.
func (s *Store) Charts(days int) domain.DashboardCharts {
	s.mu.Lock()
	defer s.mu.Unlock()

	const day = "2006-01-02"
	start := time.Now().UTC().AddDate(0, 0, -(days - 1))
	index := map[string]int{}

	var charts domain.DashboardCharts
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(day)
		index[date] = i
		charts.BookingsOverTime = append(charts.BookingsOverTime, domain.ChartPoint{Date: date})
		charts.RevenueOverTime = append(charts.RevenueOverTime, domain.ChartPoint{Date: date})
		charts.UsersOverTime = append(charts.UsersOverTime, domain.ChartPoint{Date: date})
	}

	for _, b := range s.bookings {
		if i, ok := index[b.CreatedAt.Format(day)]; ok {
			charts.BookingsOverTime[i].Count++
			if b.Status != domain.BookingCancelled {
				charts.RevenueOverTime[i].Revenue += b.Price
			}
		}
	}
	for _, a := range s.users {
		if i, ok := index[a.CreatedAt.Format(day)]; ok {
			charts.UsersOverTime[i].Count++
		}
	}
	return charts
}

// Seed loads a usable development data set: one admin, a moderator, a couple
// of cars, and the public content blocks the landing page expects.
func (s *Store) Seed() {
	admin, _ := s.CreateUser("Admin", "admin@rentgrid.test", "admin123", domain.RoleAdmin, true)
	_, _ = s.CreateUser("Mod", "mod@rentgrid.test", "mod123", domain.RoleModerator, true)

	s.CreateCar(domain.Car{
		Name:     "Model 3",
		Brand:    "Tesla",
		Details:  "Long range, autopilot",
		Seats:    5,
		Features: []string{"Autopilot", "Heated seats"},
		Specs:    map[string]string{"range": "580 km", "drive": "AWD"},
		IsActive: true,
	})
	s.CreateCar(domain.Car{
		Name:     "Corolla",
		Brand:    "Toyota",
		Details:  "Economy sedan",
		Seats:    5,
		Features: []string{"Bluetooth"},
		Specs:    map[string]string{"fuel": "hybrid"},
		IsActive: true,
	})

	s.CreateContent(domain.ContentBlock{Key: domain.ContentKeyAbout, Title: "About us", Content: "Family-run rentals since 2009."})
	s.CreateContent(domain.ContentBlock{Key: domain.ContentKeyFooter, Title: "Footer", Content: "© Rentgrid"})
	s.CreateContent(domain.ContentBlock{Key: domain.ContentKeyHeaderSlides, Title: "Slides", Content: `["/uploads/slide1.jpg","/uploads/slide2.jpg"]`})

	if admin != nil {
		s.CreateBooking(domain.Booking{
			UserID:          admin.ID,
			PickupLocation:  "Airport",
			DropoffLocation: "Downtown",
			CarID:           1,
			CarType:         "sedan",
			PickupDate:      time.Now().Format("2006-01-02"),
			PickupTime:      "10:00",
			Price:           49.90,
		})
	}
}
