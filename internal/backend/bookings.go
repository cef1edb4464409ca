package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// BookingFilter narrows the admin booking list. Zero values mean "no filter".
type BookingFilter struct {
	Status domain.BookingStatus
	From   string
	To     string
}

type bookingsResponse struct {
	envelope
	Bookings []domain.Booking `json:"bookings"`
}

type bookingResponse struct {
	envelope
	Booking domain.Booking `json:"booking"`
}

// Bookings lists bookings for the back office, optionally filtered.
func (c *Client) Bookings(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	var resp bookingsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookings", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// MyBookings lists the authenticated user's own bookings.
func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var resp bookingsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookings/my-bookings", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// BookingInput is the public reservation form.
type BookingInput struct {
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	CarID           int64  `json:"car_id"`
	CarType         string `json:"car_type"`
	PickupDate      string `json:"pickup_date"`
	PickupTime      string `json:"pickup_time"`
}

// CreateBooking submits a reservation.
func (c *Client) CreateBooking(ctx context.Context, input BookingInput) (domain.Booking, error) {
	var resp bookingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/bookings", nil, input, &resp); err != nil {
		return domain.Booking{}, err
	}
	return resp.Booking, nil
}

// UpdateBookingStatus moves a booking to one of the four statuses.
func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	body := map[string]string{"status": string(status)}
	path := fmt.Sprintf("/api/bookings/%d/status", id)
	var resp bookingResponse
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, body, &resp); err != nil {
		return domain.Booking{}, err
	}
	return resp.Booking, nil
}
