package domain

import "time"

// BookingStatus is the lifecycle state of a booking. Status is mutated only by
// admin or moderator action through the backend and is never cached locally.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every valid status, in lifecycle order.
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking is a reservation made through the public site.
type Booking struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	CarID           int64         `json:"car_id"`
	CarType         string        `json:"car_type"`
	PickupDate      string        `json:"pickup_date"`
	PickupTime      string        `json:"pickup_time"`
	Status          BookingStatus `json:"status"`
	Price           float64       `json:"price"`
	CreatedAt       time.Time     `json:"created_at"`
}
