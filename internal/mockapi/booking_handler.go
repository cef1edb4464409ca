package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/forms"
)

// BookingHandler implements the booking endpoints.
type BookingHandler struct {
	store *Store
}

func NewBookingHandler(store *Store) *BookingHandler {
	return &BookingHandler{store: store}
}

// List handles GET /api/bookings with optional status/from/to filters.
func (h *BookingHandler) List(c echo.Context) error {
	status := domain.BookingStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
	}
	bookings := h.store.Bookings(status, c.QueryParam("from"), c.QueryParam("to"))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

// Mine handles GET /api/bookings/my-bookings for the authenticated user.
func (h *BookingHandler) Mine(c echo.Context) error {
	bookings := h.store.BookingsForUser(currentUserID(c))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

type createBookingRequest struct {
	PickupLocation  string  `json:"pickup_location" validate:"required"`
	DropoffLocation string  `json:"dropoff_location" validate:"required"`
	CarID           int64   `json:"car_id"`
	CarType         string  `json:"car_type"`
	PickupDate      string  `json:"pickup_date" validate:"required"`
	PickupTime      string  `json:"pickup_time" validate:"required"`
	Price           float64 `json:"price"`
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking := h.store.CreateBooking(domain.Booking{
		UserID:          currentUserID(c),
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CarID:           req.CarID,
		CarType:         req.CarType,
		PickupDate:      req.PickupDate,
		PickupTime:      req.PickupTime,
		Price:           req.Price,
	})
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "booking": booking})
}

// SetStatus handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid booking id")
	}

	var req forms.BookingStatusForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.store.SetBookingStatus(id, domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	BookingStatusChangesTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "booking": booking})
}
