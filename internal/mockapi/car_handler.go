package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/forms"
)

// CarHandler implements the inventory endpoints. Create and update consume
// the multipart form the admin screens submit: features and specs arrive as
// JSON-encoded strings, is_active as "1"/"0", plus an optional image file.
type CarHandler struct {
	store     *Store
	uploadDir string
}

func NewCarHandler(store *Store, uploadDir string) *CarHandler {
	return &CarHandler{store: store, uploadDir: uploadDir}
}

// List handles GET /api/cars with the optional ?active=true filter.
func (h *CarHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	return c.JSON(http.StatusOK, echo.Map{"success": true, "cars": h.store.Cars(activeOnly)})
}

// Create handles POST /api/cars.
func (h *CarHandler) Create(c echo.Context) error {
	car, err := h.carFromForm(c)
	if err != nil {
		return err
	}
	created := h.store.CreateCar(car)
	CarMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "car": created})
}

// Update handles PUT /api/cars/:id.
func (h *CarHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid car id")
	}
	car, err := h.carFromForm(c)
	if err != nil {
		return err
	}
	car.ID = id
	updated, err := h.store.UpdateCar(car)
	if err != nil {
		return err
	}
	CarMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "car": updated})
}

// Delete handles DELETE /api/cars/:id.
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid car id")
	}
	if err := h.store.DeleteCar(id); err != nil {
		return err
	}
	CarMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Car deleted"})
}

func (h *CarHandler) carFromForm(c echo.Context) (domain.Car, error) {
	seats := 0
	if v := c.FormValue("seats"); v != "" {
		var err error
		if seats, err = strconv.Atoi(v); err != nil {
			return domain.Car{}, echo.NewHTTPError(http.StatusBadRequest, "seats must be a number")
		}
	}

	car := domain.Car{
		Name:     c.FormValue("name"),
		Brand:    c.FormValue("brand"),
		Details:  c.FormValue("details"),
		Seats:    seats,
		IsActive: c.FormValue("is_active") == "1",
	}

	input := forms.CarForm{Name: car.Name, Brand: car.Brand, Details: car.Details, Seats: car.Seats}
	if err := c.Validate(&input); err != nil {
		return domain.Car{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if v := c.FormValue("features"); v != "" {
		if err := json.Unmarshal([]byte(v), &car.Features); err != nil {
			return domain.Car{}, echo.NewHTTPError(http.StatusBadRequest, "features must be a JSON array")
		}
	}
	if v := c.FormValue("specs"); v != "" {
		if err := json.Unmarshal([]byte(v), &car.Specs); err != nil {
			return domain.Car{}, echo.NewHTTPError(http.StatusBadRequest, "specs must be a JSON object")
		}
	}

	url, err := h.saveImage(c)
	if err != nil {
		return domain.Car{}, err
	}
	car.ImageURL = url
	return car, nil
}

// saveImage stores an uploaded image under the upload dir and returns its
// public path, or "" when the form carries no file.
func (h *CarHandler) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fh.Filename))
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return "/uploads/" + name, nil
}
