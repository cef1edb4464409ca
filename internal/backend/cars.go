package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type carsResponse struct {
	envelope
	Cars []domain.Car `json:"cars"`
}

type carResponse struct {
	envelope
	Car domain.Car `json:"car"`
}

// Cars lists the inventory. activeOnly adds ?active=true for the public view.
func (c *Client) Cars(ctx context.Context, activeOnly bool) ([]domain.Car, error) {
	var query url.Values
	if activeOnly {
		query = url.Values{"active": {"true"}}
	}
	var resp carsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/cars", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cars, nil
}

// ActiveCars lists only active cars; satisfies service.PublicFetcher.
func (c *Client) ActiveCars(ctx context.Context) ([]domain.Car, error) {
	return c.Cars(ctx, true)
}

// CreateCar submits a multipart car record, optionally with an image file.
func (c *Client) CreateCar(ctx context.Context, car domain.Car, image *Upload) (domain.Car, error) {
	var resp carResponse
	form, err := carForm(car, image)
	if err != nil {
		return domain.Car{}, err
	}
	if err := c.doMultipart(ctx, http.MethodPost, "/api/cars", form, &resp); err != nil {
		return domain.Car{}, err
	}
	return resp.Car, nil
}

// UpdateCar replaces a car record via the multipart variant.
func (c *Client) UpdateCar(ctx context.Context, car domain.Car, image *Upload) (domain.Car, error) {
	var resp carResponse
	form, err := carForm(car, image)
	if err != nil {
		return domain.Car{}, err
	}
	path := fmt.Sprintf("/api/cars/%d", car.ID)
	if err := c.doMultipart(ctx, http.MethodPut, path, form, &resp); err != nil {
		return domain.Car{}, err
	}
	return resp.Car, nil
}

// DeleteCar removes a car from the inventory.
func (c *Client) DeleteCar(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cars/%d", id), nil, nil, nil)
}

// Upload is a file attached to a multipart call.
type Upload struct {
	Filename string
	Data     []byte
}

// carForm encodes a car the way the backend expects: features and specs as
// JSON-encoded strings, is_active as "1"/"0".
func carForm(car domain.Car, image *Upload) (*Form, error) {
	features, err := json.Marshal(car.Features)
	if err != nil {
		return nil, fmt.Errorf("backend: encode features: %w", err)
	}
	specs := car.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	specsJSON, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("backend: encode specs: %w", err)
	}
	active := "0"
	if car.IsActive {
		active = "1"
	}

	form := NewForm().
		Field("name", car.Name).
		Field("brand", car.Brand).
		Field("details", car.Details).
		Field("seats", fmt.Sprintf("%d", car.Seats)).
		Field("features", string(features)).
		Field("specs", string(specsJSON)).
		Field("is_active", active)
	if image != nil {
		form.File("image", image.Filename, image.Data)
	}
	return form, nil
}
