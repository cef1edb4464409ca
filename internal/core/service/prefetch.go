package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// LandingData is everything the public landing page shows. Each slot is
// fetched independently; one failing key leaves the others intact.
type LandingData struct {
	About  *domain.ContentBlock
	Footer *domain.ContentBlock
	Slides []string
	Cars   []domain.Car

	AboutErr  error
	FooterErr error
	SlidesErr error
	CarsErr   error
}

// PublicFetcher is the slice of the backend the prefetcher needs.
type PublicFetcher interface {
	PublicContent(ctx context.Context, key string) (*domain.ContentBlock, error)
	ActiveCars(ctx context.Context) ([]domain.Car, error)
}

// Prefetch loads the landing-page content blocks and the active car list
// concurrently, one goroutine per slot, mirroring the parallel fetches the
// page components issue on mount. Results are applied to independent fields,
// so no cross-slot ordering is needed or provided.
func Prefetch(ctx context.Context, api PublicFetcher) *LandingData {
	var (
		data LandingData
		wg   sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		data.About, data.AboutErr = api.PublicContent(ctx, domain.ContentKeyAbout)
	}()
	go func() {
		defer wg.Done()
		data.Footer, data.FooterErr = api.PublicContent(ctx, domain.ContentKeyFooter)
	}()
	go func() {
		defer wg.Done()
		block, err := api.PublicContent(ctx, domain.ContentKeyHeaderSlides)
		if err != nil {
			data.SlidesErr = err
			return
		}
		data.Slides, data.SlidesErr = DecodeSlides(block)
	}()
	go func() {
		defer wg.Done()
		data.Cars, data.CarsErr = api.ActiveCars(ctx)
	}()
	wg.Wait()

	return &data
}

// DecodeSlides parses the JSON-encoded URL list an array-valued header_slides
// block stores in its content field.
func DecodeSlides(block *domain.ContentBlock) ([]string, error) {
	if block == nil || block.Content == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(block.Content), &urls); err != nil {
		return nil, err
	}
	return urls, nil
}
