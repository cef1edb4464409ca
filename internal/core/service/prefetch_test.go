package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type fakePublic struct {
	blocks map[string]*domain.ContentBlock
	errs   map[string]error
	cars   []domain.Car
	carErr error
}

func (f *fakePublic) PublicContent(ctx context.Context, key string) (*domain.ContentBlock, error) {
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.blocks[key], nil
}

func (f *fakePublic) ActiveCars(ctx context.Context) ([]domain.Car, error) {
	return f.cars, f.carErr
}

func TestPrefetch_AllSlots(t *testing.T) {
	api := &fakePublic{
		blocks: map[string]*domain.ContentBlock{
			domain.ContentKeyAbout:        {Key: domain.ContentKeyAbout, Title: "About"},
			domain.ContentKeyFooter:       {Key: domain.ContentKeyFooter, Title: "Footer"},
			domain.ContentKeyHeaderSlides: {Key: domain.ContentKeyHeaderSlides, Content: `["/a.jpg","/b.jpg"]`},
		},
		cars: []domain.Car{{ID: 1, Name: "Model 3", IsActive: true}},
	}

	data := Prefetch(context.Background(), api)
	if data.AboutErr != nil || data.FooterErr != nil || data.SlidesErr != nil || data.CarsErr != nil {
		t.Fatalf("unexpected errors: %v %v %v %v", data.AboutErr, data.FooterErr, data.SlidesErr, data.CarsErr)
	}
	if data.About == nil || data.About.Title != "About" {
		t.Fatalf("about slot: %+v", data.About)
	}
	if len(data.Slides) != 2 || data.Slides[0] != "/a.jpg" {
		t.Fatalf("slides slot: %+v", data.Slides)
	}
	if len(data.Cars) != 1 {
		t.Fatalf("cars slot: %+v", data.Cars)
	}
}

func TestPrefetch_OneFailingSlotLeavesOthersIntact(t *testing.T) {
	api := &fakePublic{
		blocks: map[string]*domain.ContentBlock{
			domain.ContentKeyFooter: {Key: domain.ContentKeyFooter, Title: "Footer"},
		},
		errs:   map[string]error{domain.ContentKeyAbout: errors.New("boom")},
		carErr: errors.New("down"),
	}

	data := Prefetch(context.Background(), api)
	if data.AboutErr == nil || data.CarsErr == nil {
		t.Fatal("expected about and cars errors")
	}
	if data.FooterErr != nil || data.Footer == nil {
		t.Fatalf("footer slot should survive, err=%v block=%+v", data.FooterErr, data.Footer)
	}
}

func TestDecodeSlides(t *testing.T) {
	urls, err := DecodeSlides(&domain.ContentBlock{Content: `["/x.jpg"]`})
	if err != nil || len(urls) != 1 || urls[0] != "/x.jpg" {
		t.Fatalf("got %v, %v", urls, err)
	}

	if urls, err := DecodeSlides(nil); err != nil || urls != nil {
		t.Fatalf("nil block should decode to nothing, got %v, %v", urls, err)
	}
	if urls, err := DecodeSlides(&domain.ContentBlock{}); err != nil || urls != nil {
		t.Fatalf("empty content should decode to nothing, got %v, %v", urls, err)
	}
	if _, err := DecodeSlides(&domain.ContentBlock{Content: "not json"}); err == nil {
		t.Fatal("expected error for malformed slide list")
	}
}
