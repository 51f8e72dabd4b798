package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func validHotel() domain.Hotel {
	return domain.Hotel{Name: " Sea View ", Description: "Seaside", StarRating: 4, Country: "Italy", CostPerNight: 120, Available: true}
}

func TestCreate_UploadThenPersist(t *testing.T) {
	repo := newFakeHotels()
	up := &fakeUploader{ref: "img-123"}
	cache := &fakeCache{store: map[string][]string{"countries:distinct": {"Old"}}}
	s := app.NewHotelService(repo, up, cache)

	h, err := s.Create(context.Background(), validHotel(), &domain.ImageFile{Name: "a.jpg", Body: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Image != "img-123" || h.Name != "Sea View" || h.ID == "" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if cache.dels != 1 {
		t.Fatalf("expected countries cache invalidated")
	}
}

func TestCreate_UploadFailureSkipsPersist(t *testing.T) {
	repo := newFakeHotels()
	s := app.NewHotelService(repo, &fakeUploader{err: errBoom}, nil)

	_, err := s.Create(context.Background(), validHotel(), &domain.ImageFile{Name: "a.jpg"})
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("hotel must not be persisted after failed upload")
	}
}

func TestCreate_NoFileSkipsUpload(t *testing.T) {
	up := &fakeUploader{ref: "unused"}
	s := app.NewHotelService(newFakeHotels(), up, nil)
	h, err := s.Create(context.Background(), validHotel(), nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if up.calls != 0 || h.Image != "" {
		t.Fatalf("expected no upload, calls=%d image=%q", up.calls, h.Image)
	}
}

func TestCreate_InvalidHotelRejected(t *testing.T) {
	repo := newFakeHotels()
	s := app.NewHotelService(repo, nil, nil)
	bad := validHotel()
	bad.StarRating = 6
	if _, err := s.Create(context.Background(), bad, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("invalid hotel persisted")
	}
}

func TestUpdate_KeepsImageWithoutUpload(t *testing.T) {
	repo := newFakeHotels()
	s := app.NewHotelService(repo, &fakeUploader{ref: "first"}, nil)
	ctx := context.Background()
	h, _ := s.Create(ctx, validHotel(), &domain.ImageFile{Name: "a.jpg"})

	changed := validHotel()
	changed.CostPerNight = 99
	out, err := s.Update(ctx, h.ID, changed, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Image != "first" || out.CostPerNight != 99 {
		t.Fatalf("unexpected update result: %+v", out)
	}
	if _, err := s.Update(ctx, "missing", changed, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupAndDelete(t *testing.T) {
	repo := newFakeHotels(domain.Hotel{Name: "Grand Nile", Country: "Egypt"})
	s := app.NewHotelService(repo, nil, nil)
	ctx := context.Background()

	got, err := s.Lookup(ctx, "", "grand nile")
	if err != nil || len(got) != 1 {
		t.Fatalf("lookup by name: %v %v", got, err)
	}
	if got, _ := s.Lookup(ctx, " ", ""); got != nil {
		t.Fatalf("expected empty lookup for blank input")
	}
	if err := s.Delete(ctx, got[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Find(ctx, got[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected deleted hotel gone, got %v", err)
	}
}
