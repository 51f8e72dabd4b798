package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type HotelService struct {
	repo     domain.HotelRepository
	uploader domain.ImageUploader
	cache    domain.Cache
}

func NewHotelService(r domain.HotelRepository, u domain.ImageUploader, cache domain.Cache) *HotelService {
	return &HotelService{repo: r, uploader: u, cache: cache}
}

// Create uploads img first (when given) and persists the hotel only if the
// upload succeeded.
func (s *HotelService) Create(ctx context.Context, h domain.Hotel, img *domain.ImageFile) (domain.Hotel, error) {
	if err := h.Validate(); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.attachImage(ctx, &h, img); err != nil {
		return domain.Hotel{}, err
	}
	out, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

// Update replaces the editable fields of hotel id. The stored image is kept
// unless a new one is uploaded.
func (s *HotelService) Update(ctx context.Context, id string, h domain.Hotel, img *domain.ImageFile) (domain.Hotel, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.ID = id
	if err := h.Validate(); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.attachImage(ctx, &h, img); err != nil {
		return domain.Hotel{}, err
	}
	out, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *HotelService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *HotelService) Find(ctx context.Context, id string) (domain.Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

// Lookup finds hotels by exact id or case-insensitive name, whichever was given.
func (s *HotelService) Lookup(ctx context.Context, id, name string) ([]domain.Hotel, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" && name == "" {
		return nil, nil
	}
	return s.repo.FindByIDOrName(ctx, id, name)
}

func (s *HotelService) attachImage(ctx context.Context, h *domain.Hotel, img *domain.ImageFile) error {
	if img == nil {
		return nil
	}
	if s.uploader == nil {
		return fmt.Errorf("%w: no uploader configured", domain.ErrUploadFailed)
	}
	ref, err := s.uploader.Upload(ctx, *img)
	if err != nil {
		log.Warn().Err(err).Str("file", img.Name).Msg("image upload failed")
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	h.Image = ref
	return nil
}

// Any hotel write can add or remove a country.
func (s *HotelService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, countriesKey)
	}
}
