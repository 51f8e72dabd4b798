package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

// HighlightSize is the sample size for each homepage strip.
const HighlightSize = 9

const countriesKey = "countries:distinct"

type QueryService struct {
	hotels   domain.HotelRepository
	orders   domain.OrderRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(h domain.HotelRepository, o domain.OrderRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, orders: o, cache: c, cacheTTL: ttl}
}

func (s *QueryService) AvailableHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.hotels.ListAvailable(ctx)
}

func (s *QueryService) Hotel(ctx context.Context, id string) (domain.Hotel, error) {
	return s.hotels.GetHotel(ctx, id)
}

func (s *QueryService) HotelsInCountry(ctx context.Context, country string) ([]domain.Hotel, error) {
	return s.hotels.ListByCountry(ctx, country)
}

// Countries returns each distinct country once, sorted.
func (s *QueryService) Countries(ctx context.Context) ([]string, error) {
	var out []string
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, countriesKey, &out); ok {
			return out, nil
		}
	}
	out, err := s.hotels.DistinctCountries(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	if s.cache != nil {
		_ = s.cache.Set(ctx, countriesKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Highlights samples available hotels and countries concurrently. Either
// sample failing fails the whole call.
func (s *QueryService) Highlights(ctx context.Context) (domain.Highlights, error) {
	var out domain.Highlights
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hs, err := s.hotels.SampleAvailable(gctx, HighlightSize)
		if err != nil {
			return fmt.Errorf("sample hotels: %w", err)
		}
		out.Hotels = hs
		return nil
	})
	g.Go(func() error {
		cs, err := s.hotels.SampleCountries(gctx, HighlightSize)
		if err != nil {
			return fmt.Errorf("sample countries: %w", err)
		}
		out.Countries = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Highlights{}, err
	}
	return out, nil
}

func (s *QueryService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	if q.Sort != domain.SortAscending && q.Sort != domain.SortDescending {
		return nil, fmt.Errorf("%w: sort must be 1 or -1", domain.ErrInvalidInput)
	}
	return s.hotels.Search(ctx, q)
}

func (s *QueryService) OrdersFor(ctx context.Context, userID string) ([]domain.OrderView, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	return s.orders.ListOrders(ctx, userID)
}

func (s *QueryService) AllOrders(ctx context.Context) ([]domain.OrderView, error) {
	return s.orders.ListOrders(ctx, "")
}
