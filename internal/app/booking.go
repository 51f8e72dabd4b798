package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hotel_booking/internal/domain"
)

type BookingService struct {
	hotels domain.HotelRepository
	orders domain.OrderRepository
}

func NewBookingService(h domain.HotelRepository, o domain.OrderRepository) *BookingService {
	return &BookingService{hotels: h, orders: o}
}

// ParseBooking decodes the query-string blob carried in booking URLs:
// id, duration, dateOfDeparture, numberOfGuests.
func ParseBooking(data string) (domain.Booking, error) {
	v, err := url.ParseQuery(data)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: malformed booking data", domain.ErrInvalidInput)
	}
	b := domain.Booking{
		HotelID: strings.TrimSpace(v.Get("id")),
		Details: domain.BookingDetails{DepartureDate: strings.TrimSpace(v.Get("dateOfDeparture"))},
	}
	if b.HotelID == "" {
		return domain.Booking{}, fmt.Errorf("%w: hotel id is required", domain.ErrInvalidInput)
	}
	if b.Details.Duration, err = positiveInt(v.Get("duration")); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: duration %v", domain.ErrInvalidInput, err)
	}
	if b.Details.Guests, err = positiveInt(v.Get("numberOfGuests")); err != nil {
		return domain.Booking{}, fmt.Errorf("%w: number of guests %v", domain.ErrInvalidInput, err)
	}
	if b.Details.DepartureDate == "" {
		return domain.Booking{}, fmt.Errorf("%w: departure date is required", domain.ErrInvalidInput)
	}
	return b, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return n, nil
}

func (s *BookingService) Confirm(ctx context.Context, b domain.Booking) (domain.Confirmation, error) {
	h, err := s.hotels.GetHotel(ctx, b.HotelID)
	if err != nil {
		return domain.Confirmation{}, err
	}
	return domain.Confirmation{
		Hotel:   h,
		Details: b.Details,
		Total:   h.CostPerNight * float64(b.Details.Duration),
	}, nil
}

// Place records the order. The hotel must exist at creation time.
func (s *BookingService) Place(ctx context.Context, userID string, b domain.Booking) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if _, err := s.hotels.GetHotel(ctx, b.HotelID); err != nil {
		return domain.Order{}, err
	}
	return s.orders.CreateOrder(ctx, domain.Order{
		UserID:  userID,
		HotelID: b.HotelID,
		Details: b.Details,
	})
}
