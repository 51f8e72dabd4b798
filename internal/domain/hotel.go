package domain

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

const (
	MaxHotelNameLen = 32
	MaxStarRating   = 5
)

type Hotel struct {
	ID           string
	Name         string
	Description  string
	Image        string // reference id returned by the image host
	StarRating   float64
	Country      string
	CostPerNight float64
	Available    bool
}

// Validate enforces the stored-record rules. Text fields are trimmed in place.
func (h *Hotel) Validate() error {
	h.Name = strings.TrimSpace(h.Name)
	h.Description = strings.TrimSpace(h.Description)
	h.Country = strings.TrimSpace(h.Country)

	switch {
	case h.Name == "":
		return fmt.Errorf("%w: hotel name is required", ErrInvalidInput)
	// names arrive entity-escaped; the limit applies to what is displayed
	case utf8.RuneCountInString(html.UnescapeString(h.Name)) > MaxHotelNameLen:
		return fmt.Errorf("%w: hotel name exceeds %d characters", ErrInvalidInput, MaxHotelNameLen)
	case h.Description == "":
		return fmt.Errorf("%w: hotel description is required", ErrInvalidInput)
	case h.Country == "":
		return fmt.Errorf("%w: country is required", ErrInvalidInput)
	case h.StarRating < 0 || h.StarRating > MaxStarRating:
		return fmt.Errorf("%w: star rating must be between 0 and %d", ErrInvalidInput, MaxStarRating)
	case h.CostPerNight < 0:
		return fmt.Errorf("%w: cost per night must not be negative", ErrInvalidInput)
	}
	return nil
}

type SortDirection int

const (
	SortAscending  SortDirection = 1
	SortDescending SortDirection = -1
)

// SearchQuery is an exact-phrase text match on name/country, restricted to
// available hotels with at least MinStars, ordered by cost per night.
type SearchQuery struct {
	Destination string
	MinStars    float64
	Sort        SortDirection
}

type Highlights struct {
	Hotels    []Hotel
	Countries []string
}
