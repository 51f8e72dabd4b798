package validation

import "hotel_booking/internal/domain"

// Field names shared by handlers and views.
const (
	FirstName       = "first_name"
	Surname         = "surname"
	Email           = "email"
	ConfirmEmail    = "confirm_email"
	Password        = "password"
	ConfirmPassword = "confirm_password"

	HotelID          = "hotel_id"
	HotelName        = "hotel_name"
	HotelDescription = "hotel_description"
	StarRating       = "star_rating"
	Country          = "country"
	CostPerNight     = "cost_per_night"
	Available        = "available"

	Destination = "destination"
	Stars       = "stars"
	Sort        = "sort"
)

const MinPasswordLen = 6

var SignUpRules = []Rule{
	Field(FirstName).
		NotEmpty("First name must be specified").
		Alphanumeric("First name must be alphanumeric").
		MaxLen(30, "First name must be at most 30 characters").Rule(),
	Field(Surname).
		NotEmpty("Surname must be specified").
		Alphanumeric("Surname must be alphanumeric").
		MaxLen(30, "Surname must be at most 30 characters").Rule(),
	Field(Email).Email("Invalid email address").Rule(),
	Field(ConfirmEmail).Matches(Email, "Email addresses do not match").Rule(),
	Field(Password).
		MinLen(MinPasswordLen, "Invalid password, password must be a minimum of 6 characters").Rule(),
	Field(ConfirmPassword).Matches(Password, "Passwords do not match").Rule(),
}

// SecretFields are trimmed but never escaped.
var SecretFields = []string{Password, ConfirmPassword}

var HotelRules = []Rule{
	Field(HotelName).
		NotEmpty("Hotel name is required").
		MaxLen(domain.MaxHotelNameLen, "Hotel name must be at most 32 characters").Rule(),
	Field(HotelDescription).NotEmpty("Hotel description is required").Rule(),
	Field(StarRating).
		Numeric("Hotel star rating must be a number").
		Between(0, domain.MaxStarRating, "Hotel star rating must be between 0 and 5").Rule(),
	Field(Country).NotEmpty("Country is required").Rule(),
	Field(CostPerNight).
		Numeric("Cost per night must be a number").
		Between(0, 1e9, "Cost per night must not be negative").Rule(),
	Field(Available).Boolean("Availability must be true or false").Rule(),
}

var SearchRules = []Rule{
	Field(Destination).NotEmpty("Destination must be specified").Rule(),
	Field(Stars).
		Numeric("Minimum star rating must be a number").
		Between(0, domain.MaxStarRating, "Minimum star rating must be between 0 and 5").Rule(),
	Field(Sort).OneOf("Sort order must be 1 or -1", "1", "-1").Rule(),
}

// HotelFromForm builds a Hotel from a form that already passed HotelRules.
func HotelFromForm(f Form) (domain.Hotel, error) {
	stars, err := f.Float(StarRating)
	if err != nil {
		return domain.Hotel{}, Errors{{Field: StarRating, Message: "Hotel star rating must be a number"}}
	}
	cost, err := f.Float(CostPerNight)
	if err != nil {
		return domain.Hotel{}, Errors{{Field: CostPerNight, Message: "Cost per night must be a number"}}
	}
	avail, err := f.Bool(Available)
	if err != nil {
		return domain.Hotel{}, Errors{{Field: Available, Message: "Availability must be true or false"}}
	}
	return domain.Hotel{
		Name:         f[HotelName],
		Description:  f[HotelDescription],
		StarRating:   stars,
		Country:      f[Country],
		CostPerNight: cost,
		Available:    avail,
	}, nil
}

// SearchFromForm builds a SearchQuery from a form that already passed SearchRules.
func SearchFromForm(f Form) (domain.SearchQuery, error) {
	stars, err := f.Float(Stars)
	if err != nil {
		return domain.SearchQuery{}, Errors{{Field: Stars, Message: "Minimum star rating must be a number"}}
	}
	sort, err := f.Int(Sort)
	if err != nil {
		return domain.SearchQuery{}, Errors{{Field: Sort, Message: "Sort order must be 1 or -1"}}
	}
	return domain.SearchQuery{
		Destination: f[Destination],
		MinStars:    stars,
		Sort:        domain.SortDirection(sort),
	}, nil
}

func SignUpFromForm(f Form) domain.SignUp {
	return domain.SignUp{
		FirstName: f[FirstName],
		Surname:   f[Surname],
		Email:     f[Email],
		Password:  f[Password],
	}
}
