package domain

type BookingDetails struct {
	Duration      int    // nights
	DepartureDate string // as submitted, e.g. 2026-07-01
	Guests        int
}

type Order struct {
	ID      string
	UserID  string
	HotelID string
	Details BookingDetails
}

// OrderView is an order with the matching hotel attached. Hotels is empty
// when the stored reference no longer resolves.
type OrderView struct {
	Order
	Hotels []Hotel
}

// Booking is the parsed confirmation blob: which hotel and the stay parameters.
type Booking struct {
	HotelID string
	Details BookingDetails
}

type Confirmation struct {
	Hotel   Hotel
	Details BookingDetails
	Total   float64
}
