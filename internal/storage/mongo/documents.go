package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel_booking/internal/domain"
)

type hotelDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"hotel_name"`
	Description  string             `bson:"hotel_description"`
	Image        string             `bson:"image,omitempty"`
	StarRating   float64            `bson:"star_rating"`
	Country      string             `bson:"country"`
	CostPerNight float64            `bson:"cost_per_night"`
	Available    bool               `bson:"available"`
}

func toHotelDoc(h domain.Hotel) hotelDoc {
	return hotelDoc{
		Name:         h.Name,
		Description:  h.Description,
		Image:        h.Image,
		StarRating:   h.StarRating,
		Country:      h.Country,
		CostPerNight: h.CostPerNight,
		Available:    h.Available,
	}
}

func (d hotelDoc) toDomain() domain.Hotel {
	return domain.Hotel{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		Image:        d.Image,
		StarRating:   d.StarRating,
		Country:      d.Country,
		CostPerNight: d.CostPerNight,
		Available:    d.Available,
	}
}

func hotelsFrom(docs []hotelDoc) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	Surname   string             `bson:"surname"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"` // bcrypt hash
	IsAdmin   bool               `bson:"isAdmin"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		Surname:      d.Surname,
		Email:        d.Email,
		PasswordHash: d.Password,
		IsAdmin:      d.IsAdmin,
	}
}

type orderDetailsDoc struct {
	Duration      int    `bson:"duration"`
	DepartureDate string `bson:"dateOfDeparture"`
	Guests        int    `bson:"numberOfGuests"`
}

type orderDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  string             `bson:"user_id"`
	HotelID primitive.ObjectID `bson:"hotel_id"`
	Details orderDetailsDoc    `bson:"order_details"`
}

func (d orderDoc) toDomain() domain.Order {
	return domain.Order{
		ID:      d.ID.Hex(),
		UserID:  d.UserID,
		HotelID: d.HotelID.Hex(),
		Details: domain.BookingDetails{
			Duration:      d.Details.Duration,
			DepartureDate: d.Details.DepartureDate,
			Guests:        d.Details.Guests,
		},
	}
}

// orderViewDoc is the $lookup output: the order plus the matched hotels.
type orderViewDoc struct {
	orderDoc `bson:",inline"`
	Hotel    []hotelDoc `bson:"hotel"`
}
