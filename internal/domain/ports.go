package domain

import (
	"context"
	"io"
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id string) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListAvailable(ctx context.Context) ([]Hotel, error)
	ListByCountry(ctx context.Context, country string) ([]Hotel, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	SampleAvailable(ctx context.Context, n int) ([]Hotel, error)
	SampleCountries(ctx context.Context, n int) ([]string, error)
	Search(ctx context.Context, q SearchQuery) ([]Hotel, error)
	// FindByIDOrName matches either the id or a case-insensitive name.
	FindByIDOrName(ctx context.Context, id, name string) ([]Hotel, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o Order) (Order, error)
	// ListOrders joins hotels onto orders; an empty userID lists every order.
	ListOrders(ctx context.Context, userID string) ([]OrderView, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageUploader stores an image and returns an opaque reference id.
type ImageUploader interface {
	Upload(ctx context.Context, img ImageFile) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
