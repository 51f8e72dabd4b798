package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_booking/internal/domain"
)

const (
	HotelsCollection   = "hotels"
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	SessionsCollection = "sessions"
)

// Connect dials and pings the cluster.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Store implements the hotel, user and order repositories on one database.
type Store struct {
	hotels *mongo.Collection
	users  *mongo.Collection
	orders *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		hotels: db.Collection(HotelsCollection),
		users:  db.Collection(UsersCollection),
		orders: db.Collection(OrdersCollection),
	}
}

// EnsureIndexes creates the text index used by search, the unique login
// index, and the per-user order index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.hotels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "hotel_name", Value: "text"}, {Key: "country", Value: "text"}},
		Options: options.Index().SetName("hotel_text"),
	}); err != nil {
		return fmt.Errorf("hotels text index: %w", err)
	}
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("user_id"),
	}); err != nil {
		return fmt.Errorf("orders user index: %w", err)
	}
	return nil
}

// objectID treats a malformed id as a missing record.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	default:
		return err
	}
}
