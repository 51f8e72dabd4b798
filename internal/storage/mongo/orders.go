package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotel_booking/internal/domain"
)

func (s *Store) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	hid, err := objectID(o.HotelID)
	if err != nil {
		return domain.Order{}, err
	}
	doc := orderDoc{
		UserID:  o.UserID,
		HotelID: hid,
		Details: orderDetailsDoc{
			Duration:      o.Details.Duration,
			DepartureDate: o.Details.DepartureDate,
			Guests:        o.Details.Guests,
		},
	}
	res, err := s.orders.InsertOne(ctx, doc)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	cur, err := s.orders.Aggregate(ctx, ordersPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	var docs []orderViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.OrderView, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.OrderView{Order: d.orderDoc.toDomain(), Hotels: hotelsFrom(d.Hotel)})
	}
	return out, nil
}
