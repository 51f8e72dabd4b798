package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_booking/internal/domain"
)

func (s *Store) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	res, err := s.hotels.InsertOne(ctx, toHotelDoc(h))
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	h.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return h, nil
}

func (s *Store) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	oid, err := objectID(h.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	set := bson.D{
		{Key: "hotel_name", Value: h.Name},
		{Key: "hotel_description", Value: h.Description},
		{Key: "star_rating", Value: h.StarRating},
		{Key: "country", Value: h.Country},
		{Key: "cost_per_night", Value: h.CostPerNight},
		{Key: "available", Value: h.Available},
	}
	if h.Image != "" {
		set = append(set, bson.E{Key: "image", Value: h.Image})
	}
	var doc hotelDoc
	err = s.hotels.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func (s *Store) DeleteHotel(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.hotels.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.Hotel{}, err
	}
	var doc hotelDoc
	if err := s.hotels.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	return doc.toDomain(), nil
}

func (s *Store) ListAvailable(ctx context.Context) ([]domain.Hotel, error) {
	return s.findHotels(ctx, bson.D{{Key: "available", Value: bson.D{{Key: "$eq", Value: true}}}})
}

func (s *Store) ListByCountry(ctx context.Context, country string) ([]domain.Hotel, error) {
	return s.findHotels(ctx, bson.D{{Key: "country", Value: country}})
}

func (s *Store) DistinctCountries(ctx context.Context) ([]string, error) {
	raw, err := s.hotels.Distinct(ctx, "country", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct countries: %w", err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if c, ok := v.(string); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) SampleAvailable(ctx context.Context, n int) ([]domain.Hotel, error) {
	return s.aggregateHotels(ctx, sampleAvailablePipeline(n))
}

func (s *Store) SampleCountries(ctx context.Context, n int) ([]string, error) {
	cur, err := s.hotels.Aggregate(ctx, sampleCountriesPipeline(n))
	if err != nil {
		return nil, fmt.Errorf("sample countries: %w", err)
	}
	var groups []struct {
		Country string `bson:"_id"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Country)
	}
	return out, nil
}

func (s *Store) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	return s.aggregateHotels(ctx, searchPipeline(q))
}

func (s *Store) FindByIDOrName(ctx context.Context, id, name string) ([]domain.Hotel, error) {
	var or bson.A
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		or = append(or, bson.D{{Key: "_id", Value: oid}})
	}
	if name != "" {
		or = append(or, bson.D{{Key: "hotel_name", Value: name}})
	}
	if len(or) == 0 {
		return []domain.Hotel{}, nil
	}
	return s.findHotels(ctx, bson.D{{Key: "$or", Value: or}}, options.Find().SetCollation(caseInsensitive))
}

func (s *Store) findHotels(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]domain.Hotel, error) {
	cur, err := s.hotels.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find hotels: %w", err)
	}
	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return hotelsFrom(docs), nil
}

func (s *Store) aggregateHotels(ctx context.Context, p mongo.Pipeline) ([]domain.Hotel, error) {
	cur, err := s.hotels.Aggregate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("aggregate hotels: %w", err)
	}
	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return hotelsFrom(docs), nil
}
