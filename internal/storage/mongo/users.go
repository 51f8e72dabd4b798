package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hotel_booking/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	doc := userDoc{
		FirstName: u.FirstName,
		Surname:   u.Surname,
		Email:     domain.NormalizeEmail(u.Email),
		Password:  u.PasswordHash,
		IsAdmin:   u.IsAdmin,
	}
	res, err := s.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.User{}, domain.ErrDuplicateEmail
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return domain.User{}, err
	}
	return s.findUser(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.findUser(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (domain.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.User{}, mapErr(err)
	}
	return doc.toDomain(), nil
}
