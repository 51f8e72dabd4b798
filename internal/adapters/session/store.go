package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	// Load returns ErrNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (Data, error)
	Save(ctx context.Context, id string, d Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ---------- Redis ----------

type RedisStore struct {
	c      redis.UniversalClient
	prefix string
}

func NewRedisStore(c redis.UniversalClient) *RedisStore {
	return &RedisStore{c: c, prefix: "session:"}
}

func (r *RedisStore) Load(ctx context.Context, id string) (Data, error) {
	var d Data
	b, err := r.c.Get(ctx, r.prefix+id).Bytes()
	if err == redis.Nil {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("session load: %w", err)
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("session decode: %w", err)
	}
	return d, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, d Data, ttl time.Duration) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	return r.c.Set(ctx, r.prefix+id, b, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.c.Del(ctx, r.prefix+id).Err()
}

// ---------- Mongo ----------

type sessionDoc struct {
	ID        string    `bson:"_id"`
	Data      Data      `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoStore keeps sessions next to the primary data. A TTL index reaps
// expired documents; Load also filters on expiry since the reaper is lazy.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("expires_at_ttl").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("sessions ttl index: %w", err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context, id string) (Data, error) {
	var doc sessionDoc
	err := m.coll.FindOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: m.now()}}},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, fmt.Errorf("session load: %w", err)
	}
	return doc.Data, nil
}

func (m *MongoStore) Save(ctx context.Context, id string, d Data, ttl time.Duration) error {
	doc := sessionDoc{ID: id, Data: d, ExpiresAt: m.now().Add(ttl)}
	_, err := m.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}
