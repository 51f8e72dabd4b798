package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotel_booking/internal/domain"
)

// caseInsensitive is the collation for id-or-name lookups.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

func sampleAvailablePipeline(n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "available", Value: true}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}
}

func sampleCountriesPipeline(n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$country"}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
	}
}

// searchPipeline quotes the destination so $text matches it as one phrase.
func searchPipeline(q domain.SearchQuery) mongo.Pipeline {
	phrase := `"` + strings.ReplaceAll(q.Destination, `"`, "") + `"`
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: phrase}}}}}},
		{{Key: "$match", Value: bson.D{
			{Key: "available", Value: true},
			{Key: "star_rating", Value: bson.D{{Key: "$gte", Value: q.MinStars}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "cost_per_night", Value: int(q.Sort)}}}},
	}
}

// ordersPipeline attaches matching hotels as "hotel"; an empty userID keeps
// every order.
func ordersPipeline(userID string) mongo.Pipeline {
	p := mongo.Pipeline{}
	if userID != "" {
		p = append(p, bson.D{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}})
	}
	return append(p, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: HotelsCollection},
		{Key: "localField", Value: "hotel_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "hotel"},
	}}})
}
