package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("userid_unique")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		},
		TripsCollection: {
			{Keys: bson.D{{Key: "tripid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("tripid_unique")},
			{Keys: bson.D{{Key: "tripCreator", Value: 1}}, Options: options.Index().SetName("trip_creator")},
		},
		PlacesCollection: {
			{Keys: bson.D{{Key: "placeid", Value: 1}}, Options: options.Index().SetUnique(true).SetName("placeid_unique")},
			{Keys: bson.D{{Key: "placeCorrTrip", Value: 1}}, Options: options.Index().SetName("place_corr_trip")},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetName("location_2dsphere")},
		},
	}
}

// EnsureIndexes creates the unique id and email indexes the stores rely on
// to reject duplicates, plus the lookup and geo indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}

	return nil
}
