// Package mongo implements the document repositories on the official mongo driver.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsageCollection    = "usage"
	UserMetaCollection = "user_meta"
)

// IsNotFound reports whether err means no document matched.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// EnsureIndexes creates the unique user_id index on both collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{UsageCollection, UserMetaCollection} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_id_unique"),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func byUser(userID string) bson.M {
	return bson.M{"user_id": userID}
}

var upsert = options.Update().SetUpsert(true)

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
