package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// UsageMongo stores one document per user: {user_id, days: {<day>: bool}, updated_at}.
type UsageMongo struct {
	coll *mongo.Collection
	now  clock
}

// NewUsageMongo creates a UsageMongo on db's usage collection.
func NewUsageMongo(db *mongo.Database) *UsageMongo {
	return &UsageMongo{coll: db.Collection(UsageCollection), now: utcNow}
}

var _ repository.UsageRepository = (*UsageMongo)(nil)

// FindByUser returns mongo.ErrNoDocuments when the user has no usage yet.
func (r *UsageMongo) FindByUser(ctx context.Context, userID string) (*model.Usage, error) {
	var u model.Usage
	if err := r.coll.FindOne(ctx, byUser(userID)).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetDay upserts a single day flag without touching the others.
func (r *UsageMongo) SetDay(ctx context.Context, userID, day string, used bool) error {
	_, err := r.coll.UpdateOne(ctx, byUser(userID), setDayUpdate(day, used, r.now()), upsert)
	return err
}

func (r *UsageMongo) Delete(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteOne(ctx, byUser(userID))
	return err
}

func setDayUpdate(day string, used bool, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"days." + day: used,
			"updated_at":  now,
		},
	}
}
