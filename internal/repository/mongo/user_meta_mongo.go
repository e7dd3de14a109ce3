package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// UserMetaMongo stores billing identifiers and the unsubscribe list per user.
type UserMetaMongo struct {
	coll *mongo.Collection
	now  clock
}

// NewUserMetaMongo creates a UserMetaMongo on db's user_meta collection.
func NewUserMetaMongo(db *mongo.Database) *UserMetaMongo {
	return &UserMetaMongo{coll: db.Collection(UserMetaCollection), now: utcNow}
}

var _ repository.UserMetaRepository = (*UserMetaMongo)(nil)

// FindByUser returns mongo.ErrNoDocuments when nothing is stored for the user.
func (r *UserMetaMongo) FindByUser(ctx context.Context, userID string) (*model.UserMeta, error) {
	var m model.UserMeta
	if err := r.coll.FindOne(ctx, byUser(userID)).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserMetaMongo) SetBilling(ctx context.Context, userID string, b repository.BillingUpdate) error {
	_, err := r.coll.UpdateOne(ctx, byUser(userID), billingUpdate(b, r.now()), upsert)
	return err
}

// Unsubscribe adds list to the opt-out set. Repeated calls are no-ops.
func (r *UserMetaMongo) Unsubscribe(ctx context.Context, userID, list string) error {
	now := r.now()
	update := bson.M{
		"$addToSet":    bson.M{"unsubscribed": list},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.coll.UpdateOne(ctx, byUser(userID), update, upsert)
	return err
}

func (r *UserMetaMongo) Resubscribe(ctx context.Context, userID, list string) error {
	update := bson.M{
		"$pull": bson.M{"unsubscribed": list},
		"$set":  bson.M{"updated_at": r.now()},
	}
	_, err := r.coll.UpdateOne(ctx, byUser(userID), update)
	return err
}

func (r *UserMetaMongo) Delete(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteOne(ctx, byUser(userID))
	return err
}

// billingUpdate sets the non-empty fields of b.
func billingUpdate(b repository.BillingUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for field, v := range map[string]string{
		"stripe_customer_id":  b.StripeCustomerID,
		"subscription_id":     b.SubscriptionID,
		"subscription_status": b.SubscriptionStatus,
		"plan_id":             b.PlanID,
	} {
		if v != "" {
			set[field] = v
		}
	}
	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"created_at":   now,
			"unsubscribed": bson.A{},
		},
	}
}
