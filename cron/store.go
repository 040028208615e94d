package cron

import (
	"context"
	"errors"
	"medirural/models"
	"medirural/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrderStore implements OrderStore on the orders collection.
type MongoOrderStore struct {
	Collection *mongo.Collection
}

// NewMongoOrderStore creates a store over the shared orders collection.
func NewMongoOrderStore(client *mongo.Client) *MongoOrderStore {
	return &MongoOrderStore{
		Collection: client.Database(utils.DatabaseName).Collection("orders"),
	}
}

// DueSubscriptions selects active subscription orders due exactly on day.
// Templates already stamped with lastRenewedDate == day are excluded so a
// same-day re-run creates no duplicates.
func (s *MongoOrderStore) DueSubscriptions(ctx context.Context, day time.Time) ([]models.Order, error) {
	filter := bson.M{
		"isSubscription":                       true,
		"subscriptionDetails.status":           models.SubscriptionActive,
		"subscriptionDetails.nextDeliveryDate": day,
		"subscriptionDetails.lastRenewedDate":  bson.M{"$ne": day},
	}

	cursor, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// InsertOrder persists a new order document.
func (s *MongoOrderStore) InsertOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	result, err := s.Collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted ID type")
	}
	return id, nil
}

// MarkRenewed stamps the template so it is skipped for the rest of day.
func (s *MongoOrderStore) MarkRenewed(ctx context.Context, id primitive.ObjectID, day time.Time) error {
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"subscriptionDetails.lastRenewedDate": day},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
