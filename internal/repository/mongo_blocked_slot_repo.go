package repository

import (
	"beachvolley/internal/db"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBlockedSlotRepository struct {
	coll *mongo.Collection
}

func (r *MongoBlockedSlotRepository) ListBlockedSlots(ctx context.Context, date string) ([]db.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	filter := bson.M{}
	if date != "" {
		filter["data"] = date
	}
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: 1}, {Key: "orario", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying blocked slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []db.BlockedSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding blocked slots: %w", err)
	}
	return slots, nil
}

func (r *MongoBlockedSlotRepository) CountBlocked(ctx context.Context, date, slot string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"data": date, "orario": slot})
	if err != nil {
		return 0, fmt.Errorf("error counting blocked slots: %w", err)
	}
	return int(n), nil
}

func (r *MongoBlockedSlotRepository) UpsertBlockedSlot(ctx context.Context, slot *db.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"tipo":       slot.Kind,
			"motivo":     slot.Reason,
			"updated_at": slot.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": slot.UpdatedAt},
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"data": slot.Date, "orario": slot.Time},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("error upserting blocked slot %s %s: %w", slot.Date, slot.Time, err)
	}
	if result.UpsertedCount > 0 {
		slot.CreatedAt = slot.UpdatedAt
	}
	return nil
}

func (r *MongoBlockedSlotRepository) DeleteBlockedSlot(ctx context.Context, date, slot string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"data": date, "orario": slot})
	if err != nil {
		return false, fmt.Errorf("error deleting blocked slot %s %s: %w", date, slot, err)
	}
	return result.DeletedCount > 0, nil
}
