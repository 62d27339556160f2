package repository

import (
	"beachvolley/internal/db"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfigRepository struct {
	coll *mongo.Collection
}

func (r *MongoConfigRepository) GetConfig(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var entry db.ConfigEntry
	err := r.coll.FindOne(ctx, bson.M{"chiave": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error reading config %s: %w", key, err)
	}
	return entry.Value, nil
}

func (r *MongoConfigRepository) SetConfig(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"chiave": key},
		bson.M{"$set": bson.M{"valore": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("error writing config %s: %w", key, err)
	}
	return nil
}

func (r *MongoConfigRepository) SeedDefaults(ctx context.Context, entries []db.ConfigEntry) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	for _, e := range entries {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"chiave": e.Key},
			bson.M{"$setOnInsert": e},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("error seeding config %s: %w", e.Key, err)
		}
	}
	return nil
}
