package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reservationsCollection = "prenotazioni"
	configCollection       = "configurazioni"
	blockedCollection      = "orari_bloccati"

	mongoTimeout = 5 * time.Second
)

// NewMongoStore connects to MongoDB and wires the document-store repositories.
// Closing the store disconnects the client.
func NewMongoStore(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(dbName)
	if err := ensureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Reservations: &MongoReservationRepository{coll: database.Collection(reservationsCollection)},
		BlockedSlots: &MongoBlockedSlotRepository{coll: database.Collection(blockedCollection)},
		Config:       &MongoConfigRepository{coll: database.Collection(configCollection)},
		close:        client.Disconnect,
	}, nil
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		reservationsCollection: {
			{
				Keys:    bson.D{{Key: "data", Value: 1}, {Key: "orario", Value: 1}},
				Options: options.Index().SetName("data_orario_idx"),
			},
			{
				Keys:    bson.D{{Key: "nome", Value: 1}},
				Options: options.Index().SetName("nome_idx"),
			},
		},
		configCollection: {
			{
				Keys:    bson.D{{Key: "chiave", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_chiave"),
			},
		},
		blockedCollection: {
			{
				Keys:    bson.D{{Key: "data", Value: 1}, {Key: "orario", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_data_orario"),
			},
		},
	}
	for coll, models := range indexes {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}
