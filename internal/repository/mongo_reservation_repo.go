package repository

import (
	"beachvolley/internal/db"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoReservationRepository struct {
	coll *mongo.Collection
}

func (r *MongoReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

func (r *MongoReservationRepository) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	filter := bson.M{}
	if date != "" {
		filter["data"] = date
	}
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: 1}, {Key: "orario", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []db.Reservation{}
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (r *MongoReservationRepository) GetReservation(ctx context.Context, id string) (*db.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var res db.Reservation
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %s: %w", id, err)
	}
	return &res, nil
}

func (r *MongoReservationRepository) DeleteReservation(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoReservationRepository) SetExternalEventID(ctx context.Context, id, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"google_event_id": eventID}})
	if err != nil {
		return fmt.Errorf("error updating event reference of reservation %s: %w", id, err)
	}
	return nil
}

func (r *MongoReservationRepository) CountConfirmed(ctx context.Context, date, slot string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"data": date, "orario": slot, "stato": db.StatusConfirmed})
	if err != nil {
		return 0, fmt.Errorf("error counting reservations: %w", err)
	}
	return int(n), nil
}

func (r *MongoReservationRepository) CountByDates(ctx context.Context, dates []string) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"data": bson.M{"$in": dates}})
	if err != nil {
		return 0, fmt.Errorf("error counting reservations by date: %w", err)
	}
	return int(n), nil
}

func (r *MongoReservationRepository) UpcomingDates(ctx context.Context, from string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, "data", bson.M{"data": bson.M{"$gte": from}})
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming reservation dates: %w", err)
	}
	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		if d, ok := v.(string); ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates, nil
}
