package mongostore

import (
	"context"
	"errors"

	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TripsRepo struct {
	base
}

func NewTripsRepo(db *mongo.Database, prom *observability.Prom) *TripsRepo {
	return &TripsRepo{base{coll: db.Collection(TripsCollection), prom: prom}}
}

func (r *TripsRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "trips.max_id", "tripid")
}

func (r *TripsRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "trips.exists", "tripid", id)
}

func (r *TripsRepo) Insert(ctx context.Context, t trip.Trip) error {
	err := r.observe("trips.insert", func() error {
		_, e := r.coll.InsertOne(ctx, t)
		return e
	})

	if mongo.IsDuplicateKeyError(err) {
		return trip.ErrIDTaken
	}

	return err
}

func (r *TripsRepo) GetByID(ctx context.Context, id int64) (trip.Trip, error) {
	var t trip.Trip

	err := r.observe("trips.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "tripid", Value: id}}).Decode(&t)
	})

	if errors.Is(err, mongo.ErrNoDocuments) {
		return trip.Trip{}, trip.ErrNotFound
	}

	return t, err
}

func (r *TripsRepo) List(ctx context.Context, f trip.ListFilter) ([]trip.Trip, int64, error) {
	filter := bson.D{}
	if f.Creator != nil {
		filter = append(filter, bson.E{Key: "tripCreator", Value: *f.Creator})
	}

	items := make([]trip.Trip, 0, f.Limit)

	total, err := r.list(ctx, "trips.list", "tripid", filter, f.Limit, f.Offset, &items)
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []trip.Trip{}
	}

	return items, total, nil
}

func (r *TripsRepo) Update(ctx context.Context, t trip.Trip) error {
	ok, err := r.replace(ctx, "trips.update", "tripid", t.TripID, t)
	if err != nil {
		return err
	}

	if !ok {
		return trip.ErrNotFound
	}

	return nil
}

func (r *TripsRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.delete(ctx, "trips.delete", "tripid", id)
	if err != nil {
		return err
	}

	if !ok {
		return trip.ErrNotFound
	}

	return nil
}

func (r *TripsRepo) CountByCreators(ctx context.Context, userIDs []int64) (map[int64]int64, error) {
	return r.groupCounts(ctx, "trips.count_by_creators", "tripCreator", userIDs)
}
