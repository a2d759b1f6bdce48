package mongostore

import (
	"context"
	"errors"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PlacesRepo struct {
	base
}

func NewPlacesRepo(db *mongo.Database, prom *observability.Prom) *PlacesRepo {
	return &PlacesRepo{base{coll: db.Collection(PlacesCollection), prom: prom}}
}

func (r *PlacesRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "places.max_id", "placeid")
}

func (r *PlacesRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "places.exists", "placeid", id)
}

func (r *PlacesRepo) Insert(ctx context.Context, p place.Place) error {
	err := r.observe("places.insert", func() error {
		_, e := r.coll.InsertOne(ctx, p)
		return e
	})

	if mongo.IsDuplicateKeyError(err) {
		return place.ErrIDTaken
	}

	return err
}

func (r *PlacesRepo) GetByID(ctx context.Context, id int64) (place.Place, error) {
	var p place.Place

	err := r.observe("places.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "placeid", Value: id}}).Decode(&p)
	})

	if errors.Is(err, mongo.ErrNoDocuments) {
		return place.Place{}, place.ErrNotFound
	}

	return p, err
}

func (r *PlacesRepo) List(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error) {
	filter := bson.D{}
	if f.Trip != nil {
		filter = append(filter, bson.E{Key: "placeCorrTrip", Value: *f.Trip})
	}

	items := make([]place.Place, 0, f.Limit)

	total, err := r.list(ctx, "places.list", "placeid", filter, f.Limit, f.Offset, &items)
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []place.Place{}
	}

	return items, total, nil
}

func (r *PlacesRepo) Update(ctx context.Context, p place.Place) error {
	ok, err := r.replace(ctx, "places.update", "placeid", p.PlaceID, p)
	if err != nil {
		return err
	}

	if !ok {
		return place.ErrNotFound
	}

	return nil
}

func (r *PlacesRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.delete(ctx, "places.delete", "placeid", id)
	if err != nil {
		return err
	}

	if !ok {
		return place.ErrNotFound
	}

	return nil
}

func (r *PlacesRepo) CountByTrips(ctx context.Context, tripIDs []int64) (map[int64]int64, error) {
	return r.groupCounts(ctx, "places.count_by_trips", "placeCorrTrip", tripIDs)
}
