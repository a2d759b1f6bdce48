package mongostore

import (
	"context"
	"errors"

	"github.com/geocoder89/travellog/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the ones the service has always used.
const (
	UsersCollection  = "user"
	TripsCollection  = "trip"
	PlacesCollection = "place"
)

type base struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func (b base) observe(op string, fn func() error) error {
	return b.prom.ObserveDB(op, fn)
}

func (b base) maxID(ctx context.Context, op, field string) (int64, error) {
	var doc bson.M

	err := b.observe(op, func() error {
		opts := options.FindOne().
			SetSort(bson.D{{Key: field, Value: -1}}).
			SetProjection(bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 0}})
		return b.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	})

	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return toInt64(doc[field]), nil
}

func (b base) exists(ctx context.Context, op, field string, id int64) (bool, error) {
	var n int64

	err := b.observe(op, func() error {
		var e error
		n, e = b.coll.CountDocuments(ctx, bson.D{{Key: field, Value: id}}, options.Count().SetLimit(1))
		return e
	})

	return n > 0, err
}

// list counts all matches and decodes one sorted page into out.
func (b base) list(ctx context.Context, op, idField string, filter bson.D, limit, offset int, out any) (int64, error) {
	var total int64

	err := b.observe(op, func() error {
		var e error
		total, e = b.coll.CountDocuments(ctx, filter)
		if e != nil {
			return e
		}

		opts := options.Find().
			SetSort(bson.D{{Key: idField, Value: 1}}).
			SetSkip(int64(offset)).
			SetLimit(int64(limit))

		cur, e := b.coll.Find(ctx, filter, opts)
		if e != nil {
			return e
		}

		return cur.All(ctx, out)
	})

	return total, err
}

// replace overwrites the document with the given id, reporting whether it
// existed.
func (b base) replace(ctx context.Context, op, field string, id int64, doc any) (bool, error) {
	var res *mongo.UpdateResult

	err := b.observe(op, func() error {
		var e error
		res, e = b.coll.ReplaceOne(ctx, bson.D{{Key: field, Value: id}}, doc)
		return e
	})
	if err != nil {
		return false, err
	}

	return res.MatchedCount > 0, nil
}

func (b base) delete(ctx context.Context, op, field string, id int64) (bool, error) {
	var res *mongo.DeleteResult

	err := b.observe(op, func() error {
		var e error
		res, e = b.coll.DeleteOne(ctx, bson.D{{Key: field, Value: id}})
		return e
	})
	if err != nil {
		return false, err
	}

	return res.DeletedCount > 0, nil
}

type groupCount struct {
	Key   int64 `bson:"_id"`
	Count int64 `bson:"count"`
}

// groupCounts counts documents per value of field, restricted to ids.
func (b base) groupCounts(ctx context.Context, op, field string, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: ids}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	var rows []groupCount
	err := b.observe(op, func() error {
		cur, err := b.coll.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		return cur.All(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.Key] = r.Count
	}

	return counts, nil
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
