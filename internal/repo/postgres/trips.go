package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tripsTable = "trips"

var tripColumns = []string{
	"tripid", "trip_name", "trip_description",
	"trip_creation_date", "trip_last_mod_date", "trip_creator",
}

type TripsRepo struct {
	base
}

func NewTripsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TripsRepo {
	return &TripsRepo{base{pool: pool, prom: prom}}
}

func scanTrip(row pgx.Row) (trip.Trip, error) {
	var t trip.Trip
	err := row.Scan(&t.TripID, &t.TripName, &t.TripDescription, &t.TripCreationDate, &t.TripLastModDate, &t.TripCreator)
	return t, err
}

func (r *TripsRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "trips.max_id", tripsTable, "tripid")
}

func (r *TripsRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "trips.exists", tripsTable, "tripid", id)
}

func (r *TripsRepo) Insert(ctx context.Context, t trip.Trip) error {
	q := psql.Insert(tripsTable).
		Columns(tripColumns...).
		Values(t.TripID, t.TripName, t.TripDescription, t.TripCreationDate, t.TripLastModDate, t.TripCreator)

	_, err := r.exec(ctx, "trips.insert", q)
	if uniqueViolation(err, "") {
		return trip.ErrIDTaken
	}

	return err
}

func (r *TripsRepo) GetByID(ctx context.Context, id int64) (trip.Trip, error) {
	query, args, err := psql.Select(tripColumns...).From(tripsTable).Where(sq.Eq{"tripid": id}).ToSql()
	if err != nil {
		return trip.Trip{}, err
	}

	var t trip.Trip
	err = r.observe("trips.get_by_id", func() error {
		var e error
		t, e = scanTrip(r.pool.QueryRow(ctx, query, args...))
		return e
	})

	if err != nil {
		if isNoRows(err) {
			return trip.Trip{}, trip.ErrNotFound
		}
		return trip.Trip{}, err
	}

	return t, nil
}

func (r *TripsRepo) List(ctx context.Context, f trip.ListFilter) ([]trip.Trip, int64, error) {
	where := sq.And{}
	if f.Creator != nil {
		where = append(where, sq.Eq{"trip_creator": *f.Creator})
	}

	total, err := r.count(ctx, "trips.count", psql.Select("COUNT(*)").From(tripsTable).Where(where))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(tripColumns...).
		From(tripsTable).
		Where(where).
		OrderBy("tripid ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	items := make([]trip.Trip, 0, f.Limit)
	err = r.observe("trips.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTrip(rows)
			if err != nil {
				return err
			}
			items = append(items, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *TripsRepo) Update(ctx context.Context, t trip.Trip) error {
	q := psql.Update(tripsTable).
		Set("trip_name", t.TripName).
		Set("trip_description", t.TripDescription).
		Set("trip_last_mod_date", t.TripLastModDate).
		Set("trip_creator", t.TripCreator).
		Where(sq.Eq{"tripid": t.TripID})

	ok, err := r.exec(ctx, "trips.update", q)
	if err != nil {
		return err
	}

	if !ok {
		return trip.ErrNotFound
	}

	return nil
}

func (r *TripsRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.exec(ctx, "trips.delete", psql.Delete(tripsTable).Where(sq.Eq{"tripid": id}))
	if err != nil {
		return err
	}

	if !ok {
		return trip.ErrNotFound
	}

	return nil
}

func (r *TripsRepo) CountByCreators(ctx context.Context, userIDs []int64) (map[int64]int64, error) {
	return r.groupCounts(ctx, "trips.count_by_creators", tripsTable, "trip_creator", userIDs)
}
