package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const placesTable = "places"

// location is stored as two columns; the GeoJSON type is always Point.
var placeColumns = []string{
	"placeid", "place_name", "place_description", "place_picture",
	"longitude", "latitude", "place_corr_trip",
	"place_creation_date", "place_last_mod_date",
}

type PlacesRepo struct {
	base
}

func NewPlacesRepo(pool *pgxpool.Pool, prom *observability.Prom) *PlacesRepo {
	return &PlacesRepo{base{pool: pool, prom: prom}}
}

func scanPlace(row pgx.Row) (place.Place, error) {
	var (
		p        place.Place
		lng, lat float64
	)

	err := row.Scan(
		&p.PlaceID,
		&p.PlaceName,
		&p.PlaceDescription,
		&p.PlacePicture,
		&lng,
		&lat,
		&p.PlaceCorrTrip,
		&p.PlaceCreationDate,
		&p.PlaceLastModDate,
	)

	p.Location = place.Location{Type: place.PointType, Coordinates: []float64{lng, lat}}

	return p, err
}

func lngLat(l place.Location) (float64, float64) {
	if len(l.Coordinates) != 2 {
		return 0, 0
	}
	return l.Coordinates[0], l.Coordinates[1]
}

func (r *PlacesRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "places.max_id", placesTable, "placeid")
}

func (r *PlacesRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "places.exists", placesTable, "placeid", id)
}

func (r *PlacesRepo) Insert(ctx context.Context, p place.Place) error {
	lng, lat := lngLat(p.Location)

	q := psql.Insert(placesTable).
		Columns(placeColumns...).
		Values(
			p.PlaceID, p.PlaceName, p.PlaceDescription, p.PlacePicture,
			lng, lat, p.PlaceCorrTrip,
			p.PlaceCreationDate, p.PlaceLastModDate,
		)

	_, err := r.exec(ctx, "places.insert", q)
	if uniqueViolation(err, "") {
		return place.ErrIDTaken
	}

	return err
}

func (r *PlacesRepo) GetByID(ctx context.Context, id int64) (place.Place, error) {
	query, args, err := psql.Select(placeColumns...).From(placesTable).Where(sq.Eq{"placeid": id}).ToSql()
	if err != nil {
		return place.Place{}, err
	}

	var p place.Place
	err = r.observe("places.get_by_id", func() error {
		var e error
		p, e = scanPlace(r.pool.QueryRow(ctx, query, args...))
		return e
	})

	if err != nil {
		if isNoRows(err) {
			return place.Place{}, place.ErrNotFound
		}
		return place.Place{}, err
	}

	return p, nil
}

func (r *PlacesRepo) List(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error) {
	where := sq.And{}
	if f.Trip != nil {
		where = append(where, sq.Eq{"place_corr_trip": *f.Trip})
	}

	total, err := r.count(ctx, "places.count", psql.Select("COUNT(*)").From(placesTable).Where(where))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(placeColumns...).
		From(placesTable).
		Where(where).
		OrderBy("placeid ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	items := make([]place.Place, 0, f.Limit)
	err = r.observe("places.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPlace(rows)
			if err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PlacesRepo) Update(ctx context.Context, p place.Place) error {
	lng, lat := lngLat(p.Location)

	q := psql.Update(placesTable).
		Set("place_name", p.PlaceName).
		Set("place_description", p.PlaceDescription).
		Set("place_picture", p.PlacePicture).
		Set("longitude", lng).
		Set("latitude", lat).
		Set("place_corr_trip", p.PlaceCorrTrip).
		Set("place_last_mod_date", p.PlaceLastModDate).
		Where(sq.Eq{"placeid": p.PlaceID})

	ok, err := r.exec(ctx, "places.update", q)
	if err != nil {
		return err
	}

	if !ok {
		return place.ErrNotFound
	}

	return nil
}

func (r *PlacesRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.exec(ctx, "places.delete", psql.Delete(placesTable).Where(sq.Eq{"placeid": id}))
	if err != nil {
		return err
	}

	if !ok {
		return place.ErrNotFound
	}

	return nil
}

func (r *PlacesRepo) CountByTrips(ctx context.Context, tripIDs []int64) (map[int64]int64, error) {
	return r.groupCounts(ctx, "places.count_by_trips", placesTable, "place_corr_trip", tripIDs)
}
