package service

import (
	"context"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/domain/user"
)

// Every backend (memory, postgres, mongo) implements these. Update writes
// the whole record; the services decide which fields change.

type UserStore interface {
	MaxID(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context, f user.ListFilter) ([]user.User, int64, error)
	Update(ctx context.Context, u user.User) error
	Delete(ctx context.Context, id int64) error
}

type TripStore interface {
	MaxID(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, t trip.Trip) error
	GetByID(ctx context.Context, id int64) (trip.Trip, error)
	List(ctx context.Context, f trip.ListFilter) ([]trip.Trip, int64, error)
	Update(ctx context.Context, t trip.Trip) error
	Delete(ctx context.Context, id int64) error
	CountByCreators(ctx context.Context, userIDs []int64) (map[int64]int64, error)
}

type PlaceStore interface {
	MaxID(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, p place.Place) error
	GetByID(ctx context.Context, id int64) (place.Place, error)
	List(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error)
	Update(ctx context.Context, p place.Place) error
	Delete(ctx context.Context, id int64) error
	CountByTrips(ctx context.Context, tripIDs []int64) (map[int64]int64, error)
}
