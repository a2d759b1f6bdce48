package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/domain/user"
)

type UserSeeder interface {
	List(ctx context.Context, f user.ListFilter) ([]user.WithTripCount, int64, error)
	SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error)
}

type TripSeeder interface {
	Create(ctx context.Context, req trip.CreateRequest) (trip.Trip, error)
}

type PlaceSeeder interface {
	Create(ctx context.Context, req place.CreateRequest) (place.Place, error)
}

type demoUser struct {
	name, email, password string
	trip, tripDesc        string
	place, placeDesc      string
	lnglat                []float64
}

var demoData = []demoUser{
	{
		name: "test", email: "test@heig-vd.ch", password: "test-password",
		trip: "Lake Geneva", tripDesc: "description of the trip",
		place: "Lausanne", placeDesc: "description of the place",
		lnglat: []float64{6.6323, 46.5197},
	},
	{
		name: "test2", email: "test2@heig-vd.ch", password: "test2-password",
		trip: "Jura", tripDesc: "other description of a trip",
		place: "Yverdon", placeDesc: "other description of a place",
		lnglat: []float64{6.6412, 46.7785},
	},
}

// SeedDemoData creates a couple of users, each with one trip holding one
// place. It does nothing when any user already exists.
func SeedDemoData(ctx context.Context, users UserSeeder, trips TripSeeder, places PlaceSeeder) error {
	_, total, err := users.List(ctx, user.ListFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}

	if total > 0 {
		return nil
	}

	for _, d := range demoData {
		u, err := users.SignUp(ctx, user.SignUpRequest{UserName: d.name, Email: d.email, Password: d.password})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", d.email, err)
		}

		t, err := trips.Create(ctx, trip.CreateRequest{
			TripName:        d.trip,
			TripDescription: d.tripDesc,
			TripCreator:     &u.UserID,
		})
		if err != nil {
			return fmt.Errorf("seed trip for user %d: %w", u.UserID, err)
		}

		_, err = places.Create(ctx, place.CreateRequest{
			PlaceName:        d.place,
			PlaceDescription: d.placeDesc,
			Location:         &place.Location{Type: place.PointType, Coordinates: d.lnglat},
			PlaceCorrTrip:    t.TripID,
		})
		if err != nil {
			return fmt.Errorf("seed place for trip %d: %w", t.TripID, err)
		}
	}

	slog.InfoContext(ctx, "demo data seeded", "users", len(demoData))
	return nil
}
