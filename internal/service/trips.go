package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/geocoder89/travellog/internal/actorctx"
	"github.com/geocoder89/travellog/internal/domain/trip"
)

// ErrNoActor is returned when a trip is created without an explicit creator
// and no authenticated user is on the context.
var ErrNoActor = errors.New("no authenticated user to use as trip creator")

type TripsService struct {
	trips  TripStore
	users  UserStore
	places PlaceStore
	now    func() time.Time

	createMu sync.Mutex
}

func NewTripsService(trips TripStore, users UserStore, places PlaceStore) *TripsService {
	return &TripsService{
		trips:  trips,
		users:  users,
		places: places,
		now:    time.Now,
	}
}

func (s *TripsService) Create(ctx context.Context, req trip.CreateRequest) (trip.Trip, error) {
	var creator int64
	if req.TripCreator != nil {
		creator = *req.TripCreator
	} else {
		actor, ok := actorctx.UserIDFrom(ctx)
		if !ok {
			return trip.Trip{}, ErrNoActor
		}
		creator = actor
	}

	if err := s.ensureCreator(ctx, creator); err != nil {
		return trip.Trip{}, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := allocateID(ctx, s.trips, req.TripID, trip.ErrIDTaken)
	if err != nil {
		return trip.Trip{}, err
	}

	t := trip.NewFromCreateRequest(id, creator, req, s.now().UTC())

	if err := s.trips.Insert(ctx, t); err != nil {
		return trip.Trip{}, err
	}

	return t, nil
}

func (s *TripsService) List(ctx context.Context, f trip.ListFilter) ([]trip.WithPlaceCount, int64, error) {
	trips, total, err := s.trips.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out, err := s.withPlaceCounts(ctx, trips)
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (s *TripsService) Get(ctx context.Context, id int64) (trip.WithPlaceCount, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return trip.WithPlaceCount{}, err
	}

	out, err := s.withPlaceCounts(ctx, []trip.Trip{t})
	if err != nil {
		return trip.WithPlaceCount{}, err
	}

	return out[0], nil
}

func (s *TripsService) Patch(ctx context.Context, id int64, req trip.PatchRequest) (trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return trip.Trip{}, err
	}

	if req.TripName != nil {
		t.TripName = *req.TripName
	}

	if req.TripDescription != nil {
		t.TripDescription = *req.TripDescription
	}

	if req.TripCreator != nil && *req.TripCreator != t.TripCreator {
		if err := s.ensureCreator(ctx, *req.TripCreator); err != nil {
			return trip.Trip{}, err
		}
		t.TripCreator = *req.TripCreator
	}

	return s.save(ctx, t)
}

func (s *TripsService) Replace(ctx context.Context, id int64, req trip.ReplaceRequest) (trip.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return trip.Trip{}, err
	}

	if err := s.ensureCreator(ctx, req.TripCreator); err != nil {
		return trip.Trip{}, err
	}

	t.TripName = req.TripName
	t.TripDescription = req.TripDescription
	t.TripCreator = req.TripCreator

	return s.save(ctx, t)
}

func (s *TripsService) Delete(ctx context.Context, id int64) error {
	return s.trips.Delete(ctx, id)
}

// Exists is used by the places handler to 404 on /trips/:tripid/places.
func (s *TripsService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.trips.Exists(ctx, id)
}

func (s *TripsService) save(ctx context.Context, t trip.Trip) (trip.Trip, error) {
	t.TripLastModDate = s.now().UTC()

	if err := s.trips.Update(ctx, t); err != nil {
		return trip.Trip{}, err
	}

	return t, nil
}

func (s *TripsService) ensureCreator(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check trip creator: %w", err)
	}

	if !ok {
		return trip.ErrCreatorNotFound
	}

	return nil
}

func (s *TripsService) withPlaceCounts(ctx context.Context, trips []trip.Trip) ([]trip.WithPlaceCount, error) {
	counts, err := s.places.CountByTrips(ctx, collectIDs(trips, func(t trip.Trip) int64 { return t.TripID }))
	if err != nil {
		return nil, fmt.Errorf("count places: %w", err)
	}

	out := make([]trip.WithPlaceCount, 0, len(trips))
	for _, t := range trips {
		out = append(out, trip.WithPlaceCount{Trip: t, PlaceCount: counts[t.TripID]})
	}

	return out, nil
}
