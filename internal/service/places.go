package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
)

type PlacesService struct {
	places         PlaceStore
	trips          TripStore
	defaultPicture string
	now            func() time.Time

	createMu sync.Mutex
}

func NewPlacesService(places PlaceStore, trips TripStore, defaultPicture string) *PlacesService {
	return &PlacesService{
		places:         places,
		trips:          trips,
		defaultPicture: defaultPicture,
		now:            time.Now,
	}
}

func (s *PlacesService) Create(ctx context.Context, req place.CreateRequest) (place.Place, error) {
	if err := s.ensureTrip(ctx, req.PlaceCorrTrip); err != nil {
		return place.Place{}, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := allocateID(ctx, s.places, req.PlaceID, place.ErrIDTaken)
	if err != nil {
		return place.Place{}, err
	}

	now := s.now().UTC()
	p := place.Place{
		PlaceID:           id,
		PlaceName:         req.PlaceName,
		PlaceDescription:  req.PlaceDescription,
		PlacePicture:      s.pictureOrDefault(req.PlacePicture),
		Location:          locationOrDefault(req.Location),
		PlaceCorrTrip:     req.PlaceCorrTrip,
		PlaceCreationDate: now,
		PlaceLastModDate:  now,
	}

	if err := s.places.Insert(ctx, p); err != nil {
		return place.Place{}, err
	}

	return p, nil
}

func (s *PlacesService) List(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error) {
	return s.places.List(ctx, f)
}

// ListForTrip is List scoped to one trip, failing with trip.ErrNotFound when
// the trip itself is missing.
func (s *PlacesService) ListForTrip(ctx context.Context, tripID int64, f place.ListFilter) ([]place.Place, int64, error) {
	ok, err := s.trips.Exists(ctx, tripID)
	if err != nil {
		return nil, 0, fmt.Errorf("check trip: %w", err)
	}

	if !ok {
		return nil, 0, trip.ErrNotFound
	}

	f.Trip = &tripID

	return s.places.List(ctx, f)
}

func (s *PlacesService) Get(ctx context.Context, id int64) (place.Place, error) {
	return s.places.GetByID(ctx, id)
}

func (s *PlacesService) Patch(ctx context.Context, id int64, req place.PatchRequest) (place.Place, error) {
	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return place.Place{}, err
	}

	if req.PlaceName != nil {
		p.PlaceName = *req.PlaceName
	}

	if req.PlaceDescription != nil {
		p.PlaceDescription = *req.PlaceDescription
	}

	if req.PlacePicture != nil {
		p.PlacePicture = s.pictureOrDefault(*req.PlacePicture)
	}

	if req.Location != nil {
		p.Location = req.Location.Normalize()
	}

	if req.PlaceCorrTrip != nil && *req.PlaceCorrTrip != p.PlaceCorrTrip {
		if err := s.ensureTrip(ctx, *req.PlaceCorrTrip); err != nil {
			return place.Place{}, err
		}
		p.PlaceCorrTrip = *req.PlaceCorrTrip
	}

	return s.save(ctx, p)
}

func (s *PlacesService) Replace(ctx context.Context, id int64, req place.ReplaceRequest) (place.Place, error) {
	p, err := s.places.GetByID(ctx, id)
	if err != nil {
		return place.Place{}, err
	}

	if err := s.ensureTrip(ctx, req.PlaceCorrTrip); err != nil {
		return place.Place{}, err
	}

	p.PlaceName = req.PlaceName
	p.PlaceDescription = req.PlaceDescription
	p.PlacePicture = s.pictureOrDefault(req.PlacePicture)
	p.Location = locationOrDefault(req.Location)
	p.PlaceCorrTrip = req.PlaceCorrTrip

	return s.save(ctx, p)
}

func (s *PlacesService) Delete(ctx context.Context, id int64) error {
	return s.places.Delete(ctx, id)
}

func (s *PlacesService) save(ctx context.Context, p place.Place) (place.Place, error) {
	p.PlaceLastModDate = s.now().UTC()

	if err := s.places.Update(ctx, p); err != nil {
		return place.Place{}, err
	}

	return p, nil
}

func (s *PlacesService) ensureTrip(ctx context.Context, tripID int64) error {
	ok, err := s.trips.Exists(ctx, tripID)
	if err != nil {
		return fmt.Errorf("check place trip: %w", err)
	}

	if !ok {
		return place.ErrTripNotFound
	}

	return nil
}

func (s *PlacesService) pictureOrDefault(pic string) string {
	if pic == "" {
		return s.defaultPicture
	}
	return pic
}

func locationOrDefault(loc *place.Location) place.Location {
	if loc == nil {
		return place.DefaultLocation()
	}
	return loc.Normalize()
}
