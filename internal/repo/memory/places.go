package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/travellog/internal/domain/place"
)

type PlacesRepo struct {
	mu    sync.RWMutex
	items map[int64]place.Place
}

func NewPlacesRepo() *PlacesRepo {
	return &PlacesRepo{
		items: make(map[int64]place.Place),
	}
}

// clone detaches the coordinates slice from the stored copy.
func clone(p place.Place) place.Place {
	p.Location = p.Location.Normalize()
	return p
}

func (r *PlacesRepo) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for id := range r.items {
		if id > max {
			max = id
		}
	}

	return max, nil
}

func (r *PlacesRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()

	return ok, nil
}

func (r *PlacesRepo) Insert(_ context.Context, p place.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.PlaceID]; ok {
		return place.ErrIDTaken
	}

	r.items[p.PlaceID] = clone(p)

	return nil
}

func (r *PlacesRepo) GetByID(_ context.Context, id int64) (place.Place, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return place.Place{}, place.ErrNotFound
	}

	return clone(p), nil
}

func (r *PlacesRepo) List(_ context.Context, f place.ListFilter) ([]place.Place, int64, error) {
	r.mu.RLock()
	matched := make([]place.Place, 0, len(r.items))
	for _, p := range r.items {
		if f.Trip != nil && p.PlaceCorrTrip != *f.Trip {
			continue
		}
		matched = append(matched, clone(p))
	}
	r.mu.RUnlock()

	out := page(matched, func(p place.Place) int64 { return p.PlaceID }, f.Limit, f.Offset)

	return out, int64(len(matched)), nil
}

func (r *PlacesRepo) Update(_ context.Context, p place.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.PlaceID]; !ok {
		return place.ErrNotFound
	}

	r.items[p.PlaceID] = clone(p)

	return nil
}

func (r *PlacesRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return place.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *PlacesRepo) CountByTrips(_ context.Context, tripIDs []int64) (map[int64]int64, error) {
	wanted := make(map[int64]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		wanted[id] = struct{}{}
	}

	counts := make(map[int64]int64, len(tripIDs))

	r.mu.RLock()
	for _, p := range r.items {
		if _, ok := wanted[p.PlaceCorrTrip]; ok {
			counts[p.PlaceCorrTrip]++
		}
	}
	r.mu.RUnlock()

	return counts, nil
}
