package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/travellog/internal/domain/trip"
)

type TripsRepo struct {
	mu    sync.RWMutex
	items map[int64]trip.Trip
}

func NewTripsRepo() *TripsRepo {
	return &TripsRepo{
		items: make(map[int64]trip.Trip),
	}
}

func (r *TripsRepo) MaxID(_ context.Context) (int64, error) {
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

func (r *TripsRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()

	return ok, nil
}

func (r *TripsRepo) Insert(_ context.Context, t trip.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[t.TripID]; ok {
		return trip.ErrIDTaken
	}

	r.items[t.TripID] = t

	return nil
}

func (r *TripsRepo) GetByID(_ context.Context, id int64) (trip.Trip, error) {
	r.mu.RLock()
	t, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return trip.Trip{}, trip.ErrNotFound
	}

	return t, nil
}

func (r *TripsRepo) List(_ context.Context, f trip.ListFilter) ([]trip.Trip, int64, error) {
	r.mu.RLock()
	matched := make([]trip.Trip, 0, len(r.items))
	for _, t := range r.items {
		if f.Creator != nil && t.TripCreator != *f.Creator {
			continue
		}
		matched = append(matched, t)
	}
	r.mu.RUnlock()

	out := page(matched, func(t trip.Trip) int64 { return t.TripID }, f.Limit, f.Offset)

	return out, int64(len(matched)), nil
}

func (r *TripsRepo) Update(_ context.Context, t trip.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[t.TripID]; !ok {
		return trip.ErrNotFound
	}

	r.items[t.TripID] = t

	return nil
}

func (r *TripsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return trip.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *TripsRepo) CountByCreators(_ context.Context, userIDs []int64) (map[int64]int64, error) {
	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	counts := make(map[int64]int64, len(userIDs))

	r.mu.RLock()
	for _, t := range r.items {
		if _, ok := wanted[t.TripCreator]; ok {
			counts[t.TripCreator]++
		}
	}
	r.mu.RUnlock()

	return counts, nil
}
