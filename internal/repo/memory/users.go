package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/travellog/internal/domain/user"
)

type UsersRepo struct {
	mu      sync.RWMutex
	items   map[int64]user.User
	byEmail map[string]int64
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items:   make(map[int64]user.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UsersRepo) MaxID(_ context.Context) (int64, error) {
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

func (r *UsersRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()

	return ok, nil
}

func (r *UsersRepo) Insert(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.UserID]; ok {
		return user.ErrIDTaken
	}

	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}

	r.items[u.UserID] = u
	r.byEmail[u.Email] = u.UserID

	return nil
}

func (r *UsersRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.items[id], nil
}

func (r *UsersRepo) List(_ context.Context, f user.ListFilter) ([]user.User, int64, error) {
	r.mu.RLock()
	all := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		all = append(all, u)
	}
	r.mu.RUnlock()

	out := page(all, func(u user.User) int64 { return u.UserID }, f.Limit, f.Offset)

	return out, int64(len(all)), nil
}

func (r *UsersRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[u.UserID]
	if !ok {
		return user.ErrNotFound
	}

	if owner, taken := r.byEmail[u.Email]; taken && owner != u.UserID {
		return user.ErrEmailTaken
	}

	delete(r.byEmail, old.Email)
	r.byEmail[u.Email] = u.UserID
	r.items[u.UserID] = u

	return nil
}

func (r *UsersRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return user.ErrNotFound
	}

	delete(r.byEmail, u.Email)
	delete(r.items, id)

	return nil
}
