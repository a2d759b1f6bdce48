package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/security"
)

type UsersService struct {
	users UserStore
	trips TripStore
	now   func() time.Time

	// serializes id allocation + insert
	createMu sync.Mutex
}

func NewUsersService(users UserStore, trips TripStore) *UsersService {
	return &UsersService{
		users: users,
		trips: trips,
		now:   time.Now,
	}
}

func (s *UsersService) SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error) {
	email := user.NormalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return user.User{}, err
	}

	id, err := allocateID(ctx, s.users, req.UserID, user.ErrIDTaken)
	if err != nil {
		return user.User{}, err
	}

	u := user.User{
		UserID:           id,
		UserName:         req.UserName,
		Email:            email,
		PasswordHash:     hash,
		RegistrationDate: s.now().UTC(),
	}

	if err := s.users.Insert(ctx, u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Authenticate never tells the caller whether the email or the password was
// wrong.
func (s *UsersService) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}

	return u, nil
}

func (s *UsersService) List(ctx context.Context, f user.ListFilter) ([]user.WithTripCount, int64, error) {
	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	counts, err := s.trips.CountByCreators(ctx, collectIDs(users, func(u user.User) int64 { return u.UserID }))
	if err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	out := make([]user.WithTripCount, 0, len(users))
	for _, u := range users {
		out = append(out, user.WithTripCount{User: u, TripCount: counts[u.UserID]})
	}

	return out, total, nil
}

func (s *UsersService) Get(ctx context.Context, id int64) (user.WithTripCount, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.WithTripCount{}, err
	}

	counts, err := s.trips.CountByCreators(ctx, []int64{id})
	if err != nil {
		return user.WithTripCount{}, fmt.Errorf("count trips: %w", err)
	}

	return user.WithTripCount{User: u, TripCount: counts[id]}, nil
}

func (s *UsersService) Patch(ctx context.Context, id int64, req user.PatchRequest) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if req.UserName != nil {
		u.UserName = *req.UserName
	}

	if req.Email != nil {
		email := user.NormalizeEmail(*req.Email)
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, id); err != nil {
				return user.User{}, err
			}
			u.Email = email
		}
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (s *UsersService) Replace(ctx context.Context, id int64, req user.ReplaceRequest) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	email := user.NormalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, id); err != nil {
		return user.User{}, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u.UserName = req.UserName
	u.Email = email
	u.PasswordHash = hash

	if err := s.users.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// ensureEmailFree fails with ErrEmailTaken unless the address is unused or
// belongs to the user with id self.
func (s *UsersService) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("look up email: %w", err)
	case existing.UserID == self:
		return nil
	default:
		return user.ErrEmailTaken
	}
}
