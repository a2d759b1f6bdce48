package handlers_test

import (
	"context"
	"time"

	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

// Fake service implementations of the handler interfaces

type fakeUsers struct {
	signUpFn  func(ctx context.Context, req user.SignUpRequest) (user.User, error)
	authFn    func(ctx context.Context, email, password string) (user.User, error)
	listFn    func(ctx context.Context, f user.ListFilter) ([]user.WithTripCount, int64, error)
	getFn     func(ctx context.Context, id int64) (user.WithTripCount, error)
	patchFn   func(ctx context.Context, id int64, req user.PatchRequest) (user.User, error)
	replaceFn func(ctx context.Context, id int64, req user.ReplaceRequest) (user.User, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (f *fakeUsers) SignUp(ctx context.Context, req user.SignUpRequest) (user.User, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	if f.authFn != nil {
		return f.authFn(ctx, email, password)
	}
	return user.User{}, nil
}

func (f *fakeUsers) List(ctx context.Context, filter user.ListFilter) ([]user.WithTripCount, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return []user.WithTripCount{}, 0, nil
}

func (f *fakeUsers) Get(ctx context.Context, id int64) (user.WithTripCount, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.WithTripCount{}, nil
}

func (f *fakeUsers) Patch(ctx context.Context, id int64, req user.PatchRequest) (user.User, error) {
	if f.patchFn != nil {
		return f.patchFn(ctx, id, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Replace(ctx context.Context, id int64, req user.ReplaceRequest) (user.User, error) {
	if f.replaceFn != nil {
		return f.replaceFn(ctx, id, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeTrips struct {
	createFn  func(ctx context.Context, req trip.CreateRequest) (trip.Trip, error)
	listFn    func(ctx context.Context, f trip.ListFilter) ([]trip.WithPlaceCount, int64, error)
	getFn     func(ctx context.Context, id int64) (trip.WithPlaceCount, error)
	patchFn   func(ctx context.Context, id int64, req trip.PatchRequest) (trip.Trip, error)
	replaceFn func(ctx context.Context, id int64, req trip.ReplaceRequest) (trip.Trip, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (f *fakeTrips) Create(ctx context.Context, req trip.CreateRequest) (trip.Trip, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return trip.Trip{}, nil
}

func (f *fakeTrips) List(ctx context.Context, filter trip.ListFilter) ([]trip.WithPlaceCount, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return []trip.WithPlaceCount{}, 0, nil
}

func (f *fakeTrips) Get(ctx context.Context, id int64) (trip.WithPlaceCount, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return trip.WithPlaceCount{}, nil
}

func (f *fakeTrips) Patch(ctx context.Context, id int64, req trip.PatchRequest) (trip.Trip, error) {
	if f.patchFn != nil {
		return f.patchFn(ctx, id, req)
	}
	return trip.Trip{}, nil
}

func (f *fakeTrips) Replace(ctx context.Context, id int64, req trip.ReplaceRequest) (trip.Trip, error) {
	if f.replaceFn != nil {
		return f.replaceFn(ctx, id, req)
	}
	return trip.Trip{}, nil
}

func (f *fakeTrips) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakePlaces struct {
	createFn      func(ctx context.Context, req place.CreateRequest) (place.Place, error)
	listFn        func(ctx context.Context, f place.ListFilter) ([]place.Place, int64, error)
	listForTripFn func(ctx context.Context, tripID int64, f place.ListFilter) ([]place.Place, int64, error)
	getFn         func(ctx context.Context, id int64) (place.Place, error)
	patchFn       func(ctx context.Context, id int64, req place.PatchRequest) (place.Place, error)
	replaceFn     func(ctx context.Context, id int64, req place.ReplaceRequest) (place.Place, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (f *fakePlaces) Create(ctx context.Context, req place.CreateRequest) (place.Place, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return place.Place{}, nil
}

func (f *fakePlaces) List(ctx context.Context, filter place.ListFilter) ([]place.Place, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return []place.Place{}, 0, nil
}

func (f *fakePlaces) ListForTrip(ctx context.Context, tripID int64, filter place.ListFilter) ([]place.Place, int64, error) {
	if f.listForTripFn != nil {
		return f.listForTripFn(ctx, tripID, filter)
	}
	return []place.Place{}, 0, nil
}

func (f *fakePlaces) Get(ctx context.Context, id int64) (place.Place, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return place.Place{}, nil
}

func (f *fakePlaces) Patch(ctx context.Context, id int64, req place.PatchRequest) (place.Place, error) {
	if f.patchFn != nil {
		return f.patchFn(ctx, id, req)
	}
	return place.Place{}, nil
}

func (f *fakePlaces) Replace(ctx context.Context, id int64, req place.ReplaceRequest) (place.Place, error) {
	if f.replaceFn != nil {
		return f.replaceFn(ctx, id, req)
	}
	return place.Place{}, nil
}

func (f *fakePlaces) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeTokens struct {
	generateFn func(userID int64, email string) (string, time.Time, error)
}

func (f *fakeTokens) GenerateToken(userID int64, email string) (string, time.Time, error) {
	if f.generateFn != nil {
		return f.generateFn(userID, email)
	}
	return "token", time.Now().Add(time.Hour), nil
}
