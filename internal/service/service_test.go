package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/geocoder89/travellog/internal/actorctx"
	"github.com/geocoder89/travellog/internal/domain/place"
	"github.com/geocoder89/travellog/internal/domain/trip"
	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/repo/memory"
	"github.com/geocoder89/travellog/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	security.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	users  *UsersService
	trips  *TripsService
	places *PlacesService
}

func newFixture() fixture {
	users := memory.NewUsersRepo()
	trips := memory.NewTripsRepo()
	places := memory.NewPlacesRepo()

	return fixture{
		users:  NewUsersService(users, trips),
		trips:  NewTripsService(trips, users, places),
		places: NewPlacesService(places, trips, "https://img.example/default.png"),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func (f fixture) signUp(t *testing.T, email string) user.User {
	t.Helper()
	u, err := f.users.SignUp(context.Background(), user.SignUpRequest{Email: email, Password: "password123"})
	require.NoError(t, err)
	return u
}

func TestSignUp_AllocatesSequentialIDs(t *testing.T) {
	f := newFixture()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u := f.signUp(t, email)
		assert.Equal(t, int64(i+1), u.UserID)
		assert.NotEqual(t, "password123", u.PasswordHash)
	}
}

func TestSignUp_NormalizesAndRejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.signUp(t, "  Ada@Example.com ")
	assert.Equal(t, "ada@example.com", u.Email)

	_, err := f.users.SignUp(ctx, user.SignUpRequest{Email: "ADA@example.com", Password: "password123"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestSignUp_ExplicitID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.users.SignUp(ctx, user.SignUpRequest{UserID: int64Ptr(10), Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), u.UserID)

	_, err = f.users.SignUp(ctx, user.SignUpRequest{UserID: int64Ptr(10), Email: "b@example.com", Password: "password123"})
	assert.ErrorIs(t, err, user.ErrIDTaken)

	next := f.signUp(t, "c@example.com")
	assert.Equal(t, int64(11), next.UserID)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	u, err := f.users.Authenticate(ctx, "Ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.UserID)

	_, err = f.users.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestUsersPatchAndReplace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")
	f.signUp(t, "bob@example.com")

	u, err := f.users.Patch(ctx, 1, user.PatchRequest{UserName: strPtr("ada")})
	require.NoError(t, err)
	assert.Equal(t, "ada", u.UserName)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = f.users.Patch(ctx, 1, user.PatchRequest{Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	u, err = f.users.Replace(ctx, 1, user.ReplaceRequest{Email: "ada.l@example.com", Password: "newpassword"})
	require.NoError(t, err)
	assert.Empty(t, u.UserName)

	_, err = f.users.Authenticate(ctx, "ada.l@example.com", "newpassword")
	require.NoError(t, err)

	_, err = f.users.Patch(ctx, 99, user.PatchRequest{})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestTripsCreate_ValidatesCreator(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps", TripCreator: int64Ptr(1)})
	assert.ErrorIs(t, err, trip.ErrCreatorNotFound)

	_, err = f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps"})
	assert.ErrorIs(t, err, ErrNoActor)

	f.signUp(t, "ada@example.com")

	tr, err := f.trips.Create(actorctx.WithUserID(ctx, 1), trip.CreateRequest{TripName: "Alps"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.TripID)
	assert.Equal(t, int64(1), tr.TripCreator)
	assert.Equal(t, tr.TripCreationDate, tr.TripLastModDate)
}

func TestTripsPatch_TouchesLastModDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	tr, err := f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps", TripCreator: int64Ptr(1)})
	require.NoError(t, err)

	updated, err := f.trips.Patch(ctx, tr.TripID, trip.PatchRequest{TripDescription: strPtr("hiking")})
	require.NoError(t, err)
	assert.Equal(t, "Alps", updated.TripName)
	assert.Equal(t, "hiking", updated.TripDescription)
	assert.False(t, updated.TripLastModDate.Before(tr.TripLastModDate))

	_, err = f.trips.Patch(ctx, tr.TripID, trip.PatchRequest{TripCreator: int64Ptr(42)})
	assert.ErrorIs(t, err, trip.ErrCreatorNotFound)

	_, err = f.trips.Replace(ctx, tr.TripID, trip.ReplaceRequest{TripName: "Jura", TripCreator: 42})
	assert.ErrorIs(t, err, trip.ErrCreatorNotFound)
}

func TestTripsList_MergesPlaceCounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	for _, name := range []string{"Alps", "Jura"} {
		_, err := f.trips.Create(ctx, trip.CreateRequest{TripName: name, TripCreator: int64Ptr(1)})
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		_, err := f.places.Create(ctx, place.CreateRequest{PlaceName: "spot", PlaceCorrTrip: 1})
		require.NoError(t, err)
	}

	trips, total, err := f.trips.List(ctx, trip.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, trips, 2)
	assert.Equal(t, int64(3), trips[0].PlaceCount)
	assert.Equal(t, int64(0), trips[1].PlaceCount)

	users, _, err := f.users.List(ctx, user.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].TripCount)
}

func TestPlacesCreate_ValidatesTripAndDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.places.Create(ctx, place.CreateRequest{PlaceName: "Lake", PlaceCorrTrip: 1})
	assert.ErrorIs(t, err, place.ErrTripNotFound)

	f.signUp(t, "ada@example.com")
	_, err = f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps", TripCreator: int64Ptr(1)})
	require.NoError(t, err)

	p, err := f.places.Create(ctx, place.CreateRequest{PlaceName: "Lake", PlaceCorrTrip: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.PlaceID)
	assert.Equal(t, "https://img.example/default.png", p.PlacePicture)
	assert.Equal(t, place.DefaultLocation(), p.Location)

	p, err = f.places.Patch(ctx, p.PlaceID, place.PatchRequest{Location: &place.Location{Coordinates: []float64{6.63, 46.52}}})
	require.NoError(t, err)
	assert.Equal(t, place.PointType, p.Location.Type)
	assert.Equal(t, []float64{6.63, 46.52}, p.Location.Coordinates)
	assert.Equal(t, "Lake", p.PlaceName)

	_, err = f.places.Patch(ctx, p.PlaceID, place.PatchRequest{PlaceCorrTrip: int64Ptr(7)})
	assert.ErrorIs(t, err, place.ErrTripNotFound)
}

func TestPlacesListForTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.places.ListForTrip(ctx, 1, place.ListFilter{Limit: 10})
	assert.ErrorIs(t, err, trip.ErrNotFound)

	f.signUp(t, "ada@example.com")
	for _, name := range []string{"Alps", "Jura"} {
		_, err := f.trips.Create(ctx, trip.CreateRequest{TripName: name, TripCreator: int64Ptr(1)})
		require.NoError(t, err)
	}

	for _, tripID := range []int64{1, 2, 2} {
		_, err := f.places.Create(ctx, place.CreateRequest{PlaceName: "spot", PlaceCorrTrip: tripID})
		require.NoError(t, err)
	}

	got, total, err := f.places.ListForTrip(ctx, 2, place.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(2), got[0].PlaceID)
	assert.Equal(t, int64(3), got[1].PlaceID)
}

func TestDeleteThenGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	tr, err := f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps", TripCreator: int64Ptr(1)})
	require.NoError(t, err)

	require.NoError(t, f.trips.Delete(ctx, tr.TripID))

	_, err = f.trips.Get(ctx, tr.TripID)
	assert.ErrorIs(t, err, trip.ErrNotFound)

	assert.ErrorIs(t, f.trips.Delete(ctx, tr.TripID), trip.ErrNotFound)
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.signUp(t, "ada@example.com")
	_, err := f.trips.Create(ctx, trip.CreateRequest{TripName: "Alps", TripCreator: int64Ptr(1)})
	require.NoError(t, err)

	const n = 50
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.places.Create(ctx, place.CreateRequest{PlaceName: "spot", PlaceCorrTrip: 1})
			if err != nil {
				t.Errorf("create place: %v", err)
				return
			}
			ids <- p.PlaceID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	assert.Len(t, seen, n)
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}
