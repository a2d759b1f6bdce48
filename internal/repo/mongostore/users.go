package mongostore

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const emailIndex = "email_unique"

type UsersRepo struct {
	base
}

func NewUsersRepo(db *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{coll: db.Collection(UsersCollection), prom: prom}}
}

func (r *UsersRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "users.max_id", "userid")
}

func (r *UsersRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "users.exists", "userid", id)
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) error {
	err := r.observe("users.insert", func() error {
		_, e := r.coll.InsertOne(ctx, u)
		return e
	})

	return mapUserWriteErr(err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", bson.D{{Key: "userid", Value: id}})
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", bson.D{{Key: "email", Value: email}})
}

func (r *UsersRepo) getOne(ctx context.Context, op string, filter bson.D) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		return r.coll.FindOne(ctx, filter).Decode(&u)
	})

	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, user.ErrNotFound
	}

	return u, err
}

func (r *UsersRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, int64, error) {
	items := make([]user.User, 0, f.Limit)

	total, err := r.list(ctx, "users.list", "userid", bson.D{}, f.Limit, f.Offset, &items)
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []user.User{}
	}

	return items, total, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	ok, err := r.replace(ctx, "users.update", "userid", u.UserID, u)
	if err != nil {
		return mapUserWriteErr(err)
	}

	if !ok {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.delete(ctx, "users.delete", "userid", id)
	if err != nil {
		return err
	}

	if !ok {
		return user.ErrNotFound
	}

	return nil
}

func mapUserWriteErr(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}

	if strings.Contains(err.Error(), emailIndex) {
		return user.ErrEmailTaken
	}

	return user.ErrIDTaken
}
