package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocoder89/travellog/internal/domain/user"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	usersTable           = "users"
	usersEmailConstraint = "users_email_key"
)

var userColumns = []string{"userid", "user_name", "email", "password_hash", "registration_date"}

type UsersRepo struct {
	base
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{pool: pool, prom: prom}}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.UserID, &u.UserName, &u.Email, &u.PasswordHash, &u.RegistrationDate)
	return u, err
}

func (r *UsersRepo) MaxID(ctx context.Context) (int64, error) {
	return r.maxID(ctx, "users.max_id", usersTable, "userid")
}

func (r *UsersRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "users.exists", usersTable, "userid", id)
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) error {
	q := psql.Insert(usersTable).
		Columns(userColumns...).
		Values(u.UserID, u.UserName, u.Email, u.PasswordHash, u.RegistrationDate)

	_, err := r.exec(ctx, "users.insert", q)
	if err != nil {
		return mapUserWriteErr(err)
	}

	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", sq.Eq{"userid": id})
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", sq.Eq{"email": email})
}

func (r *UsersRepo) getOne(ctx context.Context, op string, where sq.Eq) (user.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).Where(where).ToSql()
	if err != nil {
		return user.User{}, err
	}

	var u user.User
	err = r.observe(op, func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, query, args...))
		return e
	})

	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, int64, error) {
	total, err := r.count(ctx, "users.count", psql.Select("COUNT(*)").From(usersTable))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(userColumns...).
		From(usersTable).
		OrderBy("userid ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	items := make([]user.User, 0, f.Limit)
	err = r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			items = append(items, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	q := psql.Update(usersTable).
		Set("user_name", u.UserName).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Where(sq.Eq{"userid": u.UserID})

	ok, err := r.exec(ctx, "users.update", q)
	if err != nil {
		return mapUserWriteErr(err)
	}

	if !ok {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	ok, err := r.exec(ctx, "users.delete", psql.Delete(usersTable).Where(sq.Eq{"userid": id}))
	if err != nil {
		return err
	}

	if !ok {
		return user.ErrNotFound
	}

	return nil
}

func mapUserWriteErr(err error) error {
	switch {
	case uniqueViolation(err, usersEmailConstraint):
		return user.ErrEmailTaken
	case uniqueViolation(err, ""):
		return user.ErrIDTaken
	default:
		return err
	}
}
