package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocoder89/travellog/internal/observability"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql renders $n placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type base struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func (b base) observe(op string, fn func() error) error {
	return b.prom.ObserveDB(op, fn)
}

// uniqueViolation reports whether err is a unique constraint failure on the
// named constraint. An empty name matches any unique constraint.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}

func (b base) maxID(ctx context.Context, op, table, column string) (int64, error) {
	query, args, err := psql.Select("COALESCE(MAX(" + column + "), 0)").From(table).ToSql()
	if err != nil {
		return 0, err
	}

	var current int64
	err = b.observe(op, func() error {
		return b.pool.QueryRow(ctx, query, args...).Scan(&current)
	})

	return current, err
}

func (b base) exists(ctx context.Context, op, table, column string, id int64) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(sq.Eq{column: id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var ok bool
	err = b.observe(op, func() error {
		return b.pool.QueryRow(ctx, query, args...).Scan(&ok)
	})

	return ok, err
}

func (b base) count(ctx context.Context, op string, q sq.SelectBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	err = b.observe(op, func() error {
		return b.pool.QueryRow(ctx, query, args...).Scan(&total)
	})

	return total, err
}

// groupCounts runs "SELECT key, COUNT(*) ... WHERE key IN (ids) GROUP BY key".
func (b base) groupCounts(ctx context.Context, op, table, column string, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	query, args, err := psql.Select(column, "COUNT(*)").
		From(table).
		Where(sq.Eq{column: ids}).
		GroupBy(column).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = b.observe(op, func() error {
		rows, err := b.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var key, n int64
			if err := rows.Scan(&key, &n); err != nil {
				return err
			}
			counts[key] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// exec runs a write and reports whether any row was affected.
func (b base) exec(ctx context.Context, op string, q sq.Sqlizer) (bool, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return false, err
	}

	var tag pgconn.CommandTag
	err = b.observe(op, func() error {
		var e error
		tag, e = b.pool.Exec(ctx, query, args...)
		return e
	})
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
