package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/damedesign/portfolio/internal/data/pgxutil"
	"github.com/jackc/pgx/v5"
)

// queryRows runs query on a pgx connection and scans every row into T by column name.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	var out []T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	return out, err
}

// queryOne is queryRows for a single row; a missing row yields notFound.
func queryOne[T any](ctx context.Context, db *sql.DB, notFound error, query string, args ...any) (*T, error) {
	var out T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// execAffecting runs a statement and returns notFound when it touched no rows.
func execAffecting(ctx context.Context, db *sql.DB, notFound error, query string, args ...any) error {
	return pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFound
		}
		return nil
	})
}
