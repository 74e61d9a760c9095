package sqldb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/iliyamo/cinema-api/internal/model"
	"github.com/iliyamo/cinema-api/internal/repository"
)

type cinemaStore struct {
	db *sql.DB
	d  dialect
}

func (s *cinemaStore) Insert(ctx context.Context, c *model.Cinema) error {
	id := ulid.Make().String()
	const q = "INSERT INTO cinemas (id, movie, description, image) VALUES (?, ?, ?, ?)"
	if _, err := s.db.ExecContext(ctx, s.d.rebind(q), id, c.Movie, c.Description, c.Image); err != nil {
		return wrap("insert", err)
	}
	c.ID = id
	return nil
}

func (s *cinemaStore) List(ctx context.Context, limit int) ([]*model.Cinema, error) {
	q := "SELECT id, movie, description, image FROM cinemas ORDER BY seq"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.d.rebind(q), args...)
	if err != nil {
		return nil, wrap("list", err)
	}
	defer rows.Close()

	out := []*model.Cinema{}
	for rows.Next() {
		c := new(model.Cinema)
		if err := rows.Scan(&c.ID, &c.Movie, &c.Description, &c.Image); err != nil {
			return nil, wrap("scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("rows", err)
	}
	return out, nil
}

func (s *cinemaStore) Get(ctx context.Context, id string) (*model.Cinema, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	const q = "SELECT id, movie, description, image FROM cinemas WHERE id = ?"
	var c model.Cinema
	if err := s.db.QueryRowContext(ctx, s.d.rebind(q), id).Scan(&c.ID, &c.Movie, &c.Description, &c.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCinemaNotFound
		}
		return nil, wrap("get", err)
	}
	return &c, nil
}

// Update locks the row, merges the patch in Go and writes all columns back.
// Comparing RowsAffected would misreport MySQL no-op updates as not found.
func (s *cinemaStore) Update(ctx context.Context, id string, patch model.CinemaPatch) (c *model.Cinema, err error) {
	if id, err = canonicalID(id); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qSelect = "SELECT id, movie, description, image FROM cinemas WHERE id = ? FOR UPDATE"
	var cur model.Cinema
	if err = tx.QueryRowContext(ctx, s.d.rebind(qSelect), id).Scan(&cur.ID, &cur.Movie, &cur.Description, &cur.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCinemaNotFound
		}
		return nil, wrap("select for update", err)
	}
	patch.Apply(&cur)

	const qUpdate = "UPDATE cinemas SET movie = ?, description = ?, image = ? WHERE id = ?"
	if _, err = tx.ExecContext(ctx, s.d.rebind(qUpdate), cur.Movie, cur.Description, cur.Image, id); err != nil {
		return nil, wrap("update", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, wrap("commit", err)
	}
	return &cur, nil
}

func (s *cinemaStore) Delete(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.d.rebind("DELETE FROM cinemas WHERE id = ?"), id)
	if err != nil {
		return wrap("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrCinemaNotFound
	}
	return nil
}

func (s *cinemaStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping: %w: %w", s.d.driver, repository.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *cinemaStore) Close(context.Context) error {
	return s.db.Close()
}

// canonicalID returns id in the upper-case form Insert assigns, so a
// lower-case spelling of the same ULID finds the same record.
func canonicalID(id string) (string, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", repository.ErrMalformedID, id)
	}
	return u.String(), nil
}

func wrap(op string, err error) error {
	if unavailable(err) {
		return fmt.Errorf("sql %s: %w: %w", op, repository.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("sql %s: %w", op, err)
}

func unavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// SQLSTATE class 08: connection exception.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return true
	}
	return false
}
