// Package sqldb stores cinema records in a relational table through
// database/sql. MySQL (go-sql-driver/mysql) and PostgreSQL (lib/pq) are
// supported; queries are written with '?' placeholders and rebound for the
// selected dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/iliyamo/cinema-api/internal/repository"
)

type dialect struct {
	driver     string
	dollarArgs bool // postgres numbers its placeholders
	schema     string
}

var dialects = map[string]dialect{
	"mysql": {
		driver: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS cinemas (
			seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			id CHAR(26) NOT NULL UNIQUE,
			movie TEXT NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL
		) CHARACTER SET utf8mb4`,
	},
	"postgres": {
		driver:     "postgres",
		dollarArgs: true,
		schema: `CREATE TABLE IF NOT EXISTS cinemas (
			seq BIGSERIAL PRIMARY KEY,
			id CHAR(26) NOT NULL UNIQUE,
			movie TEXT NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		)`,
	},
}

// Open connects with the named driver ("mysql" or "postgres"), verifies the
// connection and creates the cinemas table when it is missing.
func Open(ctx context.Context, driver, dsn string) (repository.CinemaStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("sqldb: unsupported driver %q", driver)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w: %w", driver, repository.ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s create schema: %w", driver, err)
	}
	return &cinemaStore{db: db, d: d}, nil
}

// rebind rewrites '?' placeholders to $1, $2, ... for dialects that need it.
func (d dialect) rebind(q string) string {
	if !d.dollarArgs {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
