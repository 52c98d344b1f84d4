package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Register the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/safartravel/safar/store"
)

// MemoryDSN keeps the database inside the process.
const MemoryDSN = ":memory:"

type DB struct {
	db *sql.DB
}

// NewDB opens the database at dsn (MemoryDSN when empty) and makes sure the
// ticket table exists.
func NewDB(ctx context.Context, dsn string) (store.Driver, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
	// A single connection keeps ":memory:" databases from splitting per
	// connection and serializes writers.
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.EnsureTicketTables(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create ticket table")
	}
	return d, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
