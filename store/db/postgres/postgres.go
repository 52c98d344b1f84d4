package postgres

import (
	"context"
	"database/sql"
	"strconv"

	// Register the "postgres" database/sql driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/safartravel/safar/store"
)

type DB struct {
	db *sql.DB
}

// NewDB opens the database at dsn and makes sure the ticket table exists.
func NewDB(ctx context.Context, dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
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

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
