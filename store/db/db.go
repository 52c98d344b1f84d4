package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/safartravel/safar/internal/profile"
	"github.com/safartravel/safar/store"
	"github.com/safartravel/safar/store/db/memory"
	"github.com/safartravel/safar/store/db/mysql"
	"github.com/safartravel/safar/store/db/postgres"
	"github.com/safartravel/safar/store/db/sqlite"
)

// NewDBDriver creates the ticket driver selected by the profile.
func NewDBDriver(ctx context.Context, profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "", "memory":
		driver = memory.NewDB()
	case "sqlite":
		driver, err = sqlite.NewDB(ctx, profile.DSN)
	case "postgres":
		driver, err = postgres.NewDB(ctx, profile.DSN)
	case "mysql":
		driver, err = mysql.NewDB(ctx, profile.DSN)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
