package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/safartravel/safar/internal/profile"
	"github.com/safartravel/safar/store"
)

func newTicket(id string) *store.Ticket {
	return &store.Ticket{
		ID:            id,
		Origin:        "Tehran",
		Destination:   "شیراز",
		TravelDate:    "1403/05/10",
		DepartureTime: "08:00",
		PassengerName: "Sara Ahmadi",
		NationalID:    "0012345678",
		PriceIRR:      1500000,
		Status:        store.TicketConfirmed,
		BookingDate:   "2026-10-19 10:00:00",
	}
}

// exerciseDriver runs the driver contract shared by every backend.
func exerciseDriver(t *testing.T, driver store.Driver) {
	t.Helper()
	ctx := context.Background()
	s := store.New(driver)

	n, err := s.CountTickets(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	created, err := s.CreateTicket(ctx, newTicket("SF-TESH-AAAAAA"))
	require.NoError(t, err)
	assert.Equal(t, "SF-TESH-AAAAAA", created.ID)
	_, err = s.CreateTicket(ctx, newTicket("SF-TESH-BBBBBB"))
	require.NoError(t, err)

	_, err = s.CreateTicket(ctx, newTicket("SF-TESH-AAAAAA"))
	require.Error(t, err, "duplicate ids must be rejected")

	n, err = s.CountTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	id := "SF-TESH-AAAAAA"
	got, err := s.GetTicket(ctx, &store.FindTicket{ID: &id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newTicket(id), got)

	missing := "SF-NOPE-000000"
	got, err = s.GetTicket(ctx, &store.FindTicket{ID: &missing})
	require.NoError(t, err)
	assert.Nil(t, got)

	cancelled := store.TicketCancelled
	date := "2026-10-20 09:00:00"
	updated, err := s.UpdateTicket(ctx, &store.UpdateTicket{ID: id, Status: &cancelled, CancellationDate: &date})
	require.NoError(t, err)
	assert.Equal(t, store.TicketCancelled, updated.Status)
	assert.Equal(t, date, updated.CancellationDate)
	assert.Equal(t, int64(1500000), updated.PriceIRR)

	_, err = s.UpdateTicket(ctx, &store.UpdateTicket{ID: missing, Status: &cancelled})
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListTickets(ctx, &store.FindTicket{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	list, err = s.ListTickets(ctx, &store.FindTicket{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "SF-TESH-AAAAAA", list[0].ID)
	assert.Equal(t, "SF-TESH-BBBBBB", list[1].ID)
}

func TestMemoryDriver(t *testing.T) {
	t.Parallel()

	driver, err := NewDBDriver(context.Background(), &profile.Profile{Driver: "memory"})
	require.NoError(t, err)
	defer driver.Close()
	exerciseDriver(t, driver)
}

func TestMemoryDriver_ConcurrentCreate(t *testing.T) {
	t.Parallel()

	driver, err := NewDBDriver(context.Background(), &profile.Profile{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := driver.CreateTicket(context.Background(), newTicket(fmt.Sprintf("SF-TESH-%06d", i)))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := driver.CountTickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestSQLiteDriver(t *testing.T) {
	t.Parallel()

	driver, err := NewDBDriver(context.Background(), &profile.Profile{Driver: "sqlite"})
	require.NoError(t, err)
	defer driver.Close()
	exerciseDriver(t, driver)
}

func TestUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := NewDBDriver(context.Background(), &profile.Profile{Driver: "mongo"})
	require.Error(t, err)
}

func requireContainers(t *testing.T) {
	t.Helper()
	if os.Getenv("SAFAR_TEST_CONTAINERS") != "1" {
		t.Skip("set SAFAR_TEST_CONTAINERS=1 to run driver tests against containers")
	}
}

func TestPostgresDriver(t *testing.T) {
	requireContainers(t)
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("safar"),
		tcpostgres.WithUsername("safar"),
		tcpostgres.WithPassword("safar"),
		tcpostgres.BasicWaitStrategies(),
	)
	defer testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	driver, err := NewDBDriver(ctx, &profile.Profile{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	defer driver.Close()
	exerciseDriver(t, driver)
}

func TestMySQLDriver(t *testing.T) {
	requireContainers(t)
	ctx := context.Background()

	ctr, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("safar"),
		tcmysql.WithUsername("safar"),
		tcmysql.WithPassword("safar"),
	)
	defer testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	driver, err := NewDBDriver(ctx, &profile.Profile{Driver: "mysql", DSN: dsn})
	require.NoError(t, err)
	defer driver.Close()
	exerciseDriver(t, driver)
}
