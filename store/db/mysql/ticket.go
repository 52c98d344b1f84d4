package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/safartravel/safar/store"
)

func (d *DB) EnsureTicketTables(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS `ticket` (" +
			"`id` INT NOT NULL AUTO_INCREMENT PRIMARY KEY," +
			"`ticket_id` VARCHAR(64) NOT NULL UNIQUE," +
			"`origin` VARCHAR(256) NOT NULL," +
			"`destination` VARCHAR(256) NOT NULL," +
			"`travel_date` VARCHAR(64) NOT NULL," +
			"`departure_time` VARCHAR(16) NOT NULL," +
			"`passenger_name` VARCHAR(256) NOT NULL," +
			"`national_id` VARCHAR(32) NOT NULL," +
			"`price_irr` BIGINT NOT NULL," +
			"`status` VARCHAR(16) NOT NULL DEFAULT 'CONFIRMED'," +
			"`booking_date` VARCHAR(32) NOT NULL," +
			"`cancellation_date` VARCHAR(32) NOT NULL DEFAULT ''" +
			") DEFAULT CHARSET=utf8mb4",
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) CreateTicket(ctx context.Context, create *store.Ticket) (*store.Ticket, error) {
	stmt := "INSERT INTO `ticket` (`ticket_id`, `origin`, `destination`, `travel_date`, `departure_time`, " +
		"`passenger_name`, `national_id`, `price_irr`, `status`, `booking_date`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.Origin, create.Destination, create.TravelDate, create.DepartureTime,
		create.PassengerName, create.NationalID, create.PriceIRR, string(create.Status), create.BookingDate,
	); err != nil {
		return nil, err
	}
	t := *create
	return &t, nil
}

func (d *DB) ListTickets(ctx context.Context, find *store.FindTicket) ([]*store.Ticket, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`ticket_id` = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "`status` = ?"), append(args, string(*v))
	}
	query := fmt.Sprintf(
		"SELECT `ticket_id`, `origin`, `destination`, `travel_date`, `departure_time`, `passenger_name`, "+
			"`national_id`, `price_irr`, `status`, `booking_date`, `cancellation_date` "+
			"FROM `ticket` WHERE %s ORDER BY `id` ASC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Ticket
	for rows.Next() {
		t := &store.Ticket{}
		if err := rows.Scan(&t.ID, &t.Origin, &t.Destination, &t.TravelDate, &t.DepartureTime, &t.PassengerName,
			&t.NationalID, &t.PriceIRR, &t.Status, &t.BookingDate, &t.CancellationDate); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (d *DB) UpdateTicket(ctx context.Context, update *store.UpdateTicket) (*store.Ticket, error) {
	set, args := []string{}, []any{}
	if v := update.Status; v != nil {
		set, args = append(set, "`status` = ?"), append(args, string(*v))
	}
	if v := update.CancellationDate; v != nil {
		set, args = append(set, "`cancellation_date` = ?"), append(args, *v)
	}
	if len(set) > 0 {
		args = append(args, update.ID)
		stmt := fmt.Sprintf("UPDATE `ticket` SET %s WHERE `ticket_id` = ?", strings.Join(set, ", "))
		if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
			return nil, err
		}
	}
	// MySQL reports zero affected rows for no-op updates, so existence is checked by reading back.
	list, err := d.ListTickets(ctx, &store.FindTicket{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Wrapf(store.ErrNotFound, "update ticket %q", update.ID)
	}
	return list[0], nil
}

func (d *DB) CountTickets(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM `ticket`").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
