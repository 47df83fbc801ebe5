package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
	"github.com/ombati/slot-scheduler/internal/infrastructure/clients/sqldb"
	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

const bookingsTable = "bookings"

var bookingColumns = []interface{}{
	"booking_id", "date", "start_time", "end_time",
	"duration_minutes", "client_id", "service_name", "created_ts",
}

// BookingAdapter implements the BookingRepository interface over the sql
// store. It never validates overlap: cross-row consistency belongs to the
// booking service.
type BookingAdapter struct {
	client *sqldb.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *sqldb.Client) *BookingAdapter {
	dialect := "sqlite3"
	if client.Driver() == "postgres" {
		dialect = "postgres"
	}
	return &BookingAdapter{
		client: client,
		db:     goqu.New(dialect, client.DB()),
	}
}

// EnsureSchema creates the bookings table if it does not exist. The id column
// is the store-owned allocator: AUTOINCREMENT / BIGSERIAL guarantee ids are
// monotonic and never reassigned after deletion. UNIQUE(date, start_time) is
// a backstop only; the no-overlap invariant is enforced above the store.
func (a *BookingAdapter) EnsureSchema(ctx context.Context) error {
	var ddl string
	if a.client.Driver() == "postgres" {
		ddl = `
		CREATE TABLE IF NOT EXISTS bookings (
			booking_id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			client_id TEXT NOT NULL,
			service_name TEXT NOT NULL,
			created_ts BIGINT NOT NULL,
			UNIQUE (date, start_time)
		)`
	} else {
		ddl = `
		CREATE TABLE IF NOT EXISTS bookings (
			booking_id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			client_id TEXT NOT NULL,
			service_name TEXT NOT NULL,
			created_ts INTEGER NOT NULL,
			UNIQUE (date, start_time)
		)`
	}

	if _, err := a.runner(ctx).ExecContext(ctx, ddl); err != nil {
		return apperrors.NewInternalError("failed to create bookings table", err)
	}

	idx := `CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (date, start_time)`
	if _, err := a.runner(ctx).ExecContext(ctx, idx); err != nil {
		return apperrors.NewInternalError("failed to create bookings index", err)
	}
	return nil
}

// Insert persists a new booking and returns the store-assigned id
func (a *BookingAdapter) Insert(ctx context.Context, booking *entities.Booking) (int64, error) {
	record := goqu.Record{
		"date":             booking.Date,
		"start_time":       booking.StartTime,
		"end_time":         booking.EndTime,
		"duration_minutes": booking.DurationMinutes,
		"client_id":        booking.ClientID,
		"service_name":     booking.ServiceName,
		"created_ts":       booking.CreatedAt.Unix(),
	}

	if a.client.Driver() == "postgres" {
		query, args, err := a.db.Insert(bookingsTable).
			Rows(record).
			Returning(goqu.C("booking_id")).
			ToSQL()
		if err != nil {
			return 0, apperrors.NewInternalError("failed to build insert query", err)
		}

		var id int64
		if err := a.runner(ctx).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.NewConflictError("a booking already starts at this time")
			}
			return 0, apperrors.NewInternalError("failed to insert booking", err)
		}
		booking.ID = id
		return id, nil
	}

	query, args, err := a.db.Insert(bookingsTable).Rows(record).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := a.runner(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.NewConflictError("a booking already starts at this time")
		}
		return 0, apperrors.NewInternalError("failed to insert booking", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to read inserted booking id", err)
	}
	booking.ID = id
	return id, nil
}

// Delete hard-deletes a booking and reports whether a row was removed
func (a *BookingAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := a.db.Delete(bookingsTable).
		Where(goqu.Ex{"booking_id": id}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.runner(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}

// GetByID retrieves a booking by id
func (a *BookingAdapter) GetByID(ctx context.Context, id int64) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From(bookingsTable).
		Where(goqu.Ex{"booking_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.runner(ctx).QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// ListByDay retrieves all live bookings on a day, ordered by start_time
func (a *BookingAdapter) ListByDay(ctx context.Context, date string) ([]*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From(bookingsTable).
		Where(goqu.Ex{"date": date}).
		Order(goqu.I("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}
	return a.queryBookings(ctx, query, args)
}

// ListFrom retrieves all live bookings at or after (date, startTime),
// ordered by (date, start_time)
func (a *BookingAdapter) ListFrom(ctx context.Context, date, startTime string) ([]*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From(bookingsTable).
		Where(goqu.Or(
			goqu.C("date").Gt(date),
			goqu.And(
				goqu.C("date").Eq(date),
				goqu.C("start_time").Gte(startTime),
			),
		)).
		Order(goqu.I("date").Asc(), goqu.I("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}
	return a.queryBookings(ctx, query, args)
}

func (a *BookingAdapter) queryBookings(ctx context.Context, query string, args []interface{}) ([]*entities.Booking, error) {
	rows, err := a.runner(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}
	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var createdTs int64

	err := row.Scan(
		&booking.ID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.ClientID,
		&booking.ServiceName,
		&createdTs,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = time.Unix(createdTs, 0).UTC()
	return booking, nil
}
