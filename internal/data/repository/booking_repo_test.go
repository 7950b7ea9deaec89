package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"shareit/internal/data/entity"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bookingColumns = []string{
	"id", "start_date", "end_date", "status",
	"item_id", "item_name", "item_description", "owner_id", "available", "request_id",
	"booker_id", "booker_name", "booker_email",
}

func addBookingRow(rows *pgxmock.Rows, id int64, start time.Time, status entity.BookingStatus, itemID, ownerID, bookerID int64) *pgxmock.Rows {
	return rows.AddRow(
		id, start, start.Add(time.Hour), status,
		itemID, "Drill", "Cordless drill", ownerID, true, (*int64)(nil),
		bookerID, "Booker", "booker@example.com",
	)
}

// utcTime matches a time.Time argument at the given instant that is in UTC
type utcTime struct {
	want time.Time
}

func (a utcTime) Match(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Location() == time.UTC && t.Equal(a.want)
}

func newMockBookingRepo(t *testing.T) (pgxmock.PgxPoolIface, BookingRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewBookingRepository(mock, zap.NewNop())
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

	newBooking := func() *entity.Booking {
		return &entity.Booking{
			Start:  start,
			End:    start.Add(time.Hour),
			Item:   entity.Item{ID: 5},
			Booker: entity.User{ID: 9},
			Status: entity.BookingStatusWaiting,
		}
	}

	t.Run("assigns generated id", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(start, start.Add(time.Hour), int64(5), int64(9), entity.BookingStatusWaiting).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		booking := newBooking()
		require.NoError(t, repo.Create(ctx, booking))
		assert.Equal(t, int64(42), booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("start and end are written in UTC", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		zone := time.FixedZone("UTC+3", 3*60*60)
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(utcTime{start}, utcTime{start.Add(time.Hour)}, int64(5), int64(9), entity.BookingStatusWaiting).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(43)))

		booking := newBooking()
		booking.Start = start.In(zone)
		booking.End = start.Add(time.Hour).In(zone)
		require.NoError(t, repo.Create(ctx, booking))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check violation", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), int64(5), int64(9), entity.BookingStatusWaiting).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})

		err := repo.Create(ctx, newBooking())
		assert.True(t, errors.Is(err, ErrCheckViolation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key violation", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), int64(5), int64(9), entity.BookingStatusWaiting).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		err := repo.Create(ctx, newBooking())
		assert.True(t, errors.Is(err, ErrMissingReference))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), int64(5), int64(9), entity.BookingStatusWaiting).
			WillReturnError(errors.New("connection reset"))

		err := repo.Create(ctx, newBooking())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrCheckViolation))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestBookingRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("materializes item and booker", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		rows := addBookingRow(pgxmock.NewRows(bookingColumns), 1, start, entity.BookingStatusApproved, 5, 2, 9)
		mock.ExpectQuery("WHERE b.id = ").WithArgs(int64(1)).WillReturnRows(rows)

		booking, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, entity.BookingStatusApproved, booking.Status)
		assert.Equal(t, int64(2), booking.Item.OwnerID)
		assert.Equal(t, "Drill", booking.Item.Name)
		assert.Equal(t, int64(9), booking.Booker.ID)
		assert.Nil(t, booking.Item.RequestID)
	})

	t.Run("missing row is nil", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("WHERE b.id = ").WithArgs(int64(2)).WillReturnRows(pgxmock.NewRows(bookingColumns))

		booking, err := repo.FindByID(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, booking)
	})
}

func TestBookingRepository_FindFiltered(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("renders filter, order and page", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		rows := pgxmock.NewRows(bookingColumns)
		addBookingRow(rows, 2, now.Add(2*time.Hour), entity.BookingStatusWaiting, 5, 2, 9)
		addBookingRow(rows, 1, now.Add(time.Hour), entity.BookingStatusWaiting, 5, 2, 9)

		mock.ExpectQuery(`WHERE i.owner_id = \$1 AND b.start_date > \$2 ORDER BY b.start_date DESC, b.id DESC LIMIT \$3 OFFSET \$4`).
			WithArgs(int64(2), now, 20, 0).
			WillReturnRows(rows)

		bookings, err := repo.FindFiltered(ctx, BookingFilter{UserID: 2, AsOwner: true, StartAfter: &now}, Page{Limit: 20})
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, int64(2), bookings[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no limit when unbounded", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery(`WHERE b.booker_id = \$1 ORDER BY b.start_date DESC, b.id DESC$`).
			WithArgs(int64(9)).
			WillReturnRows(pgxmock.NewRows(bookingColumns))

		bookings, err := repo.FindFiltered(ctx, BookingFilter{UserID: 9}, Page{})
		require.NoError(t, err)
		assert.Empty(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectQuery("SELECT").
			WithArgs(int64(9), 10, 0).
			WillReturnError(errors.New("boom"))

		_, err := repo.FindFiltered(ctx, BookingFilter{UserID: 9}, Page{Limit: 10})
		assert.Error(t, err)
	})
}

func TestBookingRepository_UpdateStatusIfWaiting(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(int64(1), entity.BookingStatusApproved, entity.BookingStatusWaiting).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := repo.UpdateStatusIfWaiting(ctx, 1, entity.BookingStatusApproved)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already decided", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(int64(1), entity.BookingStatusRejected, entity.BookingStatusWaiting).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := repo.UpdateStatusIfWaiting(ctx, 1, entity.BookingStatusRejected)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_FindApprovedByItemIDs(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no items no query", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)

		bookings, err := repo.FindApprovedByItemIDs(ctx, 2, nil)
		require.NoError(t, err)
		assert.Nil(t, bookings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("single batch query", func(t *testing.T) {
		mock, repo := newMockBookingRepo(t)
		rows := pgxmock.NewRows(bookingColumns)
		addBookingRow(rows, 1, start, entity.BookingStatusApproved, 5, 2, 9)
		addBookingRow(rows, 2, start, entity.BookingStatusApproved, 6, 2, 9)

		mock.ExpectQuery(`b.item_id = ANY\(\$2\)`).
			WithArgs(int64(2), []int64{5, 6}, entity.BookingStatusApproved).
			WillReturnRows(rows)

		bookings, err := repo.FindApprovedByItemIDs(ctx, 2, []int64{5, 6})
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBTime_RoundTrip(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("UTC+3", 3*60*60)
	t.Cleanup(func() { time.Local = saved })

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	m := pgtype.NewMap()

	for _, oid := range []uint32{pgtype.TimestampOID, pgtype.TimestamptzOID} {
		buf, err := m.Encode(oid, pgtype.BinaryFormatCode, dbTime(start), nil)
		require.NoError(t, err)

		var scanned time.Time
		require.NoError(t, m.Scan(oid, pgtype.BinaryFormatCode, buf, &scanned))
		assert.True(t, scanned.Equal(start), "oid %d: got %s want %s", oid, scanned, start)
		assert.Equal(t, "2030-01-01T10:00:00", scanned.In(time.Local).Format("2006-01-02T15:04:05"))
	}
}
