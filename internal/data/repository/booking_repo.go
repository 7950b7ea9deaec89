package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/data/entity"
	"shareit/pkg/database"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindFiltered(ctx context.Context, filter BookingFilter, page Page) ([]*entity.Booking, error)

	// UpdateStatusIfWaiting reports false when the booking was no longer WAITING
	UpdateStatusIfWaiting(ctx context.Context, id int64, status entity.BookingStatus) (bool, error)

	// Item summaries
	FindApprovedByItemIDs(ctx context.Context, ownerID int64, itemIDs []int64) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingSelect = `
		SELECT b.id, b.start_date, b.end_date, b.status,
		       i.id, i.name, i.description, i.owner_id, i.available, i.request_id,
		       u.id, u.name, u.email
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		JOIN users u ON u.id = b.booker_id
`

// dbTime normalises a timestamp to UTC before it is sent to Postgres. pgx writes
// the wall clock of a TIMESTAMP parameter and reads it back as UTC, so any
// other zone would shift the stored instant.
func dbTime(t time.Time) time.Time {
	return t.UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Start,
		&booking.End,
		&booking.Status,
		&booking.Item.ID,
		&booking.Item.Name,
		&booking.Item.Description,
		&booking.Item.OwnerID,
		&booking.Item.Available,
		&booking.Item.RequestID,
		&booking.Booker.ID,
		&booking.Booker.Name,
		&booking.Booker.Email,
	)
	if err != nil {
		return nil, err
	}
	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("booking %d has unknown status %q", booking.ID, booking.Status)
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		dbTime(booking.Start),
		dbTime(booking.End),
		booking.Item.ID,
		booking.Booker.ID,
		booking.Status,
	).Scan(&booking.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.CheckViolation:
				return fmt.Errorf("create booking for item %d: %w", booking.Item.ID, ErrCheckViolation)
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("create booking for item %d: %w", booking.Item.ID, ErrMissingReference)
			}
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64("item_id", booking.Item.ID),
			zap.Int64("booker_id", booking.Booker.ID),
		)
		return fmt.Errorf("create booking for item %d: %w", booking.Item.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := bookingSelect + ` WHERE b.id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindFiltered(ctx context.Context, filter BookingFilter, page Page) ([]*entity.Booking, error) {
	where, args := filter.Where(1)
	query := bookingSelect + ` WHERE ` + where + ` ORDER BY b.start_date DESC, b.id DESC`

	if page.Limit > 0 {
		args = append(args, page.Limit, page.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	bookings, err := r.queryBookings(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find filtered bookings",
			zap.Error(err),
			zap.Int64("user_id", filter.UserID),
			zap.Bool("as_owner", filter.AsOwner),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find filtered bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) UpdateStatusIfWaiting(ctx context.Context, id int64, status entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $2 WHERE id = $1 AND status = $3`

	result, err := r.db.Exec(ctx, query, id, status, entity.BookingStatusWaiting)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update booking %d status to %s: %w", id, status, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) FindApprovedByItemIDs(ctx context.Context, ownerID int64, itemIDs []int64) ([]*entity.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := bookingSelect + `
		WHERE i.owner_id = $1 AND b.item_id = ANY($2) AND b.status = $3
		ORDER BY b.start_date`

	bookings, err := r.queryBookings(ctx, query, ownerID, itemIDs, entity.BookingStatusApproved)
	if err != nil {
		r.log.Error("Failed to find approved bookings by items",
			zap.Error(err),
			zap.Int64("owner_id", ownerID),
			zap.Int("item_count", len(itemIDs)),
		)
		return nil, fmt.Errorf("find approved bookings of owner %d: %w", ownerID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
