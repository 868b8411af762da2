package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/jackc/pgx/v5"
)

var ErrBookingNotFound = errors.New("booking not found")

const bookingColumns = `
	id, listing_id, user_id, check_in_date, check_out_date, num_guests,
	total_price, status, special_requests, created_at, updated_at
`

type BookingRepository struct {
	db Executor
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db.Pool}
}

func (r *BookingRepository) withExecutor(q Executor) *BookingRepository {
	return &BookingRepository{db: q}
}

// Create inserts the booking and fills in its generated ID.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			listing_id, user_id, check_in_date, check_out_date, num_guests,
			total_price, status, special_requests, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		booking.ListingID,
		booking.UserID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.NumGuests,
		booking.TotalPrice,
		booking.Status,
		booking.SpecialRequests,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanBooking(row)
}

// FindByIDForUpdate retrieves a booking with row-level lock
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	return scanBooking(row)
}

// FindByUserID retrieves a user's bookings, newest first
func (r *BookingRepository) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookings by user_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Booking, error) {
		return scanBookingRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	return results, nil
}

// FindByListingID retrieves bookings for a listing, newest first
func (r *BookingRepository) FindByListingID(ctx context.Context, listingID int64, limit, offset int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, listingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookings by listing_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Booking, error) {
		return scanBookingRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	return results, nil
}

// HasOverlapping reports whether an active booking already covers any night
// in [checkIn, checkOut) for the listing. Cancelled bookings don't block.
func (r *BookingRepository) HasOverlapping(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND check_in_date < $3
			  AND check_out_date > $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, listingID, checkIn, checkOut).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlapping bookings: %w", err)
	}
	return exists, nil
}

// UpdateStatus persists a booking status transition
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, booking.Status, booking.UpdatedAt, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return b, nil
}

func scanBookingRow(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.ListingID, &b.UserID, &b.CheckInDate, &b.CheckOutDate, &b.NumGuests,
		&b.TotalPrice, &b.Status, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt,
	)
	return &b, err
}
