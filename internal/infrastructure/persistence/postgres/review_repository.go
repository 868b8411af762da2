package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/jackc/pgx/v5"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user has already reviewed this listing")
)

const reviewColumns = `
	id, listing_id, user_id, booking_id, rating, comment,
	cleanliness_rating, accuracy_rating, location_rating, value_rating,
	created_at, updated_at
`

type ReviewRepository struct {
	db Executor
}

func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db.Pool}
}

// Create inserts the review and fills in its generated ID. One review per
// user per listing is enforced by a unique constraint.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (
			listing_id, user_id, booking_id, rating, comment,
			cleanliness_rating, accuracy_rating, location_rating, value_rating,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		review.ListingID,
		review.UserID,
		review.BookingID,
		review.Rating,
		review.Comment,
		review.CleanlinessRating,
		review.AccuracyRating,
		review.LocationRating,
		review.ValueRating,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanReview(row)
}

// FindByListingID retrieves reviews for a listing, newest first
func (r *ReviewRepository) FindByListingID(ctx context.Context, listingID int64, limit, offset int) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, listingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query reviews by listing_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Review, error) {
		return scanReviewRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	return results, nil
}

// AverageRating returns the mean rating for a listing and the review count.
// A listing with no reviews averages zero.
func (r *ReviewRepository) AverageRating(ctx context.Context, listingID int64) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews WHERE listing_id = $1
	`

	var (
		avg   float64
		count int
	)
	if err := r.db.QueryRow(ctx, query, listingID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("average rating for listing: %w", err)
	}
	return avg, count, nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	rev, err := scanReviewRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return rev, nil
}

func scanReviewRow(row pgx.Row) (*domain.Review, error) {
	var rev domain.Review
	err := row.Scan(
		&rev.ID, &rev.ListingID, &rev.UserID, &rev.BookingID, &rev.Rating, &rev.Comment,
		&rev.CleanlinessRating, &rev.AccuracyRating, &rev.LocationRating, &rev.ValueRating,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	return &rev, err
}
