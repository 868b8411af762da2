package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var ErrListingNotFound = errors.New("listing not found")

const listingColumns = `
	id, title, description, location, price_per_night, max_guests,
	bedrooms, bathrooms, amenities, availability, is_active,
	created_by, created_at, updated_at
`

// ListingFilter narrows List results. Zero values mean "no constraint".
// CheckIn and CheckOut must be set together; when present, listings with a
// pending or confirmed booking overlapping the range are excluded.
type ListingFilter struct {
	Location      string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinGuests     int
	OnlyAvailable bool
	CheckIn       *time.Time
	CheckOut      *time.Time
	Limit         int
	Offset        int
}

type ListingRepository struct {
	db Executor
}

func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db.Pool}
}

// Create inserts the listing and fills in its generated ID.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (
			title, description, location, price_per_night, max_guests,
			bedrooms, bathrooms, amenities, availability, is_active,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		listing.Title,
		listing.Description,
		listing.Location,
		listing.PricePerNight,
		listing.MaxGuests,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.Amenities,
		listing.Availability,
		listing.IsActive,
		listing.CreatedBy,
		listing.CreatedAt,
		listing.UpdatedAt,
	).Scan(&listing.ID)

	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanListing(row)
}

// List returns active listings matching the filter, newest first.
func (r *ListingRepository) List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error) {
	var (
		conditions = []string{"is_active = TRUE"}
		args       []any
	)

	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Location != "" {
		conditions = append(conditions, "location ILIKE "+addArg("%"+filter.Location+"%"))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price_per_night >= "+addArg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price_per_night <= "+addArg(*filter.MaxPrice))
	}
	if filter.MinGuests > 0 {
		conditions = append(conditions, "max_guests >= "+addArg(filter.MinGuests))
	}
	if filter.OnlyAvailable {
		conditions = append(conditions, "availability = TRUE")
	}
	if filter.CheckIn != nil && filter.CheckOut != nil {
		// Same overlap predicate as the booking conflict check: a stay
		// blocks the range when it starts before the requested check-out
		// and ends after the requested check-in.
		conditions = append(conditions, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.listing_id = listings.id
			  AND b.status IN ('pending', 'confirmed')
			  AND b.check_in_date < `+addArg(*filter.CheckOut)+`
			  AND b.check_out_date > `+addArg(*filter.CheckIn)+`
		)`)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC
		LIMIT ` + addArg(limit) + ` OFFSET ` + addArg(filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Listing, error) {
		return scanListingRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	return results, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	query := `
		UPDATE listings
		SET title = $1, description = $2, location = $3, price_per_night = $4,
			max_guests = $5, bedrooms = $6, bathrooms = $7, amenities = $8,
			availability = $9, is_active = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := r.db.Exec(ctx, query,
		listing.Title,
		listing.Description,
		listing.Location,
		listing.PricePerNight,
		listing.MaxGuests,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.Amenities,
		listing.Availability,
		listing.IsActive,
		listing.UpdatedAt,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	l, err := scanListingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return l, nil
}

func scanListingRow(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Location, &l.PricePerNight, &l.MaxGuests,
		&l.Bedrooms, &l.Bathrooms, &l.Amenities, &l.Availability, &l.IsActive,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	return &l, err
}
