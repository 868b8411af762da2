package domain

import "time"

// Review represents a guest review of a listing. One review per user per
// listing, enforced by a unique constraint in the store.
type Review struct {
	ID        int64
	ListingID int64
	UserID    int64
	BookingID *int64
	Rating    int
	Comment   string

	// Optional category ratings, 1-5 when set.
	CleanlinessRating *int
	AccuracyRating    *int
	LocationRating    *int
	ValueRating       *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks rating ranges.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	for _, cat := range []*int{r.CleanlinessRating, r.AccuracyRating, r.LocationRating, r.ValueRating} {
		if cat != nil && (*cat < 1 || *cat > 5) {
			return ErrInvalidRating
		}
	}
	return nil
}
