package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents an accommodation available for booking.
type Listing struct {
	ID            int64
	Title         string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
	MaxGuests     int
	Bedrooms      int
	Bathrooms     int
	Amenities     string
	Availability  bool
	IsActive      bool
	CreatedBy     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const maxListingGuests = 50

// Validate checks the field-level invariants before persisting.
func (l *Listing) Validate() error {
	if l.Title == "" || l.Location == "" {
		return ErrMissingRequiredField
	}
	if l.PricePerNight.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if l.MaxGuests < 1 || l.MaxGuests > maxListingGuests {
		return ErrInvalidGuestCount
	}
	return nil
}
