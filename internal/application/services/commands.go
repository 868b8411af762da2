package services

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateListingCommand struct {
	Title         string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
	MaxGuests     int
	Bedrooms      int
	Bathrooms     int
	Amenities     string
	CreatedBy     int64
}

type UpdateListingCommand struct {
	ListingID     int64
	Title         *string
	Description   *string
	Location      *string
	PricePerNight *decimal.Decimal
	MaxGuests     *int
	Bedrooms      *int
	Bathrooms     *int
	Amenities     *string
	Availability  *bool
	IsActive      *bool
}

type CreateBookingCommand struct {
	ListingID       int64
	UserID          int64
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumGuests       int
	SpecialRequests string
}

type CreateReviewCommand struct {
	ListingID int64
	UserID    int64
	BookingID *int64
	Rating    int
	Comment   string

	CleanlinessRating *int
	AccuracyRating    *int
	LocationRating    *int
	ValueRating       *int
}

type InitiatePaymentCommand struct {
	BookingID int64
	UserID    int64
	ReturnURL string
}
