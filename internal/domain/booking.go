package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the current state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking represents a reservation for a listing.
type Booking struct {
	ID              int64
	ListingID       int64
	UserID          int64
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumGuests       int
	TotalPrice      decimal.Decimal
	Status          BookingStatus
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBooking validates the stay against the listing and prices it.
// Total price is nights times the listing's price per night.
func NewBooking(listing *Listing, userID int64, checkIn, checkOut time.Time, numGuests int, specialRequests string) (*Booking, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrCheckOutBeforeCheckIn
	}
	if checkIn.Before(truncateToDay(time.Now())) {
		return nil, ErrCheckInPast
	}
	if numGuests < 1 {
		numGuests = 1
	}
	if numGuests > listing.MaxGuests {
		return nil, ErrTooManyGuests
	}
	if !listing.Availability || !listing.IsActive {
		return nil, ErrListingUnavailable
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	now := time.Now()
	return &Booking{
		ListingID:       listing.ID,
		UserID:          userID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumGuests:       numGuests,
		TotalPrice:      listing.PricePerNight.Mul(decimal.NewFromInt(nights)),
		Status:          BookingPending,
		SpecialRequests: specialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DurationDays returns the length of the stay in nights.
func (b *Booking) DurationDays() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// Cancel moves the booking to cancelled. Cancelled and completed bookings
// cannot be cancelled again.
func (b *Booking) Cancel() error {
	if b.Status == BookingCancelled || b.Status == BookingCompleted {
		return NewInvalidTransitionError(string(b.Status), string(BookingCancelled))
	}
	b.Status = BookingCancelled
	b.UpdatedAt = time.Now()
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
