package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeValidation        = "VALIDATION_FAILED"
)

var (
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrInvalidGuestCount     = errors.New("guest count out of range")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrCheckOutBeforeCheckIn = errors.New("check-out date must be after check-in date")
	ErrCheckInPast           = errors.New("check-in date cannot be in the past")
	ErrTooManyGuests         = errors.New("number of guests exceeds listing capacity")
	ErrListingUnavailable    = errors.New("listing is not available for booking")
)

func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewValidationError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "validation failed",
		Err:     err,
	}
}
