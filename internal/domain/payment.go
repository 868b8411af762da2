// Package domain defines the core models for the travel booking backend.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// PaymentMethod is how the guest pays for a booking.
type PaymentMethod string

const (
	MethodChapa        PaymentMethod = "chapa"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
)

// Payment represents a payment transaction for a booking. A booking has at
// most one payment, created lazily when the guest initiates checkout.
type Payment struct {
	ID        uuid.UUID
	BookingID int64
	UserID    int64

	Amount   decimal.Decimal
	Currency string
	Method   PaymentMethod
	Status   PaymentStatus

	TxRef            string
	CheckoutURL      *string
	GatewayTxID      *string
	PaymentReference *string
	FailureReason    *string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

// NewPayment creates a pending payment for a booking.
func NewPayment(bookingID, userID int64, amount decimal.Decimal, currency string, method PaymentMethod) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "ETB"
	}
	if method == "" {
		method = MethodChapa
	}

	now := time.Now()
	return &Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Status:    PaymentPending,
		TxRef:     GenerateTxRef(bookingID),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GenerateTxRef builds the unique gateway transaction reference for a booking.
func GenerateTxRef(bookingID int64) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ALX-%d-%s", bookingID, suffix)
}

// IsSuccessful reports whether the payment has settled.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentCompleted
}

// IsPending reports whether the payment is still awaiting settlement.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentPending || p.Status == PaymentProcessing
}

// MarkProcessing records a successful gateway initiation.
func (p *Payment) MarkProcessing(checkoutURL string) error {
	if p.Status != PaymentPending {
		return NewInvalidTransitionError(string(p.Status), string(PaymentProcessing))
	}
	p.Status = PaymentProcessing
	p.CheckoutURL = &checkoutURL
	p.UpdatedAt = time.Now()
	return nil
}

// ResetForRetry returns a failed or cancelled payment to pending under a
// fresh transaction reference, so a guest can try checkout again.
func (p *Payment) ResetForRetry() error {
	if p.Status != PaymentFailed && p.Status != PaymentCancelled {
		return NewInvalidTransitionError(string(p.Status), string(PaymentPending))
	}
	p.Status = PaymentPending
	p.TxRef = GenerateTxRef(p.BookingID)
	p.CheckoutURL = nil
	p.GatewayTxID = nil
	p.PaymentReference = nil
	p.FailureReason = nil
	p.UpdatedAt = time.Now()
	return nil
}

// ValidPaymentStatus reports whether s is part of the stored status vocabulary.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted,
		PaymentFailed, PaymentCancelled, PaymentRefunded:
		return true
	default:
		return false
	}
}
