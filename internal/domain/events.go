package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind identifies a notification event emitted by reconciliation or
// booking creation. Events are dispatched, never stored.
type EventKind string

const (
	EventPaymentConfirmed       EventKind = "payment_confirmed"
	EventPaymentFailed          EventKind = "payment_failed"
	EventBookingAwaitingPayment EventKind = "booking_awaiting_payment"
)

// Event is a notification to be delivered best-effort to the guest.
type Event struct {
	Kind      EventKind
	PaymentID uuid.UUID
	BookingID int64
	Reason    string
}

// AnomalyKind identifies a reconciliation irregularity that needs operator
// attention but does not block the transition.
type AnomalyKind string

const (
	AnomalyAmountMismatch    AnomalyKind = "amount_mismatch"
	AnomalyStaleBookingState AnomalyKind = "stale_booking_state"
)

// Anomaly records an irregularity observed while reconciling.
type Anomaly struct {
	Kind      AnomalyKind
	BookingID int64
	Expected  decimal.Decimal
	Got       decimal.Decimal
}

// VerificationResult is the gateway's answer to a verify call, normalized
// from the Chapa response body.
type VerificationResult struct {
	RawStatus     string
	Amount        *decimal.Decimal
	Currency      string
	GatewayTxID   string
	Reference     string
	FailureReason *string
}
