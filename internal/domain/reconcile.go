package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FallbackFailureReason is used when the gateway reports a failure without
// supplying a reason.
const FallbackFailureReason = "Payment was declined or cancelled"

// MapGatewayStatus translates a gateway-native status string into the
// internal payment status vocabulary. It is total: unrecognized statuses map
// to failed, so an unknown gateway state can never be treated as success.
// This is the only place that performs this translation.
func MapGatewayStatus(raw string) (PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return PaymentCompleted, true
	case "pending":
		return PaymentProcessing, true
	case "failed":
		return PaymentFailed, true
	case "cancelled":
		return PaymentCancelled, true
	default:
		return PaymentFailed, false
	}
}

// ReconcileInput carries the current persisted state plus the gateway's
// verification result for one payment.
type ReconcileInput struct {
	PaymentID     uuid.UUID
	BookingID     int64
	PaymentStatus PaymentStatus
	BookingStatus BookingStatus
	StoredAmount  decimal.Decimal
	Verification  VerificationResult
}

// Outcome is the reconciler's decision. The caller persists the status pair
// if it changed and forwards the events; the function itself performs no I/O.
type Outcome struct {
	PaymentStatus PaymentStatus
	BookingStatus BookingStatus
	Events        []Event
	Anomalies     []Anomaly

	// Duplicate is set when a settled payment saw another settlement
	// notification. Not an error; the caller must not re-fire anything.
	Duplicate bool

	// UnknownStatus is set when the gateway status string was not part of
	// the known vocabulary and the fail-safe default applied.
	UnknownStatus bool
}

// Changed reports whether the outcome moved either status.
func (o Outcome) Changed(in ReconcileInput) bool {
	return o.PaymentStatus != in.PaymentStatus || o.BookingStatus != in.BookingStatus
}

// Reconcile decides how a payment and its booking transition in response to
// a gateway verification result. It is pure and total: every input produces
// a fully defined outcome, and at most one event per call.
//
// Invariants honored here:
//   - settlement is monotonic: a completed payment never leaves completed;
//   - a replayed settlement produces no events (duplicate webhooks are
//     expected, the gateway retries and operators poll manually);
//   - a cancelled booking is never silently re-confirmed by a late payment;
//   - unrecognized gateway statuses resolve to failed, deterministically.
func Reconcile(in ReconcileInput) Outcome {
	out := Outcome{
		PaymentStatus: in.PaymentStatus,
		BookingStatus: in.BookingStatus,
	}

	candidate, known := MapGatewayStatus(in.Verification.RawStatus)
	out.UnknownStatus = !known

	// The gateway is authoritative over settlement, so a differing amount is
	// recorded for the operator but does not block the transition. A missing
	// amount means no check is performed.
	if amt := in.Verification.Amount; amt != nil && !amt.Equal(in.StoredAmount) {
		out.Anomalies = append(out.Anomalies, Anomaly{
			Kind:      AnomalyAmountMismatch,
			BookingID: in.BookingID,
			Expected:  in.StoredAmount,
			Got:       *amt,
		})
	}

	// Monotonic settlement. The completed->completed case is the duplicate
	// guard for replayed webhooks: paid_at must not reset and no
	// confirmation may re-fire.
	if in.PaymentStatus == PaymentCompleted {
		out.Duplicate = candidate == PaymentCompleted
		return out
	}

	switch {
	case candidate == PaymentCompleted:
		// First-time settlement.
		out.PaymentStatus = PaymentCompleted
		out.Events = append(out.Events, Event{
			Kind:      EventPaymentConfirmed,
			PaymentID: in.PaymentID,
			BookingID: in.BookingID,
		})
		if in.BookingStatus == BookingCancelled {
			// Money moved, but the guest already cancelled. The booking
			// stays cancelled and the case is surfaced for manual review;
			// the payment receipt still goes out.
			out.Anomalies = append(out.Anomalies, Anomaly{
				Kind:      AnomalyStaleBookingState,
				BookingID: in.BookingID,
			})
		} else {
			out.BookingStatus = BookingConfirmed
		}

	case candidate == PaymentFailed && in.PaymentStatus != PaymentFailed:
		// A failed payment does not auto-cancel the booking; that decision
		// belongs to the guest or operations.
		out.PaymentStatus = PaymentFailed
		reason := FallbackFailureReason
		if in.Verification.FailureReason != nil && *in.Verification.FailureReason != "" {
			reason = *in.Verification.FailureReason
		}
		out.Events = append(out.Events, Event{
			Kind:      EventPaymentFailed,
			PaymentID: in.PaymentID,
			BookingID: in.BookingID,
			Reason:    reason,
		})

	default:
		// processing, cancelled, or no-op repeats: adopt the candidate
		// status without side effects.
		out.PaymentStatus = candidate
	}

	return out
}
