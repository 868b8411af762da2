package domain_test

import (
	"testing"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func verification(raw string) domain.VerificationResult {
	return domain.VerificationResult{
		RawStatus:   raw,
		GatewayTxID: "chapa-tx-001",
		Reference:   "ref-001",
	}
}

func input(ps domain.PaymentStatus, bs domain.BookingStatus, v domain.VerificationResult) domain.ReconcileInput {
	return domain.ReconcileInput{
		PaymentID:     uuid.New(),
		BookingID:     42,
		PaymentStatus: ps,
		BookingStatus: bs,
		StoredAmount:  decimal.RequireFromString("450.00"),
		Verification:  v,
	}
}

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		raw   string
		want  domain.PaymentStatus
		known bool
	}{
		{"success", domain.PaymentCompleted, true},
		{"SUCCESS", domain.PaymentCompleted, true},
		{"pending", domain.PaymentProcessing, true},
		{"failed", domain.PaymentFailed, true},
		{"cancelled", domain.PaymentCancelled, true},
		{"some-unrecognized-value", domain.PaymentFailed, false},
		{"", domain.PaymentFailed, false},
		{"completed", domain.PaymentFailed, false},
	}

	for _, tc := range cases {
		got, known := domain.MapGatewayStatus(tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		assert.Equal(t, tc.known, known, "raw=%q", tc.raw)
	}
}

func TestReconcile_FirstSettlement(t *testing.T) {
	v := verification("success")
	v.Amount = decPtr("450.00")
	in := input(domain.PaymentPending, domain.BookingPending, v)

	out := domain.Reconcile(in)

	assert.Equal(t, domain.PaymentCompleted, out.PaymentStatus)
	assert.Equal(t, domain.BookingConfirmed, out.BookingStatus)
	require.Len(t, out.Events, 1)
	assert.Equal(t, domain.EventPaymentConfirmed, out.Events[0].Kind)
	assert.Equal(t, in.PaymentID, out.Events[0].PaymentID)
	assert.Empty(t, out.Anomalies)
	assert.False(t, out.Duplicate)
	assert.True(t, out.Changed(in))
}

func TestReconcile_FailedEdge(t *testing.T) {
	v := verification("failed")
	v.FailureReason = strPtr("card_declined")
	in := input(domain.PaymentProcessing, domain.BookingPending, v)

	out := domain.Reconcile(in)

	assert.Equal(t, domain.PaymentFailed, out.PaymentStatus)
	assert.Equal(t, domain.BookingPending, out.BookingStatus, "failed payment must not cancel the booking")
	require.Len(t, out.Events, 1)
	assert.Equal(t, domain.EventPaymentFailed, out.Events[0].Kind)
	assert.Equal(t, "card_declined", out.Events[0].Reason)
	assert.Empty(t, out.Anomalies)
}

func TestReconcile_FailedWithoutReasonUsesFallback(t *testing.T) {
	in := input(domain.PaymentProcessing, domain.BookingPending, verification("failed"))

	out := domain.Reconcile(in)

	require.Len(t, out.Events, 1)
	assert.Equal(t, domain.FallbackFailureReason, out.Events[0].Reason)
}

func TestReconcile_DuplicateSettlement(t *testing.T) {
	in := input(domain.PaymentCompleted, domain.BookingConfirmed, verification("success"))

	out := domain.Reconcile(in)

	assert.Equal(t, domain.PaymentCompleted, out.PaymentStatus)
	assert.Equal(t, domain.BookingConfirmed, out.BookingStatus)
	assert.Empty(t, out.Events, "replayed webhook must not re-fire confirmation")
	assert.Empty(t, out.Anomalies)
	assert.True(t, out.Duplicate)
	assert.False(t, out.Changed(in))
}

func TestReconcile_MonotonicSettlement(t *testing.T) {
	// Once completed, no later verification result may move the payment.
	for _, raw := range []string{"success", "pending", "failed", "cancelled", "garbage"} {
		in := input(domain.PaymentCompleted, domain.BookingConfirmed, verification(raw))

		out := domain.Reconcile(in)

		assert.Equal(t, domain.PaymentCompleted, out.PaymentStatus, "raw=%q", raw)
		assert.Equal(t, domain.BookingConfirmed, out.BookingStatus, "raw=%q", raw)
		assert.Empty(t, out.Events, "raw=%q", raw)
	}
}

func TestReconcile_UnknownStatusFailsSafe(t *testing.T) {
	in := input(domain.PaymentPending, domain.BookingPending, verification("some-unrecognized-value"))

	out := domain.Reconcile(in)

	assert.Equal(t, domain.PaymentFailed, out.PaymentStatus)
	assert.True(t, out.UnknownStatus)
}

func TestReconcile_CancelledBookingGuard(t *testing.T) {
	in := input(domain.PaymentPending, domain.BookingCancelled, verification("success"))

	out := domain.Reconcile(in)

	// The money moved, so the payment settles, but a cancelled booking is
	// never re-confirmed behind the guest's back.
	assert.Equal(t, domain.PaymentCompleted, out.PaymentStatus)
	assert.Equal(t, domain.BookingCancelled, out.BookingStatus)
	require.Len(t, out.Events, 1)
	assert.Equal(t, domain.EventPaymentConfirmed, out.Events[0].Kind)
	require.Len(t, out.Anomalies, 1)
	assert.Equal(t, domain.AnomalyStaleBookingState, out.Anomalies[0].Kind)
	assert.Equal(t, in.BookingID, out.Anomalies[0].BookingID)
}

func TestReconcile_AmountMismatchAnomaly(t *testing.T) {
	v := verification("success")
	v.Amount = decPtr("500.00")
	in := input(domain.PaymentPending, domain.BookingPending, v)

	out := domain.Reconcile(in)

	// The gateway is authoritative over settlement: the transition proceeds,
	// the mismatch is surfaced.
	assert.Equal(t, domain.PaymentCompleted, out.PaymentStatus)
	require.Len(t, out.Anomalies, 1)
	assert.Equal(t, domain.AnomalyAmountMismatch, out.Anomalies[0].Kind)
	assert.True(t, out.Anomalies[0].Expected.Equal(decimal.RequireFromString("450.00")))
	assert.True(t, out.Anomalies[0].Got.Equal(decimal.RequireFromString("500.00")))
}

func TestReconcile_MissingAmountSkipsCheck(t *testing.T) {
	in := input(domain.PaymentPending, domain.BookingPending, verification("success"))

	out := domain.Reconcile(in)

	assert.Empty(t, out.Anomalies)
}

func TestReconcile_NoChangeNoEvents(t *testing.T) {
	cases := []struct {
		ps  domain.PaymentStatus
		bs  domain.BookingStatus
		raw string
	}{
		{domain.PaymentProcessing, domain.BookingPending, "pending"},
		{domain.PaymentFailed, domain.BookingPending, "failed"},
		{domain.PaymentCancelled, domain.BookingPending, "cancelled"},
		{domain.PaymentCompleted, domain.BookingConfirmed, "success"},
	}

	for _, tc := range cases {
		in := input(tc.ps, tc.bs, verification(tc.raw))

		out := domain.Reconcile(in)

		assert.Equal(t, tc.ps, out.PaymentStatus, "raw=%q", tc.raw)
		assert.Equal(t, tc.bs, out.BookingStatus, "raw=%q", tc.raw)
		assert.Empty(t, out.Events, "no-op reconciliation must not notify (raw=%q)", tc.raw)
	}
}

func TestReconcile_ProcessingToCancelled(t *testing.T) {
	in := input(domain.PaymentProcessing, domain.BookingPending, verification("cancelled"))

	out := domain.Reconcile(in)

	assert.Equal(t, domain.PaymentCancelled, out.PaymentStatus)
	assert.Equal(t, domain.BookingPending, out.BookingStatus)
	assert.Empty(t, out.Events)
}
