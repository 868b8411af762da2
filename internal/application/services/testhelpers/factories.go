package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user with a unique email and username.
func CreateTestUser(t *testing.T, ctx context.Context, repo *postgres.UserRepository) *domain.User {
	suffix := uuid.New().String()[:8]
	user := &domain.User{
		Email:     "guest-" + suffix + "@example.com",
		Username:  "guest-" + suffix,
		FirstName: "Test",
		LastName:  "Guest",
	}
	require.NoError(t, repo.Create(ctx, user))
	return user
}

// CreateTestListing inserts an active, available listing priced at 150 per
// night with room for 4 guests.
func CreateTestListing(t *testing.T, ctx context.Context, repo *postgres.ListingRepository, hostID int64) *domain.Listing {
	now := time.Now()
	listing := &domain.Listing{
		Title:         "Test Villa " + uuid.New().String()[:8],
		Description:   "A villa for tests",
		Location:      "Bahir Dar",
		PricePerNight: decimal.RequireFromString("150.00"),
		MaxGuests:     4,
		Bedrooms:      2,
		Bathrooms:     1,
		Amenities:     "wifi",
		Availability:  true,
		IsActive:      true,
		CreatedBy:     hostID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, listing))
	return listing
}

// CreateTestBooking inserts a pending 3-night booking, priced 450.00 against
// the factory listing rate.
func CreateTestBooking(t *testing.T, ctx context.Context, repo *postgres.BookingRepository, listing *domain.Listing, userID int64) *domain.Booking {
	checkIn := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	booking, err := domain.NewBooking(listing, userID, checkIn, checkIn.AddDate(0, 0, 3), 2, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, booking))
	return booking
}

// CreateProcessingPayment inserts a payment that has been initiated with the
// gateway and awaits verification.
func CreateProcessingPayment(t *testing.T, ctx context.Context, repo *postgres.PaymentRepository, booking *domain.Booking) *domain.Payment {
	payment, err := domain.NewPayment(booking.ID, booking.UserID, booking.TotalPrice, "ETB", domain.MethodChapa)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, payment))

	require.NoError(t, payment.MarkProcessing("https://checkout.chapa.co/"+payment.TxRef))
	require.NoError(t, repo.MarkProcessing(ctx, payment))
	return payment
}

// SuccessVerification mimics a settled gateway response matching the stored
// amount.
func SuccessVerification(amount decimal.Decimal) *domain.VerificationResult {
	return &domain.VerificationResult{
		RawStatus:   "success",
		Amount:      &amount,
		Currency:    "ETB",
		GatewayTxID: "12345",
		Reference:   "chapa-ref-001",
	}
}

// FailedVerification mimics a declined gateway response.
func FailedVerification(reason string) *domain.VerificationResult {
	v := &domain.VerificationResult{
		RawStatus: "failed",
		Currency:  "ETB",
	}
	if reason != "" {
		v.FailureReason = &reason
	}
	return v
}
