package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

// verifyTimeout bounds the gateway verification call. The call happens
// before any row lock is taken so a slow gateway cannot hold up writers.
const verifyTimeout = 30 * time.Second

type VerifyPaymentService struct {
	paymentRepo *postgres.PaymentRepository
	coordinator *postgres.TransactionCoordinator
	gateway     application.GatewayClient
	notifier    application.Notifier
	logger      *slog.Logger
}

func NewVerifyPaymentService(
	paymentRepo *postgres.PaymentRepository,
	coordinator *postgres.TransactionCoordinator,
	gateway application.GatewayClient,
	notifier application.Notifier,
	logger *slog.Logger,
) *VerifyPaymentService {
	return &VerifyPaymentService{
		paymentRepo: paymentRepo,
		coordinator: coordinator,
		gateway:     gateway,
		notifier:    notifier,
		logger:      logger,
	}
}

// VerifyResult reports the state after one verification pass.
type VerifyResult struct {
	Payment *domain.Payment
	Booking *domain.Booking
	Outcome domain.Outcome
}

// VerifyByID verifies a payment against the gateway and reconciles stored
// state with the result.
func (s *VerifyPaymentService) VerifyByID(ctx context.Context, id uuid.UUID) (*VerifyResult, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.verify(ctx, payment)
}

// VerifyByTxRef is the webhook path. The webhook payload is treated as a
// hint only; the authoritative status always comes from a fresh gateway
// verification.
func (s *VerifyPaymentService) VerifyByTxRef(ctx context.Context, txRef string) (*VerifyResult, error) {
	payment, err := s.paymentRepo.FindByTxRef(ctx, txRef)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.verify(ctx, payment)
}

func (s *VerifyPaymentService) verify(ctx context.Context, payment *domain.Payment) (*VerifyResult, error) {
	// Gateway call first, outside the transaction. On gateway error the
	// stored state is left untouched: "could not verify" is not a payment
	// status.
	gwCtx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	verification, err := s.gateway.Verify(gwCtx, payment.TxRef)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	var result VerifyResult
	err = s.coordinator.WithTransaction(ctx, func(ctx context.Context, payments *postgres.PaymentRepository, bookings *postgres.BookingRepository) error {
		// Re-read under lock. A concurrent verification for the same
		// payment blocks here and re-decides against the committed state,
		// so a settlement can only be applied once.
		current, err := payments.FindByIDForUpdate(ctx, payment.ID)
		if err != nil {
			return err
		}

		booking, err := bookings.FindByIDForUpdate(ctx, current.BookingID)
		if err != nil {
			return err
		}

		outcome := domain.Reconcile(domain.ReconcileInput{
			PaymentID:     current.ID,
			BookingID:     booking.ID,
			PaymentStatus: current.Status,
			BookingStatus: booking.Status,
			StoredAmount:  current.Amount,
			Verification:  *verification,
		})
		result.Outcome = outcome

		now := time.Now()
		if outcome.PaymentStatus != current.Status {
			expected := current.Status
			current.Status = outcome.PaymentStatus
			current.UpdatedAt = now

			switch outcome.PaymentStatus {
			case domain.PaymentCompleted:
				current.PaidAt = &now
				current.FailureReason = nil
				if verification.GatewayTxID != "" {
					current.GatewayTxID = &verification.GatewayTxID
				}
				if verification.Reference != "" {
					current.PaymentReference = &verification.Reference
				}
			case domain.PaymentFailed:
				reason := domain.FallbackFailureReason
				if verification.FailureReason != nil && *verification.FailureReason != "" {
					reason = *verification.FailureReason
				}
				current.FailureReason = &reason
			}

			if err := payments.UpdateFromReconciliation(ctx, current, expected); err != nil {
				return err
			}
		}

		if outcome.BookingStatus != booking.Status {
			booking.Status = outcome.BookingStatus
			booking.UpdatedAt = now
			if err := bookings.UpdateStatus(ctx, booking); err != nil {
				return err
			}
		}

		result.Payment = current
		result.Booking = booking
		return nil
	})
	if err != nil {
		if svcErr, ok := application.IsServiceError(err); ok {
			return nil, svcErr
		}
		return nil, mapRepositoryError(err)
	}

	s.reportOutcome(&result, verification.RawStatus)
	return &result, nil
}

// reportOutcome logs anomalies and dispatches notification events after the
// transaction has committed. Delivery is best effort.
func (s *VerifyPaymentService) reportOutcome(result *VerifyResult, rawStatus string) {
	if result.Outcome.UnknownStatus {
		s.logger.Warn("unknown gateway status treated as failed",
			"payment_id", result.Payment.ID,
			"raw_status", rawStatus,
		)
	}

	for _, anomaly := range result.Outcome.Anomalies {
		switch anomaly.Kind {
		case domain.AnomalyAmountMismatch:
			s.logger.Warn("gateway amount differs from stored amount",
				"payment_id", result.Payment.ID,
				"booking_id", anomaly.BookingID,
				"expected", anomaly.Expected,
				"got", anomaly.Got,
			)
		case domain.AnomalyStaleBookingState:
			s.logger.Warn("payment settled for a cancelled booking",
				"payment_id", result.Payment.ID,
				"booking_id", anomaly.BookingID,
			)
		}
	}

	for _, event := range result.Outcome.Events {
		if err := s.notifier.Dispatch(event); err != nil {
			s.logger.Warn("notification dropped",
				"event", event.Kind,
				"payment_id", event.PaymentID,
				"error", err,
			)
		}
	}
}
