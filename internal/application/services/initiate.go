package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

type InitiatePaymentService struct {
	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
	userRepo    *postgres.UserRepository
	listingRepo *postgres.ListingRepository
	gateway     application.GatewayClient
	chapaCfg    config.ChapaConfig
	logger      *slog.Logger
}

func NewInitiatePaymentService(
	paymentRepo *postgres.PaymentRepository,
	bookingRepo *postgres.BookingRepository,
	userRepo *postgres.UserRepository,
	listingRepo *postgres.ListingRepository,
	gateway application.GatewayClient,
	chapaCfg config.ChapaConfig,
	logger *slog.Logger,
) *InitiatePaymentService {
	return &InitiatePaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		gateway:     gateway,
		chapaCfg:    chapaCfg,
		logger:      logger,
	}
}

// Initiate opens a checkout session for a booking. Repeating the call for a
// booking whose payment is still pending or processing returns the existing
// checkout URL instead of opening a second session.
func (s *InitiatePaymentService) Initiate(ctx context.Context, cmd InitiatePaymentCommand) (*domain.Payment, error) {
	booking, err := s.bookingRepo.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if booking.UserID != cmd.UserID {
		return nil, application.NewNotFoundError("Booking", postgres.ErrBookingNotFound)
	}
	if booking.Status == domain.BookingCancelled || booking.Status == domain.BookingCompleted {
		return nil, application.NewInvalidStateError(
			domain.NewInvalidTransitionError(string(booking.Status), "payment"))
	}

	payment, err := s.paymentRepo.FindByBookingID(ctx, cmd.BookingID)
	switch {
	case err == nil:
		if payment.Status == domain.PaymentCompleted {
			return nil, application.NewInvalidStateError(
				domain.NewInvalidTransitionError(string(payment.Status), string(domain.PaymentProcessing)))
		}
		if payment.Status == domain.PaymentProcessing && payment.CheckoutURL != nil {
			return payment, nil
		}
		if payment.Status == domain.PaymentFailed || payment.Status == domain.PaymentCancelled {
			// Retry after a declined attempt gets a fresh reference.
			expected := payment.Status
			if err := payment.ResetForRetry(); err != nil {
				return nil, application.NewInvalidStateError(err)
			}
			if err := s.paymentRepo.ResetForRetry(ctx, payment, expected); err != nil {
				if errors.Is(err, postgres.ErrStaleStatus) {
					return nil, application.NewConflictError(err)
				}
				return nil, application.NewInternalError(err)
			}
		}
	case errors.Is(err, postgres.ErrPaymentNotFound):
		payment, err = domain.NewPayment(booking.ID, booking.UserID, booking.TotalPrice, "", domain.MethodChapa)
		if err != nil {
			return nil, mapDomainError(err)
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			if postgres.IsUniqueViolation(err) {
				// Lost a creation race; the other caller's payment wins.
				payment, err = s.paymentRepo.FindByBookingID(ctx, cmd.BookingID)
				if err != nil {
					return nil, mapRepositoryError(err)
				}
			} else {
				return nil, application.NewInternalError(err)
			}
		}
	default:
		return nil, mapRepositoryError(err)
	}

	user, err := s.userRepo.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	listing, err := s.listingRepo.FindByID(ctx, booking.ListingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	returnURL := cmd.ReturnURL
	if returnURL == "" {
		returnURL = s.chapaCfg.ReturnURL
	}

	resp, err := s.gateway.Initialize(ctx, application.InitializeRequest{
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		TxRef:       payment.TxRef,
		CallbackURL: s.chapaCfg.CallbackURL,
		ReturnURL:   returnURL,
		Title:       "Booking Payment",
		Description: fmt.Sprintf("Payment for %s, %d night stay", listing.Title, booking.DurationDays()),
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}

	if err := payment.MarkProcessing(resp.CheckoutURL); err != nil {
		return nil, application.NewInvalidStateError(err)
	}
	if err := s.paymentRepo.MarkProcessing(ctx, payment); err != nil {
		if errors.Is(err, postgres.ErrStaleStatus) {
			return nil, application.NewConflictError(err)
		}
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("payment initiated",
		"payment_id", payment.ID,
		"booking_id", booking.ID,
		"tx_ref", payment.TxRef,
		"amount", payment.Amount,
	)

	return payment, nil
}
