package services

import (
	"context"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

// QueryService serves read paths that need no orchestration.
type QueryService struct {
	paymentRepo *postgres.PaymentRepository
	bookingRepo *postgres.BookingRepository
}

func NewQueryService(
	paymentRepo *postgres.PaymentRepository,
	bookingRepo *postgres.BookingRepository,
) *QueryService {
	return &QueryService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *QueryService) FindPaymentByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return payment, nil
}

func (s *QueryService) FindPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return payment, nil
}

func (s *QueryService) FindPaymentsByUserID(ctx context.Context, userID int64, limit, offset int) ([]*domain.Payment, error) {
	limit, offset = clampPage(limit, offset)
	payments, err := s.paymentRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return payments, nil
}

func (s *QueryService) FindBookingByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return booking, nil
}

func (s *QueryService) FindBookingsByUserID(ctx context.Context, userID int64, limit, offset int) ([]*domain.Booking, error) {
	limit, offset = clampPage(limit, offset)
	bookings, err := s.bookingRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return bookings, nil
}
