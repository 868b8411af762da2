package services

import (
	"context"
	"log/slog"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

type BookingService struct {
	bookingRepo *postgres.BookingRepository
	listingRepo *postgres.ListingRepository
	notifier    application.Notifier
	logger      *slog.Logger
}

func NewBookingService(
	bookingRepo *postgres.BookingRepository,
	listingRepo *postgres.ListingRepository,
	notifier application.Notifier,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create validates the stay, prices it against the listing and stores the
// booking as pending. Payment happens in a separate initiation step.
func (s *BookingService) Create(ctx context.Context, cmd CreateBookingCommand) (*domain.Booking, error) {
	listing, err := s.listingRepo.FindByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	booking, err := domain.NewBooking(listing, cmd.UserID, cmd.CheckInDate, cmd.CheckOutDate, cmd.NumGuests, cmd.SpecialRequests)
	if err != nil {
		return nil, mapDomainError(err)
	}

	taken, err := s.bookingRepo.HasOverlapping(ctx, listing.ID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if taken {
		return nil, application.NewInvalidInputError(domain.ErrListingUnavailable)
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"listing_id", booking.ListingID,
		"user_id", booking.UserID,
		"total_price", booking.TotalPrice,
	)

	if err := s.notifier.Dispatch(domain.Event{
		Kind:      domain.EventBookingAwaitingPayment,
		BookingID: booking.ID,
	}); err != nil {
		s.logger.Warn("notification dropped", "event", domain.EventBookingAwaitingPayment, "booking_id", booking.ID, "error", err)
	}

	return booking, nil
}

// Cancel moves a booking to cancelled on behalf of its owner.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if booking.UserID != userID {
		return nil, application.NewNotFoundError("Booking", postgres.ErrBookingNotFound)
	}

	if err := booking.Cancel(); err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("booking cancelled", "booking_id", booking.ID, "user_id", userID)
	return booking, nil
}
