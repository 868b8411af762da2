package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

type ReviewService struct {
	reviewRepo  *postgres.ReviewRepository
	listingRepo *postgres.ListingRepository
	bookingRepo *postgres.BookingRepository
	logger      *slog.Logger
}

func NewReviewService(
	reviewRepo *postgres.ReviewRepository,
	listingRepo *postgres.ListingRepository,
	bookingRepo *postgres.BookingRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create stores a review. When a booking is referenced it must belong to
// the reviewer and target the reviewed listing.
func (s *ReviewService) Create(ctx context.Context, cmd CreateReviewCommand) (*domain.Review, error) {
	if _, err := s.listingRepo.FindByID(ctx, cmd.ListingID); err != nil {
		return nil, mapRepositoryError(err)
	}

	if cmd.BookingID != nil {
		booking, err := s.bookingRepo.FindByID(ctx, *cmd.BookingID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if booking.UserID != cmd.UserID || booking.ListingID != cmd.ListingID {
			return nil, application.NewInvalidInputError(domain.ErrMissingRequiredField)
		}
	}

	now := time.Now()
	review := &domain.Review{
		ListingID:         cmd.ListingID,
		UserID:            cmd.UserID,
		BookingID:         cmd.BookingID,
		Rating:            cmd.Rating,
		Comment:           cmd.Comment,
		CleanlinessRating: cmd.CleanlinessRating,
		AccuracyRating:    cmd.AccuracyRating,
		LocationRating:    cmd.LocationRating,
		ValueRating:       cmd.ValueRating,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := review.Validate(); err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("review created", "review_id", review.ID, "listing_id", review.ListingID, "rating", review.Rating)
	return review, nil
}

func (s *ReviewService) ListForListing(ctx context.Context, listingID int64, limit, offset int) ([]*domain.Review, error) {
	limit, offset = clampPage(limit, offset)
	reviews, err := s.reviewRepo.FindByListingID(ctx, listingID, limit, offset)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return reviews, nil
}
