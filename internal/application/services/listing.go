package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

type ListingService struct {
	listingRepo *postgres.ListingRepository
	reviewRepo  *postgres.ReviewRepository
	logger      *slog.Logger
}

func NewListingService(
	listingRepo *postgres.ListingRepository,
	reviewRepo *postgres.ReviewRepository,
	logger *slog.Logger,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// ListingDetail combines a listing with its review summary.
type ListingDetail struct {
	Listing       *domain.Listing
	AverageRating float64
	ReviewCount   int
}

func (s *ListingService) Create(ctx context.Context, cmd CreateListingCommand) (*domain.Listing, error) {
	now := time.Now()
	listing := &domain.Listing{
		Title:         cmd.Title,
		Description:   cmd.Description,
		Location:      cmd.Location,
		PricePerNight: cmd.PricePerNight,
		MaxGuests:     cmd.MaxGuests,
		Bedrooms:      cmd.Bedrooms,
		Bathrooms:     cmd.Bathrooms,
		Amenities:     cmd.Amenities,
		Availability:  true,
		IsActive:      true,
		CreatedBy:     cmd.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := listing.Validate(); err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("listing created", "listing_id", listing.ID, "created_by", listing.CreatedBy)
	return listing, nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (*ListingDetail, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	avg, count, err := s.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	return &ListingDetail{
		Listing:       listing,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

func (s *ListingService) List(ctx context.Context, filter postgres.ListingFilter) ([]*domain.Listing, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	listings, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return listings, nil
}

// Update applies partial changes. Only the host who created the listing may
// change it.
func (s *ListingService) Update(ctx context.Context, userID int64, cmd UpdateListingCommand) (*domain.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if listing.CreatedBy != userID {
		return nil, application.NewNotFoundError("Listing", postgres.ErrListingNotFound)
	}

	if cmd.Title != nil {
		listing.Title = *cmd.Title
	}
	if cmd.Description != nil {
		listing.Description = *cmd.Description
	}
	if cmd.Location != nil {
		listing.Location = *cmd.Location
	}
	if cmd.PricePerNight != nil {
		listing.PricePerNight = *cmd.PricePerNight
	}
	if cmd.MaxGuests != nil {
		listing.MaxGuests = *cmd.MaxGuests
	}
	if cmd.Bedrooms != nil {
		listing.Bedrooms = *cmd.Bedrooms
	}
	if cmd.Bathrooms != nil {
		listing.Bathrooms = *cmd.Bathrooms
	}
	if cmd.Amenities != nil {
		listing.Amenities = *cmd.Amenities
	}
	if cmd.Availability != nil {
		listing.Availability = *cmd.Availability
	}
	if cmd.IsActive != nil {
		listing.IsActive = *cmd.IsActive
	}
	listing.UpdatedAt = time.Now()

	if err := listing.Validate(); err != nil {
		return nil, mapDomainError(err)
	}
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, mapRepositoryError(err)
	}

	return listing, nil
}
