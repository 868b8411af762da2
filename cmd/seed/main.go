// Command seed populates the database with sample users and listings for
// local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	listingRepo := postgres.NewListingRepository(db)

	users := []*domain.User{
		{Email: "host@example.com", Username: "host", FirstName: "Hana", LastName: "Tesfaye"},
		{Email: "guest@example.com", Username: "guest", FirstName: "Dawit", LastName: "Bekele"},
	}
	for _, u := range users {
		if err := userRepo.Create(ctx, u); err != nil {
			if err == postgres.ErrDuplicateUser {
				existing, findErr := userRepo.FindByEmail(ctx, u.Email)
				if findErr != nil {
					logger.Error("failed to load existing user", "email", u.Email, "error", findErr)
					os.Exit(1)
				}
				u.ID = existing.ID
				continue
			}
			logger.Error("failed to seed user", "email", u.Email, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded user", "user_id", u.ID, "email", u.Email)
	}

	host := users[0]
	now := time.Now()
	listings := []*domain.Listing{
		{
			Title:         "Lakeside Villa in Bahir Dar",
			Description:   "Spacious villa overlooking Lake Tana with a private garden.",
			Location:      "Bahir Dar",
			PricePerNight: decimal.RequireFromString("150.00"),
			MaxGuests:     6,
			Bedrooms:      3,
			Bathrooms:     2,
			Amenities:     "wifi,parking,kitchen,lake view",
			Availability:  true,
			IsActive:      true,
			CreatedBy:     host.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			Title:         "Modern Apartment in Addis Ababa",
			Description:   "Bright two bedroom apartment near Bole, walking distance to cafes.",
			Location:      "Addis Ababa",
			PricePerNight: decimal.RequireFromString("85.50"),
			MaxGuests:     4,
			Bedrooms:      2,
			Bathrooms:     1,
			Amenities:     "wifi,elevator,workspace",
			Availability:  true,
			IsActive:      true,
			CreatedBy:     host.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			Title:         "Stone Lodge in Lalibela",
			Description:   "Traditional lodge minutes from the rock-hewn churches.",
			Location:      "Lalibela",
			PricePerNight: decimal.RequireFromString("60.00"),
			MaxGuests:     2,
			Bedrooms:      1,
			Bathrooms:     1,
			Amenities:     "breakfast,guided tours",
			Availability:  true,
			IsActive:      true,
			CreatedBy:     host.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	for _, l := range listings {
		if err := l.Validate(); err != nil {
			logger.Error("invalid seed listing", "title", l.Title, "error", err)
			os.Exit(1)
		}
		if err := listingRepo.Create(ctx, l); err != nil {
			logger.Error("failed to seed listing", "title", l.Title, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded listing", "listing_id", l.ID, "title", l.Title)
	}

	logger.Info("seeding complete", "users", len(users), "listings", len(listings))
}
