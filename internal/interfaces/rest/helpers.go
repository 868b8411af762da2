// Package rest carries the HTTP wire types shared by handlers and
// middleware.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/google/uuid"
)

type Listing struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PricePerNight string  `json:"price_per_night"`
	MaxGuests     int     `json:"max_guests"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	Amenities     string  `json:"amenities"`
	Availability  bool    `json:"availability"`
	AverageRating float64 `json:"average_rating,omitempty"`
	ReviewCount   int     `json:"review_count,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type Booking struct {
	ID              int64  `json:"id"`
	ListingID       int64  `json:"listing_id"`
	UserID          int64  `json:"user_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	NumGuests       int    `json:"num_guests"`
	TotalPrice      string `json:"total_price"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type Payment struct {
	ID               uuid.UUID `json:"id"`
	BookingID        int64     `json:"booking_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	Method           string    `json:"method"`
	Status           string    `json:"status"`
	TxRef            string    `json:"tx_ref"`
	CheckoutURL      string    `json:"checkout_url,omitempty"`
	GatewayTxID      string    `json:"gateway_tx_id,omitempty"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	FailureReason    string    `json:"failure_reason,omitempty"`
	PaidAt           string    `json:"paid_at,omitempty"`
	CreatedAt        string    `json:"created_at"`
}

type Review struct {
	ID        int64  `json:"id"`
	ListingID int64  `json:"listing_id"`
	UserID    int64  `json:"user_id"`
	BookingID *int64 `json:"booking_id,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func ToAPIListing(l *domain.Listing) Listing {
	return Listing{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight.StringFixed(2),
		MaxGuests:     l.MaxGuests,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		Amenities:     l.Amenities,
		Availability:  l.Availability,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}

func ToAPIListingDetail(d *services.ListingDetail) Listing {
	apiListing := ToAPIListing(d.Listing)
	apiListing.AverageRating = d.AverageRating
	apiListing.ReviewCount = d.ReviewCount
	return apiListing
}

func ToAPIBooking(b *domain.Booking) Booking {
	return Booking{
		ID:              b.ID,
		ListingID:       b.ListingID,
		UserID:          b.UserID,
		CheckInDate:     b.CheckInDate.Format("2006-01-02"),
		CheckOutDate:    b.CheckOutDate.Format("2006-01-02"),
		NumGuests:       b.NumGuests,
		TotalPrice:      b.TotalPrice.StringFixed(2),
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func ToAPIPayment(p *domain.Payment) Payment {
	apiPayment := Payment{
		ID:        p.ID,
		BookingID: p.BookingID,
		Amount:    p.Amount.StringFixed(2),
		Currency:  p.Currency,
		Method:    string(p.Method),
		Status:    string(p.Status),
		TxRef:     p.TxRef,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}

	if p.CheckoutURL != nil {
		apiPayment.CheckoutURL = *p.CheckoutURL
	}
	if p.GatewayTxID != nil {
		apiPayment.GatewayTxID = *p.GatewayTxID
	}
	if p.PaymentReference != nil {
		apiPayment.PaymentReference = *p.PaymentReference
	}
	if p.FailureReason != nil {
		apiPayment.FailureReason = *p.FailureReason
	}
	if p.PaidAt != nil {
		apiPayment.PaidAt = p.PaidAt.Format(time.RFC3339)
	}

	return apiPayment
}

func ToAPIReview(r *domain.Review) Review {
	return Review{
		ID:        r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		BookingID: r.BookingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// WriteJSON writes a success envelope.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}
