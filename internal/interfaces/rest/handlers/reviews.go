package handlers

import (
	"net/http"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest"
)

type createReviewRequest struct {
	BookingID *int64 `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`

	CleanlinessRating *int `json:"cleanliness_rating"`
	AccuracyRating    *int `json:"accuracy_rating"`
	LocationRating    *int `json:"location_rating"`
	ValueRating       *int `json:"value_rating"`
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	listingID, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	var req createReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	review, err := h.reviewService.Create(r.Context(), services.CreateReviewCommand{
		ListingID:         listingID,
		UserID:            uid,
		BookingID:         req.BookingID,
		Rating:            req.Rating,
		Comment:           req.Comment,
		CleanlinessRating: req.CleanlinessRating,
		AccuracyRating:    req.AccuracyRating,
		LocationRating:    req.LocationRating,
		ValueRating:       req.ValueRating,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIReview(review))
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	limit, offset := pageParams(r)
	reviews, err := h.reviewService.ListForListing(r.Context(), listingID, limit, offset)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	apiReviews := make([]rest.Review, 0, len(reviews))
	for _, rev := range reviews {
		apiReviews = append(apiReviews, rest.ToAPIReview(rev))
	}
	rest.WriteJSON(w, http.StatusOK, apiReviews)
}
