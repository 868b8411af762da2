package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest"
)

type createBookingRequest struct {
	ListingID       int64  `json:"listing_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	NumGuests       int    `json:"num_guests"`
	SpecialRequests string `json:"special_requests"`
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckInDate)
	if err != nil {
		writeInvalidInput(w, errors.New("check_in_date must be YYYY-MM-DD"), h.logger)
		return
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOutDate)
	if err != nil {
		writeInvalidInput(w, errors.New("check_out_date must be YYYY-MM-DD"), h.logger)
		return
	}

	booking, err := h.bookingService.Create(r.Context(), services.CreateBookingCommand{
		ListingID:       req.ListingID,
		UserID:          uid,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumGuests:       req.NumGuests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIBooking(booking))
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	booking, err := h.queryService.FindBookingByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if booking.UserID != uid {
		rest.WriteError(w, notFoundBooking(), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIBooking(booking))
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	limit, offset := pageParams(r)
	bookings, err := h.queryService.FindBookingsByUserID(r.Context(), uid, limit, offset)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	apiBookings := make([]rest.Booking, 0, len(bookings))
	for _, b := range bookings {
		apiBookings = append(apiBookings, rest.ToAPIBooking(b))
	}
	rest.WriteJSON(w, http.StatusOK, apiBookings)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	booking, err := h.bookingService.Cancel(r.Context(), id, uid)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIBooking(booking))
}
