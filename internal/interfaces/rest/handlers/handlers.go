// Package handlers wires the HTTP surface to the application services.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest"
	"github.com/gorilla/mux"
)

type Handlers struct {
	listingService  *services.ListingService
	bookingService  *services.BookingService
	reviewService   *services.ReviewService
	initiateService *services.InitiatePaymentService
	verifyService   *services.VerifyPaymentService
	queryService    *services.QueryService
	logger          *slog.Logger
}

func NewHandlers(
	listingService *services.ListingService,
	bookingService *services.BookingService,
	reviewService *services.ReviewService,
	initiateService *services.InitiatePaymentService,
	verifyService *services.VerifyPaymentService,
	queryService *services.QueryService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		listingService:  listingService,
		bookingService:  bookingService,
		reviewService:   reviewService,
		initiateService: initiateService,
		verifyService:   verifyService,
		queryService:    queryService,
		logger:          logger,
	}
}

// Register attaches all routes under /api/v1.
func (h *Handlers) Register(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/listings", h.ListListings).Methods(http.MethodGet)
	api.HandleFunc("/listings", h.CreateListing).Methods(http.MethodPost)
	api.HandleFunc("/listings/{id}", h.GetListing).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", h.UpdateListing).Methods(http.MethodPatch)
	api.HandleFunc("/listings/{id}/reviews", h.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}/reviews", h.CreateReview).Methods(http.MethodPost)

	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.ListMyBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/payment", h.GetBookingPayment).Methods(http.MethodGet)

	// Fixed paths before the {id} wildcard so "webhook" is not read as an ID.
	api.HandleFunc("/payments", h.ListMyPayments).Methods(http.MethodGet)
	api.HandleFunc("/payments/initiate", h.InitiatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", h.PaymentWebhook).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}", h.GetPayment).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/status", h.GetPaymentStatus).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/verify", h.VerifyPayment).Methods(http.MethodPost)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID reads the authenticated user from the X-User-ID header. Identity
// is established upstream; this service only consumes it.
func userID(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, errors.New("missing X-User-ID header")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid X-User-ID header")
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func atoiQuery(raw string) (int, error) {
	return strconv.Atoi(raw)
}

func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func writeInvalidInput(w http.ResponseWriter, err error, logger *slog.Logger) {
	rest.WriteError(w, application.NewInvalidInputError(err), logger)
}

// notFoundBooking hides other users' bookings behind a 404.
func notFoundBooking() error {
	return application.NewNotFoundError("Booking", nil)
}
