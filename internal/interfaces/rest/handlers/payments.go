package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type initiatePaymentRequest struct {
	BookingID int64  `json:"booking_id"`
	ReturnURL string `json:"return_url"`
}

// webhookPayload is the part of the gateway notification this service
// reads. The reported status is only a hint: handling always re-verifies
// against the gateway before touching stored state.
type webhookPayload struct {
	TxRef  string `json:"tx_ref"`
	TrxRef string `json:"trx_ref"`
	Status string `json:"status"`
}

func (p webhookPayload) reference() string {
	if p.TxRef != "" {
		return p.TxRef
	}
	return p.TrxRef
}

func (h *Handlers) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	var req initiatePaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	if req.BookingID < 1 {
		writeInvalidInput(w, errors.New("booking_id is required"), h.logger)
		return
	}

	payment, err := h.initiateService.Initiate(r.Context(), services.InitiatePaymentCommand{
		BookingID: req.BookingID,
		UserID:    uid,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIPayment(payment))
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeInvalidInput(w, errors.New("payment id must be a UUID"), h.logger)
		return
	}

	payment, err := h.queryService.FindPaymentByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if payment.UserID != uid {
		rest.WriteError(w, application.NewNotFoundError("Payment", nil), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIPayment(payment))
}

func (h *Handlers) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	limit, offset := pageParams(r)
	payments, err := h.queryService.FindPaymentsByUserID(r.Context(), uid, limit, offset)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	apiPayments := make([]rest.Payment, 0, len(payments))
	for _, p := range payments {
		apiPayments = append(apiPayments, rest.ToAPIPayment(p))
	}
	rest.WriteJSON(w, http.StatusOK, apiPayments)
}

func (h *Handlers) GetBookingPayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	payment, err := h.queryService.FindPaymentByBookingID(r.Context(), bookingID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if payment.UserID != uid {
		rest.WriteError(w, application.NewNotFoundError("Payment", nil), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIPayment(payment))
}

// GetPaymentStatus returns just the stored status, for clients polling
// after a checkout redirect.
func (h *Handlers) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeInvalidInput(w, errors.New("payment id must be a UUID"), h.logger)
		return
	}

	payment, err := h.queryService.FindPaymentByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if payment.UserID != uid {
		rest.WriteError(w, application.NewNotFoundError("Payment", nil), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"payment_id": payment.ID.String(),
		"status":     string(payment.Status),
		"paid_at":    payment.PaidAt,
	})
}

// VerifyPayment triggers a reconciliation pass for the caller's payment.
// Safe to call any number of times.
func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeInvalidInput(w, errors.New("payment id must be a UUID"), h.logger)
		return
	}

	payment, err := h.queryService.FindPaymentByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	if payment.UserID != uid {
		rest.WriteError(w, application.NewNotFoundError("Payment", nil), h.logger)
		return
	}

	result, err := h.verifyService.VerifyByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"payment": rest.ToAPIPayment(result.Payment),
		"booking": rest.ToAPIBooking(result.Booking),
	})
}

// PaymentWebhook handles gateway callbacks. The gateway retries failed
// deliveries, so the handler is idempotent and answers 200 once the
// reconciliation pass has committed.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	// Gateway payloads carry fields this service does not read, so no
	// strict decoding here.
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	txRef := payload.reference()
	if txRef == "" {
		writeInvalidInput(w, errors.New("tx_ref is required"), h.logger)
		return
	}

	h.logger.Info("webhook received", "tx_ref", txRef, "reported_status", payload.Status)

	result, err := h.verifyService.VerifyByTxRef(r.Context(), txRef)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"status": string(result.Payment.Status),
	})
}
