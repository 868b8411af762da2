package chapa

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// envelope is the common Chapa response wrapper.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type initializeRequest struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name,omitempty"`
	PhoneNumber   string            `json:"phone_number,omitempty"`
	TxRef         string            `json:"tx_ref"`
	CallbackURL   string            `json:"callback_url,omitempty"`
	ReturnURL     string            `json:"return_url,omitempty"`
	Customization map[string]string `json:"customization,omitempty"`
}

type initializeResponse struct {
	envelope
	Data struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	envelope
	Data struct {
		ID            json.Number      `json:"id"`
		TxRef         string           `json:"tx_ref"`
		Reference     string           `json:"reference"`
		Amount        *decimal.Decimal `json:"amount"`
		Currency      string           `json:"currency"`
		Status        string           `json:"status"`
		FailureReason *string          `json:"failure_reason"`
	} `json:"data"`
}
