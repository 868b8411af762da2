package application

import (
	"context"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/shopspring/decimal"
)

// GatewayClient is the port for the external payment gateway. Verification
// failures mean "indeterminate": callers must not mutate payment state on
// a gateway error.
type GatewayClient interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*domain.VerificationResult, error)
}

// InitializeRequest carries everything the gateway needs to open a checkout
// session for a booking payment.
type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

// InitializeResponse is the gateway's answer to a successful initiation.
type InitializeResponse struct {
	CheckoutURL string
}

// Notifier accepts notification events for best-effort delivery. Dispatch
// must not block the caller; delivery retry lives behind this port.
type Notifier interface {
	Dispatch(event domain.Event) error
}
