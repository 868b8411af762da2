package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
)

// HTTPClient talks to the Chapa REST API. Credentials are injected from
// config; nothing reads them from ambient state.
type HTTPClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.ChapaConfig) application.GatewayClient {
	return &HTTPClient{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPClient) Initialize(ctx context.Context, req application.InitializeRequest) (*application.InitializeResponse, error) {
	body := initializeRequest{
		// Chapa wants the amount as a string.
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
	}
	if req.Title != "" || req.Description != "" {
		body.Customization = map[string]string{}
		if req.Title != "" {
			body.Customization["title"] = req.Title
		}
		if req.Description != "" {
			body.Customization["description"] = req.Description
		}
	}

	url := fmt.Sprintf("%s/transaction/initialize", c.baseURL)
	var resp initializeResponse
	if err := c.send(ctx, http.MethodPost, url, &body, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		return nil, &GatewayError{
			Kind:       KindInvalidRequest,
			Message:    nonEmpty(resp.Message, "payment initialization failed"),
			StatusCode: http.StatusOK,
		}
	}
	if resp.Data.CheckoutURL == "" {
		return nil, &GatewayError{
			Kind:    KindMalformedResponse,
			Message: "initialization response missing checkout_url",
		}
	}

	return &application.InitializeResponse{CheckoutURL: resp.Data.CheckoutURL}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, txRef string) (*domain.VerificationResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, txRef)
	var resp verifyResponse
	if err := c.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		return nil, &GatewayError{
			Kind:       KindInvalidRequest,
			Message:    nonEmpty(resp.Message, "payment verification failed"),
			StatusCode: http.StatusOK,
		}
	}

	return &domain.VerificationResult{
		RawStatus:     resp.Data.Status,
		Amount:        resp.Data.Amount,
		Currency:      resp.Data.Currency,
		GatewayTxID:   resp.Data.ID.String(),
		Reference:     resp.Data.Reference,
		FailureReason: resp.Data.FailureReason,
	}, nil
}

func (c *HTTPClient) send(ctx context.Context, method, url string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &GatewayError{
			Kind:    KindUnreachable,
			Message: fmt.Sprintf("failed to reach payment gateway: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{
			Kind:       KindUnreachable,
			Message:    fmt.Sprintf("failed to read gateway response: %v", err),
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode >= 500 {
		return &GatewayError{
			Kind:       KindUnreachable,
			Message:    fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, string(raw)),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &GatewayError{
			Kind:       KindUnauthorized,
			Message:    gatewayMessage(raw, "secret key rejected"),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode >= 400 {
		return &GatewayError{
			Kind:       KindInvalidRequest,
			Message:    gatewayMessage(raw, "gateway rejected request"),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(raw, respBody); err != nil {
		return &GatewayError{
			Kind:       KindMalformedResponse,
			Message:    fmt.Sprintf("invalid json from gateway: %v", err),
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}

// gatewayMessage pulls the message out of an error envelope, falling back
// when the body isn't parseable.
func gatewayMessage(raw []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
