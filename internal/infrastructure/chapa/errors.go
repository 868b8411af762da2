package chapa

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures for retry policy.
type ErrorKind string

const (
	// KindUnauthorized means the secret key was rejected. Never retried.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindInvalidRequest means the gateway rejected the request itself.
	// Never retried; retrying the same payload cannot succeed.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindUnreachable covers transport failures, timeouts and 5xx
	// responses. Retry-eligible with backoff.
	KindUnreachable ErrorKind = "unreachable"
	// KindMalformedResponse means the gateway answered with a body we could
	// not interpret. Logged and surfaced, never swallowed.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// GatewayError is a failure talking to the payment gateway. It is never
// converted into a payment-status transition.
type GatewayError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("chapa error [%s]: %s (status: %d)", e.Kind, e.Message, e.StatusCode)
}

func (e *GatewayError) IsRetryable() bool {
	return e.Kind == KindUnreachable
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
