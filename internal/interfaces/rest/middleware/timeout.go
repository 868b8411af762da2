package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"success":false,"error":{"code":"TIMEOUT","message":"The request took too long to process"}}`

// Timeout aborts requests that run past the configured budget, answering
// with the service's JSON error envelope. http.TimeoutHandler also puts the
// deadline on the request context, so downstream database and gateway calls
// are cancelled with it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
