package services

import (
	"errors"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/domain"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
)

// mapGatewayError converts a gateway client failure into a service error.
// Auth failures are an operator problem, not a client one, so they surface
// as internal rather than leaking credential state to API consumers.
func mapGatewayError(err error) *application.ServiceError {
	gwErr, ok := chapa.IsGatewayError(err)
	if !ok {
		return application.NewInternalError(err)
	}

	switch gwErr.Kind {
	case chapa.KindUnreachable:
		return application.NewGatewayUnavailableError(err)
	case chapa.KindUnauthorized:
		return application.NewInternalError(err)
	case chapa.KindInvalidRequest, chapa.KindMalformedResponse:
		return application.NewGatewayRejectedError(err)
	default:
		return application.NewInternalError(err)
	}
}

// mapRepositoryError converts persistence sentinels into service errors.
func mapRepositoryError(err error) *application.ServiceError {
	switch {
	case errors.Is(err, postgres.ErrPaymentNotFound):
		return application.NewNotFoundError("Payment", err)
	case errors.Is(err, postgres.ErrBookingNotFound):
		return application.NewNotFoundError("Booking", err)
	case errors.Is(err, postgres.ErrListingNotFound):
		return application.NewNotFoundError("Listing", err)
	case errors.Is(err, postgres.ErrReviewNotFound):
		return application.NewNotFoundError("Review", err)
	case errors.Is(err, postgres.ErrUserNotFound):
		return application.NewNotFoundError("User", err)
	case errors.Is(err, postgres.ErrDuplicateReview):
		return application.NewDuplicateError("You have already reviewed this listing", err)
	case errors.Is(err, postgres.ErrDuplicateUser):
		return application.NewDuplicateError("Email or username already taken", err)
	case errors.Is(err, postgres.ErrStaleStatus):
		return application.NewConflictError(err)
	default:
		return application.NewInternalError(err)
	}
}

// mapDomainError converts domain validation failures into service errors.
func mapDomainError(err error) *application.ServiceError {
	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		if domErr.Code == domain.ErrCodeInvalidTransition {
			return application.NewInvalidStateError(err)
		}
		return application.NewInvalidInputError(err)
	}
	return application.NewInvalidInputError(err)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
