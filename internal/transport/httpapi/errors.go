package httpapi

import (
	"context"
	"errors"
	"net/http"

	"AdverseScreener/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		fetchErr    *domain.FetchError
		schemaErr   *domain.SchemaValidationError
		providerErr *domain.ProviderError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &fetchErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &schemaErr), errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "error", err)
		msg = "internal error"
	} else {
		h.logger.WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: msg})
}
