package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/earnledger/internal/adapter/http/dto"
	"github.com/iho/earnledger/internal/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeBody decodes a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrEmptyPoolID),
		errors.Is(err, domain.ErrEmptyAccountID),
		errors.Is(err, domain.ErrEmptySymbol),
		errors.Is(err, domain.ErrSameSymbol),
		errors.Is(err, domain.ErrEmptyWalletID),
		errors.Is(err, domain.ErrMalformedEvent),
		errors.Is(err, domain.ErrUnknownObjectKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWalletNotLoaded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMalformedSnapshot):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
