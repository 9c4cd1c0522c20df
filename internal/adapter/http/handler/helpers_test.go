package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/earnledger/internal/adapter/http/dto"
	"github.com/iho/earnledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"same symbol", domain.ErrSameSymbol, http.StatusBadRequest},
		{"malformed event", fmt.Errorf("%w: bad", domain.ErrMalformedEvent), http.StatusBadRequest},
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound},
		{"wallet not found", fmt.Errorf("refresh: %w", domain.ErrWalletNotFound), http.StatusNotFound},
		{"wallet not loaded", domain.ErrWalletNotLoaded, http.StatusConflict},
		{"malformed snapshot", domain.ErrMalformedSnapshot, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "invalid request body", "unexpected EOF")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Error != "invalid request body" || resp.Message != "unexpected EOF" {
		t.Fatalf("unexpected error body: %#v", resp)
	}
}
