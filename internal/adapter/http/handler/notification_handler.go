package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/earnledger/internal/adapter/http/dto"
	"github.com/iho/earnledger/internal/reconciler"
)

// NotificationService applies raw notification payloads.
type NotificationService interface {
	ApplyPayload(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error)
}

// NotificationHandler accepts wallet notifications over HTTP, as an
// alternative to the Redis push channel.
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Apply merges one notification into the wallet's snapshot. Events that
// decode but cannot be routed or keyed, including unknown object kinds,
// return 200 with applied=false and the drop reason. Undecodable payloads
// are 400 and unbound wallets 404.
func (h *NotificationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	out, err := h.notifications.ApplyPayload(r.Context(), chi.URLParam(r, "walletId"), payload)
	if err != nil {
		writeError(w, mapDomainError(err), "notification rejected", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OutcomeFromReconciler(out))
}
