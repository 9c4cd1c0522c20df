package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/reconciler"
	"github.com/iho/earnledger/internal/usecase"
)

type walletServiceStub struct {
	bindFn    func(ctx context.Context, accountID, walletID string) error
	refreshFn func(ctx context.Context, accountID string) (*usecase.WalletView, error)
	walletFn  func(accountID string) (*usecase.WalletView, error)
	applyFn   func(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error)
}

func (s *walletServiceStub) Bind(ctx context.Context, accountID, walletID string) error {
	return s.bindFn(ctx, accountID, walletID)
}

func (s *walletServiceStub) Refresh(ctx context.Context, accountID string) (*usecase.WalletView, error) {
	return s.refreshFn(ctx, accountID)
}

func (s *walletServiceStub) Wallet(accountID string) (*usecase.WalletView, error) {
	return s.walletFn(accountID)
}

func (s *walletServiceStub) ApplyPayload(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error) {
	return s.applyFn(ctx, walletID, payload)
}

type reportServiceStub struct {
	report *usecase.ReconciliationReport
	err    error
}

func (s reportServiceStub) GenerateReconciliationReport(context.Context, string) (*usecase.ReconciliationReport, error) {
	return s.report, s.err
}

type bindingStoreStub map[string]string

func (s bindingStoreStub) Save(_ context.Context, accountID, walletID string) error {
	s[accountID] = walletID
	return nil
}

func newSessionRouter(h *SessionHandler) http.Handler {
	r := chi.NewRouter()
	r.Put("/sessions/{accountId}", h.Bind)
	r.Post("/sessions/{accountId}/refresh", h.Refresh)
	r.Get("/sessions/{accountId}/wallet", h.Wallet)
	r.Get("/sessions/{accountId}/report", h.Report)
	return r
}

func TestSessionHandler_BindAndRefresh(t *testing.T) {
	bindings := bindingStoreStub{}
	var bound, refreshed string
	wallets := &walletServiceStub{
		bindFn: func(ctx context.Context, accountID, walletID string) error {
			bound = accountID + "->" + walletID
			return nil
		},
		refreshFn: func(ctx context.Context, accountID string) (*usecase.WalletView, error) {
			refreshed = accountID
			return &usecase.WalletView{AccountID: accountID, WalletID: "w-1", Snapshot: &domain.WalletSnapshot{ID: "w-1"}}, nil
		},
	}
	router := newSessionRouter(NewSessionHandler(wallets, reportServiceStub{}, bindings))

	req := httptest.NewRequest(http.MethodPut, "/sessions/acc-1", bytes.NewBufferString(`{"wallet_id":"w-1","refresh":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if bound != "acc-1->w-1" || refreshed != "acc-1" || bindings["acc-1"] != "w-1" {
		t.Fatalf("unexpected calls: bound=%q refreshed=%q bindings=%v", bound, refreshed, bindings)
	}

	var view usecase.WalletView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if view.Snapshot == nil || view.Snapshot.ID != "w-1" {
		t.Fatalf("unexpected view: %#v", view)
	}
}

func TestSessionHandler_BindRejectsEmptyWallet(t *testing.T) {
	wallets := &walletServiceStub{
		bindFn: func(ctx context.Context, accountID, walletID string) error { return domain.ErrEmptyWalletID },
	}
	router := newSessionRouter(NewSessionHandler(wallets, reportServiceStub{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/sessions/acc-1", bytes.NewBufferString(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionHandler_RefreshErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unknown session", domain.ErrSessionNotFound, http.StatusNotFound},
		{"upstream failure", errors.New("connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallets := &walletServiceStub{
				refreshFn: func(ctx context.Context, accountID string) (*usecase.WalletView, error) { return nil, tt.err },
			}
			router := newSessionRouter(NewSessionHandler(wallets, reportServiceStub{}, nil))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/acc-1/refresh", nil))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestSessionHandler_WalletAndReport(t *testing.T) {
	wallets := &walletServiceStub{
		walletFn: func(accountID string) (*usecase.WalletView, error) {
			return &usecase.WalletView{AccountID: accountID, WalletID: "w-1"}, nil
		},
	}
	reports := reportServiceStub{err: domain.ErrWalletNotLoaded}
	router := newSessionRouter(NewSessionHandler(wallets, reports, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/acc-1/wallet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/acc-1/report", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before the wallet is loaded, got %d", rec.Code)
	}
}

func TestNotificationHandler_Apply(t *testing.T) {
	tests := []struct {
		name        string
		outcome     reconciler.Outcome
		err         error
		expected    int
		wantApplied bool
	}{
		{"applied", reconciler.Outcome{Applied: true, Kind: domain.ObjectKindWallet}, nil, http.StatusOK, true},
		{"dropped", reconciler.Outcome{Kind: domain.ObjectKindTransfer, Reason: reconciler.ReasonNoKey}, nil, http.StatusOK, false},
		{"unknown wallet", reconciler.Outcome{}, domain.ErrSessionNotFound, http.StatusNotFound, false},
		{"malformed", reconciler.Outcome{}, domain.ErrMalformedEvent, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotWallet, gotPayload string
			h := NewNotificationHandler(&walletServiceStub{
				applyFn: func(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error) {
					gotWallet, gotPayload = walletID, string(payload)
					return tt.outcome, tt.err
				},
			})
			r := chi.NewRouter()
			r.Post("/wallets/{walletId}/notifications", h.Apply)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/wallets/w-1/notifications", bytes.NewBufferString(`{"objectKind":"wallet"}`)))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
			if gotWallet != "w-1" || gotPayload != `{"objectKind":"wallet"}` {
				t.Fatalf("unexpected forwarded call: wallet=%q payload=%q", gotWallet, gotPayload)
			}
			if tt.err == nil {
				var resp struct {
					Applied bool `json:"applied"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if resp.Applied != tt.wantApplied {
					t.Fatalf("expected applied=%v", tt.wantApplied)
				}
			}
		})
	}
}
