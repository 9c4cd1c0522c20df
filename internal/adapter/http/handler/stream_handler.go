package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/infrastructure/eventpublisher"
	"github.com/iho/earnledger/internal/usecase"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChangeSource hands out change subscriptions.
type ChangeSource interface {
	Subscribe(accountID string) *eventpublisher.Subscription
	Unsubscribe(sub *eventpublisher.Subscription)
}

// WalletReader returns a session's current state.
type WalletReader interface {
	Wallet(accountID string) (*usecase.WalletView, error)
}

// StreamMessage is one frame sent to stream clients.
type StreamMessage struct {
	Type   string              `json:"type"`
	Event  *domain.ChangeEvent `json:"event,omitempty"`
	Wallet *usecase.WalletView `json:"wallet,omitempty"`
}

// StreamHandler pushes reconciled wallet state to websocket clients.
type StreamHandler struct {
	changes ChangeSource
	wallets WalletReader
	onCount func(delta float64)
	logger  zerolog.Logger
}

// NewStreamHandler creates a new StreamHandler. onCount, when set, is told
// about connects (+1) and disconnects (-1).
func NewStreamHandler(changes ChangeSource, wallets WalletReader, onCount func(delta float64), logger zerolog.Logger) *StreamHandler {
	if onCount == nil {
		onCount = func(float64) {}
	}
	return &StreamHandler{
		changes: changes,
		wallets: wallets,
		onCount: onCount,
		logger:  logger.With().Str("component", "stream").Logger(),
	}
}

// Stream upgrades the connection and forwards every change of the account
// given by ?account_id= along with the wallet state after the change. The
// first frame is the current state.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.onCount(1)
	defer h.onCount(-1)

	sub := h.changes.Subscribe(accountID)
	defer h.changes.Unsubscribe(sub)

	h.logger.Debug().Str("account_id", accountID).Str("remote_addr", r.RemoteAddr).Msg("stream client connected")

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	if err := h.send(conn, StreamMessage{Type: "snapshot", Wallet: h.view(accountID)}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			h.logger.Debug().Str("account_id", accountID).Msg("stream client disconnected")
			return
		case ev := <-sub.C:
			if err := h.send(conn, StreamMessage{Type: ev.Kind, Event: &ev, Wallet: h.view(accountID)}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *StreamHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (h *StreamHandler) view(accountID string) *usecase.WalletView {
	view, err := h.wallets.Wallet(accountID)
	if err != nil {
		return nil
	}
	return view
}
