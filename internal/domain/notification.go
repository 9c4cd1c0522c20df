package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ObjectKind routes a notification to its reconciliation path.
type ObjectKind string

const (
	ObjectKindWallet          ObjectKind = "wallet"
	ObjectKindTransfer        ObjectKind = "transfer"
	ObjectKindContractBalance ObjectKind = "contract-balance"
)

// TokenDescriptor is the nested token object carried by transfer and
// contract-balance notifications.
type TokenDescriptor struct {
	Address *string `json:"address"`
	Name    *string `json:"name"`
	Symbol  *string `json:"symbol"`
}

// WalletFields are the top-level wallet attributes a notification may set.
// A nil field was not mentioned and must be left untouched.
type WalletFields struct {
	Status    *string    `json:"status"`
	Name      *string    `json:"name"`
	Address   *string    `json:"address"`
	Network   *string    `json:"network"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// TransferFields are the transaction attributes a notification may set.
// Type and Status stay raw so unknown values can fall back to a baseline.
type TransferFields struct {
	Hash      *string          `json:"hash"`
	Type      *string          `json:"type"`
	Status    *string          `json:"status"`
	Amount    *decimal.Decimal `json:"amount"`
	Fee       *decimal.Decimal `json:"fee"`
	Address   *string          `json:"address"`
	Name      *string          `json:"name"`
	Symbol    *string          `json:"symbol"`
	Timestamp *time.Time       `json:"timestamp"`
	Token     *TokenDescriptor `json:"token"`
}

// ContractBalanceFields are the balance-entry attributes a notification may set.
type ContractBalanceFields struct {
	Amount *decimal.Decimal `json:"amount"`
	Symbol *string          `json:"symbol"`
	Name   *string          `json:"name"`
	Token  *TokenDescriptor `json:"token"`
}

// TokenAddress returns the address named by the nested token, if any.
func (f *ContractBalanceFields) TokenAddress() string {
	if f == nil || f.Token == nil || f.Token.Address == nil {
		return ""
	}
	return strings.TrimSpace(*f.Token.Address)
}

// NotificationEvent is a partial-update push message. Exactly one of the
// field groups is set, matching Kind.
type NotificationEvent struct {
	Kind            ObjectKind
	ObjectID        string
	Wallet          *WalletFields
	Transfer        *TransferFields
	ContractBalance *ContractBalanceFields
}

type notificationEnvelope struct {
	ObjectKind string          `json:"objectKind"`
	ObjectID   json.RawMessage `json:"objectId"`
	Fields     json.RawMessage `json:"fields"`
}

// ParseNotification decodes and validates a push message. Unknown keys
// inside fields are ignored; wrongly typed known keys are rejected. Once the
// envelope decodes, the returned event carries its raw Kind and ObjectID even
// when err is non-nil.
func ParseNotification(data []byte) (NotificationEvent, error) {
	var env notificationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return NotificationEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	objectID, err := parseObjectID(env.ObjectID)
	if err != nil {
		return NotificationEvent{Kind: ObjectKind(env.ObjectKind)}, err
	}

	fields := env.Fields
	if len(bytes.TrimSpace(fields)) == 0 || bytes.Equal(bytes.TrimSpace(fields), []byte("null")) {
		fields = []byte("{}")
	}

	ev := NotificationEvent{Kind: ObjectKind(env.ObjectKind), ObjectID: objectID}

	switch ev.Kind {
	case ObjectKindWallet:
		ev.Wallet = &WalletFields{}
		err = json.Unmarshal(fields, ev.Wallet)
	case ObjectKindTransfer:
		ev.Transfer = &TransferFields{}
		err = json.Unmarshal(fields, ev.Transfer)
	case ObjectKindContractBalance:
		ev.ContractBalance = &ContractBalanceFields{}
		err = json.Unmarshal(fields, ev.ContractBalance)
	default:
		return ev, fmt.Errorf("%w: %q", ErrUnknownObjectKind, env.ObjectKind)
	}
	if err != nil {
		return NotificationEvent{Kind: ev.Kind, ObjectID: objectID}, fmt.Errorf("%w: %s fields: %v", ErrMalformedEvent, ev.Kind, err)
	}

	return ev, nil
}

// parseObjectID accepts a JSON string or number.
func parseObjectID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("%w: objectId must be a string or number", ErrMalformedEvent)
}
