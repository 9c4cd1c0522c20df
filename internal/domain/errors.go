package domain

import "errors"

var (
	// Request errors
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrEmptyPoolID     = errors.New("pool id is required")
	ErrEmptyAccountID  = errors.New("account id is required")
	ErrEmptySymbol     = errors.New("symbol is required")
	ErrSameSymbol      = errors.New("cannot exchange a symbol for itself")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrEmptyWalletID   = errors.New("wallet id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrWalletNotLoaded = errors.New("wallet snapshot not loaded")

	// Notification errors
	ErrUnknownObjectKind = errors.New("unknown notification object kind")
	ErrMalformedEvent    = errors.New("malformed notification event")

	// Snapshot errors
	ErrMalformedSnapshot = errors.New("malformed wallet snapshot")
	ErrWalletNotFound    = errors.New("wallet not found")
)
