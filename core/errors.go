package core

import "errors"

var (
	// ErrNoData signals that the user has no transaction history to
	// analyze. Callers should ask the user to sync accounts first.
	ErrNoData = errors.New("no transaction data to analyze")

	// ErrNotFound signals that a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownType signals an insight type outside the supported set.
	ErrUnknownType = errors.New("unknown insight type")
)
