package main

import "errors"

// Error taxonomy. Every failure an operation can produce wraps exactly one
// of these sentinels; all are terminal for the current operation and leave
// ledger state unchanged (the peer discards the write set of a failed tx).
var (
	// ErrNotInitialized: ReadSystemParams before InitializeSystem.
	ErrNotInitialized = errors.New("system parameters not initialized")

	// ErrNotFound: a keyed record (policy vector, comparison vector) is
	// absent. A recoverable condition the caller interprets, not a fault.
	ErrNotFound = errors.New("record not found")

	// ErrNoAttributes: the user's hidden-attribute set is empty at
	// transform time.
	ErrNoAttributes = errors.New("user has no hidden attributes")

	// ErrDimensionMismatch: |S| != |P| at decision time. Always a caller
	// or data-integrity error, never tolerated silently.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrDuplicateKey: caller-level misuse of a unique key, e.g. replaying
	// a transaction id into the append-only access trail.
	ErrDuplicateKey = errors.New("duplicate key")
)
