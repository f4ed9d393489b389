// Package common defines shared constants and sentinel errors used across
// emodiary components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Gateway-level errors, mapped from transport failures and HTTP
	// status codes.
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")

	// Store-level errors.
	ErrMutationInFlight = errors.New("mutation already in flight")
	ErrClosed           = errors.New("store is closed")
)
