// Package common contains shared constants and sentinel errors used across
// the HomeCloud client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Auth errors.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Validation errors.
	ErrEmptyMessage  = errors.New("message is empty")
	ErrEmptyFilename = errors.New("filename is empty")

	// A second download or delete may not start while one is pending.
	ErrTransferInFlight = errors.New("another transfer is in progress")
)
