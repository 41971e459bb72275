package api

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Share rejections. These are distinguishable on purpose: a wrong
	// password must not look like a dead link.
	ErrShareNotFound      = errors.New("share link does not exist or was revoked")
	ErrShareExpired       = errors.New("share link has expired")
	ErrShareExhausted     = errors.New("share link access limit reached")
	ErrSharePasswordWrong = errors.New("wrong share password")
)
