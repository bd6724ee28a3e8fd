// Package common defines shared sentinel errors used across repository,
// service, and HTTP layers. Callers should use errors.Is to match kinds.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("already exists")
	ErrorValidation   = errors.New("validation error")
	ErrorRateLimited  = errors.New("too many requests")

	// Token lifecycle errors. The parse errors come out of the JWT layer;
	// the refresh-slot errors wrap ErrorUnauthorized so callers matching
	// the broad kind still catch them.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrorUnauthorized)
	ErrRefreshTokenUsed    = fmt.Errorf("%w: refresh token is expired or used", ErrorUnauthorized)
)

// Error attaches a human-readable message to a sentinel kind. Error() returns
// only the message; errors.Is still matches the kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// E wraps msg with the given sentinel kind.
func E(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}
