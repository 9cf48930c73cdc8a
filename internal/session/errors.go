package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned when a bearer token fails signature
	// verification or is structurally malformed.
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrTokenExpired is returned when a bearer token's embedded expiry
	// has passed.
	ErrTokenExpired = errors.New("bearer token expired")

	// ErrSessionNotFound is returned when a well-formed bearer token has no
	// matching store entry, including entries evicted after their TTL.
	ErrSessionNotFound = errors.New("session not found")
)

// RefreshError wraps a failed provider credential refresh. The session entry
// is left untouched; the caller must re-authorize from scratch.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("provider credential refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err belongs to the class of errors that should
// surface as 401 Unauthorized. No finer distinction is exposed to callers.
func IsAuthError(err error) bool {
	var refreshErr *RefreshError
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.As(err, &refreshErr)
}
