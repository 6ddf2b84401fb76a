package auth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoSession means the request carries no usable session.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidToken means an access token could not be decoded or verified.
	ErrInvalidToken = errors.New("invalid access token")
)

// ProviderError is a non-success answer from the authentication provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider returned %d: %s", e.Status, e.Message)
}

// Rejected reports whether the provider refused the request itself, as
// opposed to failing internally.
func (e *ProviderError) Rejected() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// IsRejected reports whether err wraps a ProviderError refused by the provider.
func IsRejected(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.Rejected()
}
