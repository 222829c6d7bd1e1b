package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable covers transport failures, timeouts and non-2xx answers
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedResponse covers empty or unparseable bodies
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// AuthError means no bearer token could be obtained. It aborts the run.
type AuthError struct {
	Attempts int
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("Falha ao obter token de autenticação após %d tentativa(s): %v", e.Attempts, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err carries an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
