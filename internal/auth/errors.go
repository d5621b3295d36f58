package auth

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned by an IdentityProvider that rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIdentifierTaken is returned by an IdentityProvider on duplicate registration.
	ErrIdentifierTaken = errors.New("identifier already registered")
	// ErrSessionNotFound is returned by a Registry for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthError reports a rejected login or registration.
type AuthError struct {
	Op  string // "login", "register"
	Err error
}

func (e *AuthError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError maps field names to human readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when it carries at least one problem.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
