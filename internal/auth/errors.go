package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrForbidden is returned when a valid user lacks the admin role.
	ErrForbidden = errors.New("auth: admin role required")

	// ErrSessionNotFound is returned for a missing, malformed or revoked session.
	ErrSessionNotFound = errors.New("auth: session not found")

	// ErrSessionExpired is returned when the session token has expired.
	ErrSessionExpired = errors.New("auth: session expired")

	// ErrUserNotFound is returned by user stores.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrUserExists is returned when creating a user whose email is taken.
	ErrUserExists = errors.New("auth: user already exists")
)

// InputError is returned when login input fails validation.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("auth: invalid input: %s", strings.Join(names, ", "))
}
