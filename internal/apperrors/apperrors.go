package apperrors

import "errors"

// Sentinel errors for the failure kinds the services report. Handlers are the
// only place these are translated into HTTP statuses; services wrap them with
// context via fmt.Errorf("...: %w", ...).

// ErrValidation is returned when input is missing or malformed.
var ErrValidation = errors.New("invalid input")

// ErrConflict is returned when a unique key is already taken.
var ErrConflict = errors.New("already exists")

// ErrInvalidCredentials is returned on login failure. It deliberately does not
// distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a session token is missing, malformed,
// expired, or no longer resolves to a user.
var ErrInvalidToken = errors.New("invalid token")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUpstream is returned when the external image API is unavailable or
// returns something unusable.
var ErrUpstream = errors.New("upstream request failed")
