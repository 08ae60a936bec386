package api

import "errors"

// Sentinel errors forming the closed taxonomy the gateway translates
// transport and HTTP failures into. Callers match with errors.Is.
var (
	// ErrInvalidCredentials: the server rejected the login/registration input.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountExists: registration with an email that is already taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnavailable: the server could not be reached or failed internally.
	ErrUnavailable = errors.New("server unavailable")

	// ErrTokenExpired: an authenticated call was rejected because the cached
	// token is no longer valid. The session must be torn down locally.
	ErrTokenExpired = errors.New("token expired")

	// ErrProviderCancelled: the user dismissed the social-login prompt.
	// Not a user-facing error; callers treat it as a silent no-op.
	ErrProviderCancelled = errors.New("provider login cancelled")
)
