// Package api implements the authentication gateway: the client's only view
// of the remote auth backend. It normalizes transport and HTTP failures into
// the sentinel errors in errors.go and performs no retries; retry policy
// belongs to the caller.
package api

import (
	"context"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
)

// Gateway exposes the session-changing operations of the auth backend.
//
// Every call is safe for the caller to retry; the gateway itself never
// retries. Logout is best effort: local teardown proceeds regardless of its
// outcome.
type Gateway interface {
	LoginWithPassword(ctx context.Context, email, password string) (*models.AuthResult, error)
	LoginWithProvider(ctx context.Context, provider models.Provider) (*models.AuthResult, error)
	Register(ctx context.Context, data models.RegisterData) (*models.AuthResult, error)
	Logout(ctx context.Context) error

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error

	// SetToken arms the bearer header for authenticated calls. Session
	// reconciliation uses it to restore a cached token without a network
	// round-trip; an empty string disarms it.
	SetToken(token string)

	Close() error
}

// ProviderAuthorizer obtains a provider assertion (an OAuth code or identity
// token) by driving the platform's social-login prompt. Implementations
// return ErrProviderCancelled when the user dismisses the prompt.
type ProviderAuthorizer interface {
	Authorize(ctx context.Context, provider models.Provider) (string, error)
}
