// Package loginflow implements the two-step login form state machine:
// email entry, then password entry. The flow gates when the session login
// is actually invoked; it lives exactly as long as the screen presenting it
// and is never persisted.
package loginflow

import (
	"context"
	"errors"
	"sync"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/session"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/validation"
)

// Stage identifies the current step of the flow.
type Stage int

const (
	StageEmail Stage = iota
	StagePassword
)

// ErrNotAdvanced flags Submit being called before the email step passed
// validation. This is a programmer error, not a user-facing condition.
var ErrNotAdvanced = errors.New("login flow: submit before email step completed")

// Authenticator is the slice of the session store the flow drives.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// Flow is a single login-form instance. It is safe for use from concurrent
// UI callbacks; double submits while a login is in flight are ignored.
type Flow struct {
	auth Authenticator

	mu         sync.Mutex
	stage      Stage
	email      string
	submitting bool
}

// NewFlow starts a flow at the email step.
func NewFlow(auth Authenticator) *Flow {
	return &Flow{auth: auth, stage: StageEmail}
}

// Stage returns the current step.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Email returns the normalized email captured by Advance, or the empty
// string before the email step has passed.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Advance validates the entered email and, on success, normalizes it and
// moves to the password step. On failure the flow stays at the email step
// and the field-scoped error is returned. No network call is made either
// way.
func (f *Flow) Advance(email string) *validation.FieldError {
	normalized := validation.NormalizeEmail(email)
	if ferr := validation.Email(normalized); ferr != nil {
		return ferr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = normalized
	f.stage = StagePassword
	return nil
}

// Back returns to the email step, preserving the previously entered email.
// It discards nothing and triggers no network call.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stage = StageEmail
}

// Submit validates the password and invokes the session login exactly once
// per press. A submit while a previous one is still in flight is ignored:
// it returns (nil, nil), is not queued, and reaches the session at most
// once. Submitting before Advance succeeded returns ErrNotAdvanced.
func (f *Flow) Submit(ctx context.Context, password string) (*models.User, error) {
	f.mu.Lock()
	if f.stage != StagePassword {
		f.mu.Unlock()
		return nil, ErrNotAdvanced
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, nil
	}
	if password == "" {
		f.mu.Unlock()
		return nil, &validation.FieldError{Field: "password", Message: "Password is required"}
	}
	f.submitting = true
	email := f.email
	f.mu.Unlock()

	user, err := f.auth.Login(ctx, email, password)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	// A busy session means another mutation is in flight; mirror the
	// double-submit rule and swallow it.
	if errors.Is(err, session.ErrSessionBusy) {
		return nil, nil
	}
	return user, err
}
