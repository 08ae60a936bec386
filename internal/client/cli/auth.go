package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/api"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/loginflow"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/session"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// displayError maps expected failures to the strings shown to the user.
func displayError(err error) string {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		return ferr.Message
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, api.ErrAccountExists):
		return "An account with this email already exists."
	case errors.Is(err, api.ErrUnavailable):
		return "Could not reach the server. Check your connection and try again."
	case errors.Is(err, session.ErrSessionBusy):
		return "Another sign-in is still in progress."
	default:
		return err.Error()
	}
}

// Login walks the two-step login flow: email entry, then password entry.
// Typing "back" at the password prompt returns to the email step with the
// previous value preserved.
func (a *App) Login(ctx context.Context) error {
	flow := loginflow.NewFlow(a.session)

	for {
		prompt := "Enter email"
		if flow.Email() != "" {
			prompt = fmt.Sprintf("Enter email [%s]", flow.Email())
		}
		email, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if email == "" && flow.Email() != "" {
			email = flow.Email()
		}

		if ferr := flow.Advance(email); ferr != nil {
			fmt.Fprintln(a.out, ferr.Message)
			continue
		}

		password, err := getPassword("Enter password (or \"back\")", a.out)
		if err != nil {
			return err
		}
		if password == "back" {
			flow.Back()
			continue
		}

		user, err := flow.Submit(ctx, password)
		if err != nil {
			fmt.Fprintln(a.out, displayError(err))
			if errors.As(err, new(*validation.FieldError)) {
				continue
			}
			return nil
		}
		if user == nil {
			// Submit was ignored (another attempt in flight).
			return nil
		}

		fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
		return nil
	}
}

// Social signs in with a social provider. A dismissed provider prompt is a
// silent no-op.
func (a *App) Social(ctx context.Context, providerName string) error {
	provider, ok := models.ParseProvider(providerName)
	if !ok {
		fmt.Fprintf(a.out, "Unknown provider %q (apple, google, facebook)\n", providerName)
		return nil
	}

	user, err := a.session.LoginWithProvider(ctx, provider)
	if err != nil {
		fmt.Fprintln(a.out, displayError(err))
		return nil
	}
	if user == nil {
		return nil
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
	return nil
}

// Logout signs out. The local session always ends even when the remote
// invalidation or the credential wipe fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			fmt.Fprintln(a.out, "Not signed in.")
			return nil
		}
		a.log.Warn(ctx, "logout cleanup failed", "error", err)
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the current session state.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.session.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintf(a.out, "Not signed in (%s)\n", snap.Status)
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", snap.User.Email, snap.User.ID)
	if snap.User.Name != "" {
		fmt.Fprintln(a.out, snap.User.Name)
	}
	return nil
}
