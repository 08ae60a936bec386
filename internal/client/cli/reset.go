package cli

import (
	"context"
	"fmt"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/validation"
)

// Forgot requests a password-reset email. The operation is session-state
// neutral.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	email = validation.NormalizeEmail(email)
	if ferr := validation.Email(email); ferr != nil {
		fmt.Fprintln(a.out, ferr.Message)
		return nil
	}

	if err := a.gateway.RequestPasswordReset(ctx, email); err != nil {
		fmt.Fprintln(a.out, displayError(err))
		return nil
	}

	fmt.Fprintln(a.out, "If the address exists, a reset link is on its way.")
	return nil
}

// Reset completes a password reset with the token from the email.
func (a *App) Reset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(a.out, "Reset token is required")
		return nil
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	if ferr := validation.Password(password); ferr != nil {
		fmt.Fprintln(a.out, ferr.Message)
		return nil
	}

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	if ferr := validation.ConfirmPassword(password, confirm); ferr != nil {
		fmt.Fprintln(a.out, ferr.Message)
		return nil
	}

	if err := a.gateway.ConfirmPasswordReset(ctx, token, password); err != nil {
		fmt.Fprintln(a.out, displayError(err))
		return nil
	}

	fmt.Fprintln(a.out, "Password updated. You can sign in now.")
	return nil
}
