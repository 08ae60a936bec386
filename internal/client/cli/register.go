package cli

import (
	"context"
	"fmt"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/validation"
)

// Register prompts for the registration fields, validates them, and creates
// the account. A successful registration signs the user in immediately.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	if ferr := validation.Name(name); ferr != nil {
		fmt.Fprintln(a.out, ferr.Message)
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	email = validation.NormalizeEmail(email)
	if ferr := validation.Email(email); ferr != nil {
		fmt.Fprintln(a.out, ferr.Message)
		return nil
	}

	password, err := getPassword("Enter password", a.out)
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

	user, err := a.session.Register(ctx, models.RegisterData{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		fmt.Fprintln(a.out, displayError(err))
		return nil
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}
