package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/models"
)

// getSimpleText, getPassword and getOptionalText are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getOptionalText = GetOptionalText

// Register prompts for the registration fields and dispatches a register
// intent. The outcome is reported by the session observer. Only input
// errors are returned.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.manager.Register(ctx, models.Registration{
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
		FirstName:       firstName,
		LastName:        lastName,
	})
	return nil
}

// Login prompts for credentials and dispatches a login intent. A failed
// login keeps any current session; the observer prints the error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.manager.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	return nil
}

// Logout ends the session locally and tells the backend.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.manager.Logout(ctx)
	return nil
}

// Validate re-checks the current access token with the backend.
func (a *App) Validate(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if st := a.manager.ValidateCurrent(ctx); st.Authenticated {
		fmt.Fprintln(a.out, "Token is valid")
	}
	return nil
}
