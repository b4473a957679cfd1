package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/flow"
	"github.com/dmitrijs2005/storefront/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// errNoVerification is returned by verify/resend outside /verify-otp.
var errNoVerification = errors.New("no verification in progress, register first")

// Login prompts for credentials and submits the login form. The outcome is
// printed by the form observer; a successful login navigates home.
func (a *App) Login(ctx context.Context) error {
	a.credentials.SetMode(flow.ModeLogin)

	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	a.credentials.SetForm(flow.CredentialForm{UserName: userName, Password: string(password)})
	return a.credentials.Submit(ctx)
}

// Register prompts for user name, email and password and submits the
// register form. When the backend asks for email verification the app moves
// to /verify-otp.
func (a *App) Register(ctx context.Context) error {
	a.credentials.SetMode(flow.ModeRegister)

	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	a.credentials.SetForm(flow.CredentialForm{UserName: userName, Password: string(password), Email: email})
	return a.credentials.Submit(ctx)
}

// Verify submits code, prompting for it when empty.
func (a *App) Verify(ctx context.Context, code string) error {
	otp := a.activeOTP()
	if otp == nil {
		return errNoVerification
	}

	if code == "" {
		var err error
		code, err = getSimpleText(a.reader, "Enter the 6-digit code", a.out)
		if err != nil {
			return err
		}
	}
	otp.SetCode(code)
	return otp.Submit(ctx)
}

// Resend asks for a new code once the cooldown is over.
func (a *App) Resend(ctx context.Context) error {
	otp := a.activeOTP()
	if otp == nil {
		return errNoVerification
	}

	err := otp.Resend(ctx)
	if errors.Is(err, flow.ErrCooldown) {
		printlnFn(fmt.Sprintf("Please wait %d seconds before requesting a new code.", otp.Snapshot().CooldownSeconds))
		return nil
	}
	return err
}

// Logout clears the session; the store navigates back to /auth.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out.")
	return nil
}

// WhoAmI prints the cached profile and what the token says about itself.
func (a *App) WhoAmI(ctx context.Context) error {
	token, ok := a.store.Token(ctx)
	if !ok {
		printlnFn("Not signed in.")
		return nil
	}

	if profile, ok := a.store.UserData(ctx); ok {
		printlnFn("User:    ", profile.DisplayName())
		if profile.Email != "" {
			printlnFn("Email:   ", profile.Email)
		}
		printlnFn("Verified:", profile.Verified)
	} else {
		printlnFn("User:     (no cached profile)")
	}

	info, err := session.InspectToken(token)
	if err != nil {
		printlnFn("Token:    opaque")
		return nil
	}
	if info.Subject != "" {
		printlnFn("Subject: ", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		state := "valid"
		if info.Expired(time.Now()) {
			state = "expired"
		}
		printlnFn(fmt.Sprintf("Expires:  %s (%s)", info.ExpiresAt.UTC().Format(time.RFC3339), state))
	}
	return nil
}
