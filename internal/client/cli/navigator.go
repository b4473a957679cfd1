package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/flow"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
)

// Navigate switches the current route. Entering /verify-otp starts a fresh
// OTP flow for the email in the query; leaving it closes the flow.
func (a *App) Navigate(target string) {
	route, query := nav.Split(target)
	ctx := context.Background()

	var started *flow.OTPController
	a.mu.Lock()
	prevOTP := a.otp
	a.otp = nil
	if route == nav.RouteVerifyOTP {
		started = a.newOTP(query.Get("email"))
		a.otp = started
	}
	a.route = route
	a.mu.Unlock()

	if prevOTP != nil {
		prevOTP.Close()
	}
	a.log.Debug(ctx, "navigate", "target", target)

	switch route {
	case nav.RouteVerifyOTP:
		started.Start(ctx)
		printlnFn(fmt.Sprintf("A verification code was sent to %s. Enter it with 'verify <code>'.", started.Email()))
	case nav.RouteAuth:
		if code := query.Get("error"); code != "" {
			printlnFn("Sign-in failed:", describeAuthError(code))
		}
		printlnFn("Please sign in: login, register or google")
	case nav.RouteHome:
		printlnFn("You are on the storefront. Try 'products' or 'ask <question>'.")
	}
}

func (a *App) newOTP(email string) *flow.OTPController {
	return flow.NewOTPController(a.backend, a.store, a, a.log, flow.OTPConfig{
		Email:        email,
		Cooldown:     a.config.OTPCooldown,
		SuccessDelay: a.config.SuccessDelay,
		Observer:     a.showOTPProgress(),
	})
}

func describeAuthError(code string) string {
	switch code {
	case nav.ErrorNoData:
		return "the sign-in provider sent no data"
	case nav.ErrorOAuthFailed:
		return "the sign-in could not be completed"
	default:
		return code
	}
}

// showCredentialMessage prints each new non-empty form message once.
func (a *App) showCredentialMessage() func(flow.CredentialSnapshot) {
	var last string
	return func(s flow.CredentialSnapshot) {
		if s.Message == "" || s.Message == last {
			last = s.Message
			return
		}
		last = s.Message
		printlnFn(s.Message)
	}
}

// showOTPProgress prints new messages and announces when resend becomes
// available; the per-second ticks stay silent.
func (a *App) showOTPProgress() func(flow.OTPSnapshot) {
	var (
		mu           sync.Mutex
		lastMessage  string
		lastCooldown = -1
	)
	return func(s flow.OTPSnapshot) {
		mu.Lock()
		defer mu.Unlock()

		if s.Message != "" && s.Message != lastMessage {
			printlnFn(s.Message)
		}
		lastMessage = s.Message

		if s.CooldownSeconds == 0 && lastCooldown > 0 && !s.Loading {
			printlnFn("You can request a new code with 'resend'.")
		}
		lastCooldown = s.CooldownSeconds
	}
}
