package flow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/api"
)

const (
	// DefaultCooldown is how long resend stays disabled after a code is sent.
	DefaultCooldown = 60 * time.Second
	// DefaultSuccessDelay keeps a success message on screen before navigating.
	DefaultSuccessDelay = 1500 * time.Millisecond
)

var (
	// ErrBusy is returned while a request of the same flow is in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrCooldown is returned by Resend before the countdown reaches zero.
	ErrCooldown = errors.New("resend is not available yet")
	// ErrClosed is returned by a controller after Close.
	ErrClosed = errors.New("flow closed")
)

// AuthAPI is the part of the backend client the flows need.
type AuthAPI interface {
	Login(ctx context.Context, userName, password string) api.Result
	Register(ctx context.Context, userName, password, email string) api.Result
	VerifyOTP(ctx context.Context, email, code string) api.Result
	ResendOTP(ctx context.Context, email string) api.Result
}

var _ AuthAPI = (*api.Client)(nil)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// tokenOf returns the token and profile of a successful auth result.
func tokenOf(res api.Result) (string, json.RawMessage, bool) {
	if res.Data == nil || res.Data.Token == "" {
		return "", nil, false
	}
	return res.Data.Token, res.Data.User, true
}
