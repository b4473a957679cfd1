package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/api"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// OTPPhase is where the verification form stands.
type OTPPhase int

const (
	PhaseEntering OTPPhase = iota
	PhaseSubmitting
	PhaseVerifiedSuccess
	PhaseVerifiedError
)

func (p OTPPhase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseVerifiedSuccess:
		return "verified"
	case PhaseVerifiedError:
		return "error"
	default:
		return "entering"
	}
}

// ResendState is the state of the "resend code" control.
type ResendState int

const (
	ResendIdle ResendState = iota
	ResendCooldown
	ResendResending
)

func (s ResendState) String() string {
	switch s {
	case ResendCooldown:
		return "cooldown"
	case ResendResending:
		return "resending"
	default:
		return "idle"
	}
}

const msgIncompleteOTP = "Please enter a 6-digit OTP"

// OTPSnapshot is a copy of the controller state handed to observers.
type OTPSnapshot struct {
	Email           string
	Code            string
	Phase           OTPPhase
	Resend          ResendState
	CooldownSeconds int
	Loading         bool
	Message         string
	// Kind classifies the failure behind Message; KindNone otherwise.
	Kind api.ErrorKind
}

// CanResend reports whether the resend control is enabled.
func (s OTPSnapshot) CanResend() bool {
	return s.CooldownSeconds == 0 && !s.Loading
}

// SanitizeOTP keeps the ASCII digits of input, at most api.OTPLength of them.
func SanitizeOTP(input string) string {
	var b strings.Builder
	for i := 0; i < len(input) && b.Len() < api.OTPLength; i++ {
		if input[i] >= '0' && input[i] <= '9' {
			b.WriteByte(input[i])
		}
	}
	return b.String()
}

// OTPConfig tunes an OTPController. Zero values pick the defaults.
type OTPConfig struct {
	Email        string
	Cooldown     time.Duration
	SuccessDelay time.Duration
	// OnSuccess replaces the navigation home after a verified code.
	OnSuccess func()
	Observer  func(OTPSnapshot)
	NewTicker TickerFactory
	Sleep     SleepFunc
}

// OTPController drives email verification by one-time code.
type OTPController struct {
	auth      AuthAPI
	store     session.Store
	navigator nav.Navigator
	log       logging.Logger

	email           string
	cooldownSeconds int
	successDelay    time.Duration
	onSuccess       func()
	observer        func(OTPSnapshot)
	sleep           SleepFunc
	cooldown        *Cooldown

	mu        sync.Mutex
	code      string
	phase     OTPPhase
	loading   bool
	resending bool
	message   string
	kind      api.ErrorKind
	closed    bool
}

// NewOTPController creates a controller for cfg.Email. Call Start to begin
// the initial cooldown and Close when the screen goes away.
func NewOTPController(auth AuthAPI, store session.Store, navigator nav.Navigator, log logging.Logger, cfg OTPConfig) *OTPController {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}

	c := &OTPController{
		auth:            auth,
		store:           store,
		navigator:       navigator,
		log:             log.With("component", "otp"),
		email:           cfg.Email,
		cooldownSeconds: int(cfg.Cooldown.Round(time.Second) / time.Second),
		successDelay:    cfg.SuccessDelay,
		onSuccess:       cfg.OnSuccess,
		observer:        cfg.Observer,
		sleep:           cfg.Sleep,
	}
	c.cooldown = NewCooldown(cfg.NewTicker, func(int) { c.notify() })
	return c
}

// Start begins the initial resend cooldown.
func (c *OTPController) Start(ctx context.Context) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	c.cooldown.Start(c.cooldownSeconds)
	c.log.Debug(ctx, "otp flow started", "email", c.email, "cooldown", c.cooldownSeconds)
	c.notify()
}

// Close stops the countdown. Results of requests still in flight are
// dropped.
func (c *OTPController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cooldown.Stop()
}

// Email is the address the code was sent to.
func (c *OTPController) Email() string {
	return c.email
}

// Snapshot returns the current state.
func (c *OTPController) Snapshot() OTPSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *OTPController) snapshotLocked() OTPSnapshot {
	s := OTPSnapshot{
		Email:           c.email,
		Code:            c.code,
		Phase:           c.phase,
		CooldownSeconds: c.cooldown.Remaining(),
		Loading:         c.loading,
		Message:         c.message,
		Kind:            c.kind,
	}
	switch {
	case c.resending:
		s.Resend = ResendResending
	case s.CooldownSeconds > 0:
		s.Resend = ResendCooldown
	default:
		s.Resend = ResendIdle
	}
	return s
}

func (c *OTPController) notify() {
	if c.observer == nil {
		return
	}
	c.observer(c.Snapshot())
}

// SetCode replaces the code with the sanitized input and returns what was
// kept. Input is ignored while a request is in flight.
func (c *OTPController) SetCode(input string) string {
	c.mu.Lock()
	if c.loading || c.closed {
		code := c.code
		c.mu.Unlock()
		return code
	}
	c.code = SanitizeOTP(input)
	if c.phase == PhaseVerifiedError {
		c.phase = PhaseEntering
	}
	code := c.code
	c.mu.Unlock()

	c.notify()
	return code
}

// Submit verifies the entered code. Flow failures end up in the snapshot;
// the returned error is for ErrBusy, ErrClosed, cancellation and a session
// that could not be saved.
func (c *OTPController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	code := c.code
	if !api.IsCompleteOTP(code) {
		c.phase = PhaseEntering
		c.message = msgIncompleteOTP
		c.kind = api.KindValidation
		c.mu.Unlock()
		c.notify()
		return nil
	}
	c.loading = true
	c.phase = PhaseSubmitting
	c.message = ""
	c.kind = api.KindNone
	c.mu.Unlock()
	c.notify()

	res := c.auth.VerifyOTP(ctx, c.email, code)

	if c.isClosed() {
		c.log.Debug(ctx, "dropping verify result of closed flow")
		return ErrClosed
	}

	if !res.Success {
		c.log.Info(ctx, "otp verification failed", "kind", res.Kind().String())
		c.finish(PhaseVerifiedError, res.Message, res.Kind())
		return nil
	}

	if token, user, ok := tokenOf(res); ok {
		if err := c.store.Persist(ctx, token, user); err != nil {
			c.log.Error(ctx, "failed to persist session", "error", err)
			c.finish(PhaseVerifiedError, "Could not save your session. Please try again.", api.KindNone)
			return fmt.Errorf("persist session: %w", err)
		}
	}

	c.mu.Lock()
	c.phase = PhaseVerifiedSuccess
	c.message = res.Message
	c.mu.Unlock()
	c.notify()

	err := c.sleep(ctx, c.successDelay)

	c.mu.Lock()
	c.loading = false
	closed := c.closed
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if closed {
		return ErrClosed
	}

	if c.onSuccess != nil {
		c.onSuccess()
	} else {
		c.navigator.Navigate(nav.RouteHome)
	}
	return nil
}

// Resend asks the backend for a new code. Success restarts the countdown;
// failure leaves resend enabled so the user can retry at once.
func (c *OTPController) Resend(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.cooldown.Remaining() > 0 {
		c.mu.Unlock()
		return ErrCooldown
	}
	c.loading = true
	c.resending = true
	c.message = ""
	c.kind = api.KindNone
	c.mu.Unlock()
	c.notify()

	res := c.auth.ResendOTP(ctx, c.email)

	if c.isClosed() {
		return ErrClosed
	}
	// restart before releasing the guard so no second resend slips in
	if res.Success {
		c.cooldown.Start(c.cooldownSeconds)
	} else {
		c.log.Info(ctx, "otp resend failed", "kind", res.Kind().String())
	}

	c.mu.Lock()
	c.loading = false
	c.resending = false
	c.message = res.Message
	c.kind = res.Kind()
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *OTPController) finish(phase OTPPhase, message string, kind api.ErrorKind) {
	c.mu.Lock()
	c.loading = false
	c.phase = phase
	c.message = message
	c.kind = kind
	c.mu.Unlock()
	c.notify()
}

func (c *OTPController) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
