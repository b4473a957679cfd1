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

// Mode selects what the credential form does.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

const (
	msgMissingCredentials = "Username and password are required"
	msgMissingEmail       = "Email is required"
)

// CredentialForm holds the form fields. Email is only used in ModeRegister.
type CredentialForm struct {
	UserName string
	Password string
	Email    string
}

// CredentialSnapshot is a copy of the controller state handed to observers.
type CredentialSnapshot struct {
	Mode    Mode
	Form    CredentialForm
	Loading bool
	Success bool
	Message string
	Kind    api.ErrorKind
}

// CredentialConfig tunes a CredentialController. Zero values pick the
// defaults.
type CredentialConfig struct {
	SuccessDelay time.Duration
	Observer     func(CredentialSnapshot)
	Sleep        SleepFunc
}

// CredentialController drives the combined login/register form.
type CredentialController struct {
	auth      AuthAPI
	store     session.Store
	navigator nav.Navigator
	log       logging.Logger

	successDelay time.Duration
	observer     func(CredentialSnapshot)
	sleep        SleepFunc

	mu      sync.Mutex
	mode    Mode
	form    CredentialForm
	loading bool
	success bool
	message string
	kind    api.ErrorKind
}

// NewCredentialController creates a controller in ModeLogin.
func NewCredentialController(auth AuthAPI, store session.Store, navigator nav.Navigator, log logging.Logger, cfg CredentialConfig) *CredentialController {
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	return &CredentialController{
		auth:         auth,
		store:        store,
		navigator:    navigator,
		log:          log.With("component", "credentials"),
		successDelay: cfg.SuccessDelay,
		observer:     cfg.Observer,
		sleep:        cfg.Sleep,
	}
}

// Snapshot returns the current state.
func (c *CredentialController) Snapshot() CredentialSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *CredentialController) snapshotLocked() CredentialSnapshot {
	return CredentialSnapshot{
		Mode:    c.mode,
		Form:    c.form,
		Loading: c.loading,
		Success: c.success,
		Message: c.message,
		Kind:    c.kind,
	}
}

func (c *CredentialController) notify(s CredentialSnapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}

// update applies fn under the lock and reports the result. fn is skipped
// while a request is in flight.
func (c *CredentialController) update(fn func()) bool {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return false
	}
	fn()
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(s)
	return true
}

// Mode returns the current mode.
func (c *CredentialController) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches to m, clearing the form like Toggle when m differs.
func (c *CredentialController) SetMode(m Mode) {
	if c.Mode() != m {
		c.Toggle()
	}
}

// Toggle switches between login and register and clears every field and
// message.
func (c *CredentialController) Toggle() {
	c.update(func() {
		if c.mode == ModeLogin {
			c.mode = ModeRegister
		} else {
			c.mode = ModeLogin
		}
		c.form = CredentialForm{}
		c.success = false
		c.message = ""
		c.kind = api.KindNone
	})
}

// SetForm replaces the form fields.
func (c *CredentialController) SetForm(f CredentialForm) {
	c.update(func() { c.form = f })
}

// validateLocked returns the local validation message, empty when the form can be
// sent.
func (c *CredentialController) validateLocked() string {
	if strings.TrimSpace(c.form.UserName) == "" || c.form.Password == "" {
		return msgMissingCredentials
	}
	if c.mode == ModeRegister && strings.TrimSpace(c.form.Email) == "" {
		return msgMissingEmail
	}
	return ""
}

// Submit sends the form. Flow failures end up in the snapshot; the returned
// error is for ErrBusy, cancellation and a session that could not be saved.
func (c *CredentialController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if msg := c.validateLocked(); msg != "" {
		c.success = false
		c.message = msg
		c.kind = api.KindValidation
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(s)
		return nil
	}
	mode := c.mode
	form := c.form
	form.UserName = strings.TrimSpace(form.UserName)
	form.Email = strings.TrimSpace(form.Email)
	c.loading = true
	c.success = false
	c.message = ""
	c.kind = api.KindNone
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(s)

	var res api.Result
	if mode == ModeRegister {
		res = c.auth.Register(ctx, form.UserName, form.Password, form.Email)
	} else {
		res = c.auth.Login(ctx, form.UserName, form.Password)
	}

	if !res.Success {
		c.log.Info(ctx, "credential submit failed", "mode", mode.String(), "kind", res.Kind().String())
		c.finish(false, res.Message, res.Kind())
		return nil
	}

	target := nav.RouteHome
	token, user, ok := tokenOf(res)
	if ok {
		if err := c.store.Persist(ctx, token, user); err != nil {
			c.log.Error(ctx, "failed to persist session", "error", err)
			c.finish(false, "Could not save your session. Please try again.", api.KindNone)
			return fmt.Errorf("persist session: %w", err)
		}
	} else if mode == ModeRegister {
		// the backend mailed a code; the account is not usable before it is verified
		target = nav.WithQuery(nav.RouteVerifyOTP, "email", form.Email)
	}

	c.mu.Lock()
	c.success = true
	c.message = res.Message
	s = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(s)

	err := c.sleep(ctx, c.successDelay)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.navigator.Navigate(target)
	return nil
}

func (c *CredentialController) finish(success bool, message string, kind api.ErrorKind) {
	c.mu.Lock()
	c.loading = false
	c.success = success
	c.message = message
	c.kind = kind
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(s)
}
