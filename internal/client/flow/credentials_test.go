package flow

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/api"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentialFixture struct {
	auth    *fakeAuth
	history *nav.History
	store   session.Store
	sleeps  *sleeps
	ctrl    *CredentialController
}

func newCredentialFixture() *credentialFixture {
	f := &credentialFixture{auth: newFakeAuth(), history: &nav.History{}, sleeps: &sleeps{}}
	f.store = newMemoryStore(f.history)
	f.ctrl = NewCredentialController(f.auth, f.store, f.history, logging.Nop(), CredentialConfig{
		SuccessDelay: time.Second,
		Sleep:        f.sleeps.Sleep,
	})
	return f
}

func TestCredentials_ToggleClearsEverything(t *testing.T) {
	f := newCredentialFixture()
	f.auth.login = failResult(api.KindApplication, "Invalid username or password")
	f.ctrl.SetForm(CredentialForm{UserName: "ann", Password: "pw"})
	require.NoError(t, f.ctrl.Submit(context.Background()))
	require.NotEmpty(t, f.ctrl.Snapshot().Message)
	f.ctrl.SetForm(CredentialForm{UserName: "ann", Password: "pw", Email: "a@b.c"})

	f.ctrl.Toggle()

	s := f.ctrl.Snapshot()
	assert.Equal(t, ModeRegister, s.Mode)
	assert.Equal(t, CredentialForm{}, s.Form)
	assert.Empty(t, s.Message)
	assert.Equal(t, api.KindNone, s.Kind)

	f.ctrl.SetForm(CredentialForm{UserName: "bob", Password: "x", Email: "b@c.d"})
	f.ctrl.Toggle()

	s = f.ctrl.Snapshot()
	assert.Equal(t, ModeLogin, s.Mode)
	assert.Equal(t, CredentialForm{}, s.Form)
}

func TestCredentials_SetMode(t *testing.T) {
	f := newCredentialFixture()
	f.ctrl.SetForm(CredentialForm{UserName: "ann"})

	f.ctrl.SetMode(ModeLogin)
	assert.Equal(t, "ann", f.ctrl.Snapshot().Form.UserName, "same mode keeps the form")

	f.ctrl.SetMode(ModeRegister)
	assert.Equal(t, ModeRegister, f.ctrl.Mode())
	assert.Empty(t, f.ctrl.Snapshot().Form.UserName)
}

func TestCredentials_LocalValidation(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		form CredentialForm
		want string
	}{
		{name: "login empty", mode: ModeLogin, form: CredentialForm{}, want: "Username and password are required"},
		{name: "login blank user", mode: ModeLogin, form: CredentialForm{UserName: "  ", Password: "pw"}, want: "Username and password are required"},
		{name: "login no password", mode: ModeLogin, form: CredentialForm{UserName: "ann"}, want: "Username and password are required"},
		{name: "register no email", mode: ModeRegister, form: CredentialForm{UserName: "ann", Password: "pw"}, want: "Email is required"},
		{name: "register no password", mode: ModeRegister, form: CredentialForm{UserName: "ann", Email: "a@b.c"}, want: "Username and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCredentialFixture()
			f.ctrl.SetMode(tt.mode)
			f.ctrl.SetForm(tt.form)

			require.NoError(t, f.ctrl.Submit(context.Background()))

			s := f.ctrl.Snapshot()
			assert.Equal(t, tt.want, s.Message)
			assert.Equal(t, api.KindValidation, s.Kind)
			assert.False(t, s.Success)
			assert.Equal(t, tt.form, s.Form)
			assert.Zero(t, f.auth.count("login")+f.auth.count("register"))
		})
	}
}

func TestCredentials_LoginSuccess(t *testing.T) {
	f := newCredentialFixture()
	f.auth.login = okResult("Login successful", "tok-7", `{"userName":"ann"}`)
	f.ctrl.SetForm(CredentialForm{UserName: " ann ", Password: "pw"})

	require.NoError(t, f.ctrl.Submit(context.Background()))

	assert.Equal(t, []string{"login", "ann", "pw"}, f.auth.lastArgs())
	assert.True(t, f.store.IsAuthenticated(context.Background()))
	token, _ := f.store.Token(context.Background())
	assert.Equal(t, "tok-7", token)

	s := f.ctrl.Snapshot()
	assert.True(t, s.Success)
	assert.Equal(t, "Login successful", s.Message)
	assert.False(t, s.Loading)
	assert.Equal(t, []time.Duration{time.Second}, f.sleeps.all())
	assert.Equal(t, []string{nav.RouteHome}, f.history.All())
}

func TestCredentials_RegisterWithTokenGoesHome(t *testing.T) {
	f := newCredentialFixture()
	f.auth.register = okResult("Welcome", "tok", "")
	f.ctrl.Toggle()
	f.ctrl.SetForm(CredentialForm{UserName: "ann", Password: "pw", Email: "ann@example.com"})

	require.NoError(t, f.ctrl.Submit(context.Background()))

	assert.Equal(t, []string{"register", "ann", "pw", "ann@example.com"}, f.auth.lastArgs())
	assert.True(t, f.store.IsAuthenticated(context.Background()))
	assert.Equal(t, []string{nav.RouteHome}, f.history.All())
}

func TestCredentials_RegisterAwaitingOTPGoesToVerification(t *testing.T) {
	f := newCredentialFixture()
	f.auth.register = okResult("Check your email", "", "")
	f.ctrl.Toggle()
	f.ctrl.SetForm(CredentialForm{UserName: "ann", Password: "pw", Email: "ann@example.com"})

	require.NoError(t, f.ctrl.Submit(context.Background()))

	assert.False(t, f.store.IsAuthenticated(context.Background()))
	assert.Equal(t, []string{"/verify-otp?email=ann%40example.com"}, f.history.All())
	assert.Equal(t, "Check your email", f.ctrl.Snapshot().Message)
}

func TestCredentials_FailureKeepsFields(t *testing.T) {
	f := newCredentialFixture()
	f.auth.login = failResult(api.KindApplication, "Invalid username or password")
	form := CredentialForm{UserName: "ann", Password: "wrong"}
	f.ctrl.SetForm(form)

	require.NoError(t, f.ctrl.Submit(context.Background()))

	s := f.ctrl.Snapshot()
	assert.False(t, s.Success)
	assert.Equal(t, "Invalid username or password", s.Message)
	assert.Equal(t, api.KindApplication, s.Kind)
	assert.Equal(t, form, s.Form)
	assert.False(t, s.Loading)
	assert.False(t, f.store.IsAuthenticated(context.Background()))
	assert.Empty(t, f.history.All())
}

func TestCredentials_BusyWhileSubmitting(t *testing.T) {
	f := newCredentialFixture()
	f.auth.login = failResult(api.KindTransport, "Login failed. Please check your credentials.")
	f.ctrl.SetForm(CredentialForm{UserName: "ann", Password: "pw"})
	entered, release := f.auth.blockCalls()

	errc := make(chan error, 1)
	go func() { errc <- f.ctrl.Submit(context.Background()) }()
	recv(t, entered)

	assert.True(t, f.ctrl.Snapshot().Loading)
	assert.ErrorIs(t, f.ctrl.Submit(context.Background()), ErrBusy)

	f.ctrl.Toggle()
	assert.Equal(t, ModeLogin, f.ctrl.Mode(), "toggle is ignored while loading")

	release()
	require.NoError(t, recv(t, errc))
	assert.Equal(t, 1, f.auth.count("login"))
}
