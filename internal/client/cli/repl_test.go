package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	route    string
	err      error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) currentRoute() string           { return f.route }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Register(context.Context) error          { return f.record("register") }
func (f *fakeExec) Verify(_ context.Context, c string) error { return f.record("verify:" + c) }
func (f *fakeExec) Resend(context.Context) error            { return f.record("resend") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error                { return f.record("whoami") }
func (f *fakeExec) Products(_ context.Context, s string) error  { return f.record("products:" + s) }
func (f *fakeExec) Category(_ context.Context, n string) error  { return f.record("category:" + n) }
func (f *fakeExec) Product(_ context.Context, id string) error  { return f.record("product:" + id) }
func (f *fakeExec) Ask(_ context.Context, p string) error       { return f.record("ask:" + p) }
func (f *fakeExec) Google(context.Context) error                { return f.record("google") }
func (f *fakeExec) Callback(_ context.Context, r string) error  { return f.record("callback:" + r) }

func TestRunREPL_DispatchesCommandsWithArguments(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"products red lamp",
		"p",
		"category  lighting ",
		"product 42",
		"ask which desk is best?",
		"verify 123456",
		"verify",
		"resend",
		"google",
		"callback http://localhost:3000/auth/callback?token=t",
		"whoami",
		"logout",
		"register",
		"foobar",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{route: nav.RouteAuth}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"products:red lamp",
		"products:",
		"category:lighting",
		"product:42",
		"ask:which desk is best?",
		"verify:123456",
		"verify:",
		"resend",
		"google",
		"callback:http://localhost:3000/auth/callback?token=t",
		"whoami",
		"logout",
		"register",
	}, exec.calls)

	text := out.String()
	assert.Contains(t, text, "store status > ")
	assert.Contains(t, text, "Available commands: login, register, google")
	assert.Contains(t, text, "Available commands: products [search]")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_PrintsHandlerErrorsAndStopsAtEOF(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("backend down")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("products")))

	assert.Equal(t, []string{"products:"}, exec.calls)
	assert.Contains(t, out.String(), "Error: backend down")
	assert.NotContains(t, out.String(), "Bye!")
}

func TestHelpText(t *testing.T) {
	assert.Contains(t, helpText(nav.RouteVerifyOTP, false), "verify [code], resend")
	assert.Contains(t, helpText(nav.RouteVerifyOTP, true), "verify [code], resend")
	assert.Contains(t, helpText(nav.RouteHome, true), "logout")
	assert.Contains(t, helpText(nav.RouteAuth, false), "google")
}
