package flow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/api"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// fakeAuth answers with preset results and counts calls. When gate is set,
// every call signals entered and then waits for gate to be closed.
type fakeAuth struct {
	mu       sync.Mutex
	login    api.Result
	register api.Result
	verify   api.Result
	resend   api.Result
	calls    map[string]int
	args     [][]string

	gate    chan struct{}
	entered chan struct{}
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{calls: map[string]int{}}
}

func (f *fakeAuth) record(op string, args ...string) {
	f.mu.Lock()
	f.calls[op]++
	f.args = append(f.args, append([]string{op}, args...))
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
}

func (f *fakeAuth) blockCalls() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	gate := f.gate
	return f.entered, func() { close(gate) }
}

func (f *fakeAuth) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAuth) lastArgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.args) == 0 {
		return nil
	}
	return f.args[len(f.args)-1]
}

func (f *fakeAuth) Login(_ context.Context, userName, password string) api.Result {
	f.record("login", userName, password)
	return f.login
}

func (f *fakeAuth) Register(_ context.Context, userName, password, email string) api.Result {
	f.record("register", userName, password, email)
	return f.register
}

func (f *fakeAuth) VerifyOTP(_ context.Context, email, code string) api.Result {
	f.record("verify", email, code)
	return f.verify
}

func (f *fakeAuth) ResendOTP(_ context.Context, email string) api.Result {
	f.record("resend", email)
	return f.resend
}

func okResult(msg, token, user string) api.Result {
	p := &api.AuthPayload{Token: token}
	if user != "" {
		p.User = []byte(user)
	}
	return api.Result{Success: true, Message: msg, Data: p}
}

func failResult(kind api.ErrorKind, msg string) api.Result {
	return api.Result{Success: false, Message: msg, Err: &api.Error{Kind: kind, Status: 400}}
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

// tick fires the ticker once; it blocks until the countdown receives it.
func (t *fakeTicker) tick(tb testing.TB) {
	tb.Helper()
	select {
	case t.ch <- time.Now():
	case <-time.After(2 * time.Second):
		tb.Fatal("countdown did not take the tick")
	}
}

type fakeTickers struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *fakeTickers) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeTickers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *fakeTickers) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

// sleeps records requested delays without waiting.
type sleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleeps) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleeps) all() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newMemoryStore(navigator nav.Navigator) session.Store {
	return session.NewStore(kv.NewMemoryRepository(), navigator, logging.Nop())
}

func recv[T any](tb testing.TB, ch <-chan T) T {
	tb.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		tb.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}
