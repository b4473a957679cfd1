package flow

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCompleter struct {
	err    error
	params []url.Values
}

func (r *recordingCompleter) Complete(_ context.Context, params url.Values) error {
	r.params = append(r.params, params)
	return r.err
}

func TestOAuthHandler_Routes(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		err       error
		wantRoute string
		wantKind  OutcomeKind
		completes int
	}{
		{name: "token", query: "token=abc", wantRoute: "/", wantKind: OutcomeAuthenticated, completes: 1},
		{name: "token wins over error", query: "token=abc&error=x", wantRoute: "/", wantKind: OutcomeAuthenticated, completes: 1},
		{name: "provider error", query: "error=x", wantRoute: "/auth?error=x", wantKind: OutcomeProviderError},
		{name: "access denied", query: "error=access_denied", wantRoute: "/auth?error=access_denied", wantKind: OutcomeProviderError},
		{name: "nothing", query: "", wantRoute: "/auth?error=no_data", wantKind: OutcomeMalformedRedirect},
		{name: "empty values", query: "token=&error=", wantRoute: "/auth?error=no_data", wantKind: OutcomeMalformedRedirect},
		{name: "completion fails", query: "token=abc", err: errors.New("boom"), wantRoute: "/auth?error=oauth_failed", wantKind: OutcomeCompletionFailed, completes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			completer := &recordingCompleter{err: tt.err}
			history := &nav.History{}
			s := &sleeps{}
			h := NewOAuthHandler(completer, history, logging.Nop(), OAuthConfig{SuccessDelay: time.Second, Sleep: s.Sleep})

			out := h.Handle(context.Background(), q)

			assert.Equal(t, tt.wantRoute, out.Route)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, []string{tt.wantRoute}, history.All())
			assert.Len(t, completer.params, tt.completes)
			if tt.wantKind == OutcomeAuthenticated {
				assert.NoError(t, out.Err)
				assert.Equal(t, []time.Duration{time.Second}, s.all())
				assert.Equal(t, q, completer.params[0])
			} else {
				assert.Empty(t, s.all())
			}
			if tt.wantKind == OutcomeMalformedRedirect {
				assert.ErrorIs(t, out.Err, ErrMalformedRedirect)
			}
		})
	}
}

func TestOAuthHandler_WithSessionCompleter(t *testing.T) {
	history := &nav.History{}
	store := newMemoryStore(history)
	h := NewOAuthHandler(NewSessionCompleter(store), history, logging.Nop(), OAuthConfig{Sleep: (&sleeps{}).Sleep})

	q := url.Values{}
	q.Set("token", "g-tok")
	q.Set("user", `{"id":42,"email":"ann@gmail.com","name":"Ann"}`)

	out := h.Handle(context.Background(), q)

	require.Equal(t, OutcomeAuthenticated, out.Kind)
	token, ok := store.Token(context.Background())
	require.True(t, ok)
	assert.Equal(t, "g-tok", token)
	profile, ok := store.UserData(context.Background())
	require.True(t, ok)
	assert.Equal(t, "42", string(profile.ID))
	assert.Equal(t, "Ann", profile.Name)
}

func TestSessionCompleter_RejectsMalformedUser(t *testing.T) {
	history := &nav.History{}
	store := newMemoryStore(history)
	h := NewOAuthHandler(NewSessionCompleter(store), history, logging.Nop(), OAuthConfig{Sleep: (&sleeps{}).Sleep})

	q := url.Values{"token": {"t"}, "user": {"{not json"}}
	out := h.Handle(context.Background(), q)

	assert.Equal(t, OutcomeCompletionFailed, out.Kind)
	assert.Equal(t, "/auth?error=oauth_failed", out.Route)
	assert.ErrorIs(t, out.Err, ErrMalformedRedirect)
	assert.False(t, store.IsAuthenticated(context.Background()))
}

func TestSessionCompleter_TokenOnly(t *testing.T) {
	store := newMemoryStore(&nav.History{})
	c := NewSessionCompleter(store)

	require.NoError(t, c.Complete(context.Background(), url.Values{"token": {"t"}}))
	assert.True(t, store.IsAuthenticated(context.Background()))
	_, ok := store.UserData(context.Background())
	assert.False(t, ok)

	require.ErrorIs(t, c.Complete(context.Background(), url.Values{}), ErrMalformedRedirect)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "authenticated", OutcomeAuthenticated.String())
	assert.Equal(t, "malformed_redirect", OutcomeMalformedRedirect.String())
}
