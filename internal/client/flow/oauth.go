package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// ErrMalformedRedirect is returned for callback parameters that cannot be
// turned into a session.
var ErrMalformedRedirect = errors.New("malformed oauth redirect")

// OutcomeKind says how an OAuth redirect was resolved.
type OutcomeKind int

const (
	OutcomeAuthenticated OutcomeKind = iota
	// OutcomeCompletionFailed: a token arrived but the session could not be
	// completed.
	OutcomeCompletionFailed
	// OutcomeProviderError: the provider redirected with an error.
	OutcomeProviderError
	// OutcomeMalformedRedirect: neither a token nor an error arrived.
	OutcomeMalformedRedirect
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeCompletionFailed:
		return "completion_failed"
	case OutcomeProviderError:
		return "provider_error"
	default:
		return "malformed_redirect"
	}
}

// Outcome is the decision taken for one redirect.
type Outcome struct {
	Kind  OutcomeKind
	Route string
	Err   error
}

// OAuthCompleter turns callback parameters into a session.
type OAuthCompleter interface {
	Complete(ctx context.Context, params url.Values) error
}

// SessionCompleter persists the token parameter and, when present, the
// JSON-encoded user parameter.
type SessionCompleter struct {
	store session.Store
}

func NewSessionCompleter(store session.Store) *SessionCompleter {
	return &SessionCompleter{store: store}
}

func (s *SessionCompleter) Complete(ctx context.Context, params url.Values) error {
	token := params.Get("token")
	if token == "" {
		return fmt.Errorf("%w: missing token", ErrMalformedRedirect)
	}

	var user json.RawMessage
	if raw := params.Get("user"); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("%w: user is not valid JSON", ErrMalformedRedirect)
		}
		user = json.RawMessage(raw)
	}

	if err := s.store.Persist(ctx, token, user); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// OAuthConfig tunes an OAuthHandler. Zero values pick the defaults.
type OAuthConfig struct {
	SuccessDelay time.Duration
	Sleep        SleepFunc
}

// OAuthHandler resolves the identity provider's redirect back to the app.
type OAuthHandler struct {
	completer    OAuthCompleter
	navigator    nav.Navigator
	log          logging.Logger
	successDelay time.Duration
	sleep        SleepFunc
}

func NewOAuthHandler(completer OAuthCompleter, navigator nav.Navigator, log logging.Logger, cfg OAuthConfig) *OAuthHandler {
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	return &OAuthHandler{
		completer:    completer,
		navigator:    navigator,
		log:          log.With("component", "oauth"),
		successDelay: cfg.SuccessDelay,
		sleep:        cfg.Sleep,
	}
}

// Handle resolves query and navigates accordingly:
//
//	token=...  complete the session, then "/" (or /auth?error=oauth_failed)
//	error=...  /auth?error=<value>
//	otherwise  /auth?error=no_data
func (h *OAuthHandler) Handle(ctx context.Context, query url.Values) Outcome {
	var out Outcome

	switch {
	case query.Get("token") != "":
		if err := h.completer.Complete(ctx, query); err != nil {
			h.log.Warn(ctx, "oauth completion failed", "error", err)
			out = Outcome{Kind: OutcomeCompletionFailed, Route: nav.AuthWithError(nav.ErrorOAuthFailed), Err: err}
			break
		}
		if err := h.sleep(ctx, h.successDelay); err != nil {
			h.log.Debug(ctx, "oauth success delay cut short", "error", err)
		}
		out = Outcome{Kind: OutcomeAuthenticated, Route: nav.RouteHome}

	case query.Get("error") != "":
		code := query.Get("error")
		h.log.Info(ctx, "oauth provider returned an error", "error", code)
		out = Outcome{Kind: OutcomeProviderError, Route: nav.AuthWithError(code)}

	default:
		h.log.Warn(ctx, "oauth redirect without token or error")
		out = Outcome{
			Kind:  OutcomeMalformedRedirect,
			Route: nav.AuthWithError(nav.ErrorNoData),
			Err:   fmt.Errorf("%w: no token or error", ErrMalformedRedirect),
		}
	}

	h.navigator.Navigate(out.Route)
	return out
}
