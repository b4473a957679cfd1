package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/flow"
)

// Google starts the callback listener and prints the URL that begins the
// Google sign-in. The redirect is handled in the background.
func (a *App) Google(ctx context.Context) error {
	callbackURL := a.callback.URL()
	if callbackURL == "" {
		var err error
		callbackURL, err = a.callback.Start(ctx)
		if err != nil {
			return err
		}
	}

	a.mu.Lock()
	if a.stopWatch == nil {
		watchCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		a.stopWatch, a.watchDone = cancel, done
		go func() {
			defer close(done)
			a.watchOAuth(watchCtx)
		}()
	}
	a.mu.Unlock()

	printlnFn("Open this URL in your browser to sign in with Google:")
	printlnFn("  " + a.backend.GoogleAuthURL())
	printlnFn("Waiting for the redirect on " + callbackURL)
	printlnFn("If the browser lands elsewhere, paste the address with 'callback <url>'.")
	return nil
}

// watchOAuth reports redirects that arrive on the listener until ctx is
// cancelled by Close or by the caller.
func (a *App) watchOAuth(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case out := <-a.callback.Outcomes():
			a.log.Debug(ctx, "oauth outcome", "kind", out.Kind.String(), "route", out.Route)
			if out.Kind == flow.OutcomeAuthenticated {
				printlnFn("Signed in with Google.")
			}
		}
	}
}

// Callback resolves a redirect URL pasted by the user.
func (a *App) Callback(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		printlnFn("Usage: callback <redirect-url>")
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid redirect url: %w", err)
	}

	out := a.oauth.Handle(ctx, u.Query())
	if out.Kind == flow.OutcomeAuthenticated {
		printlnFn("Signed in with Google.")
	}
	return nil
}
