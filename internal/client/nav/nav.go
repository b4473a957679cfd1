// Package nav names the client's screens and the seam through which flow
// controllers move the user between them.
package nav

import (
	"net/url"
	"sync"
)

const (
	RouteHome          = "/"
	RouteAuth          = "/auth"
	RouteVerifyOTP     = "/verify-otp"
	RouteOAuthCallback = "/auth/callback"
)

// Error codes appended to RouteAuth as ?error=<code>.
const (
	ErrorNoData      = "no_data"
	ErrorOAuthFailed = "oauth_failed"
)

// Navigator performs a full navigation to target, a route optionally followed
// by a query string.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// WithQuery appends key=value pairs (given in order) to route.
func WithQuery(route string, kv ...string) string {
	if len(kv) < 2 {
		return route
	}
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return route + "?" + q.Encode()
}

// AuthWithError is the auth entry route carrying an error indicator.
func AuthWithError(code string) string {
	return WithQuery(RouteAuth, "error", code)
}

// Split separates a navigation target into its route and query.
func Split(target string) (string, url.Values) {
	u, err := url.Parse(target)
	if err != nil {
		return target, url.Values{}
	}
	return u.Path, u.Query()
}

// History is a Navigator that remembers every target it was sent to.
type History struct {
	mu      sync.Mutex
	targets []string
}

func (h *History) Navigate(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.targets = append(h.targets, target)
}

// Current returns the last target, or RouteHome before any navigation.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.targets) == 0 {
		return RouteHome
	}
	return h.targets[len(h.targets)-1]
}

// All returns a copy of every target in order.
func (h *History) All() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.targets...)
}
