// Package callback runs the loopback HTTP listener that receives the
// identity provider's redirect after a Google sign-in.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/flow"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/netx"
	"github.com/gin-gonic/gin"
)

// ErrAlreadyStarted is returned by Start on a running server.
var ErrAlreadyStarted = errors.New("callback server already started")

// RedirectHandler resolves the redirect parameters.
type RedirectHandler interface {
	Handle(ctx context.Context, query url.Values) flow.Outcome
}

// Server answers GET /auth/callback and reports every outcome on Outcomes.
type Server struct {
	addr     string
	handler  RedirectHandler
	log      logging.Logger
	outcomes chan flow.Outcome

	mu  sync.Mutex
	srv *http.Server
	url string
}

// New creates a server that will listen on addr, e.g. "127.0.0.1:0".
func New(addr string, handler RedirectHandler, log logging.Logger) *Server {
	return &Server{
		addr:     addr,
		handler:  handler,
		log:      log.With("component", "callback"),
		outcomes: make(chan flow.Outcome, 1),
	}
}

// Router builds the gin engine serving the callback route.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(nav.RouteOAuthCallback, s.handleCallback)
	return router
}

func (s *Server) handleCallback(c *gin.Context) {
	out := s.handler.Handle(c.Request.Context(), c.Request.URL.Query())

	select {
	case s.outcomes <- out:
	default:
		s.log.Warn(c.Request.Context(), "dropping oauth outcome, nobody is waiting", "kind", out.Kind.String())
	}

	if out.Kind == flow.OutcomeAuthenticated {
		c.String(http.StatusOK, "Signed in. You can close this window and return to the terminal.\n")
		return
	}
	c.String(http.StatusBadRequest, "Sign-in failed (%s). Return to the terminal and try again.\n", out.Kind)
}

// Outcomes delivers the result of each redirect. It holds at most one
// undelivered outcome.
func (s *Server) Outcomes() <-chan flow.Outcome {
	return s.outcomes
}

// Start listens and serves in the background. It returns the full callback
// URL to hand to the identity provider.
func (s *Server) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return s.url, ErrAlreadyStarted
	}

	if err := netx.RequireLoopback(s.addr); err != nil {
		return "", err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", s.addr, err)
	}

	s.srv = &http.Server{Handler: s.Router()}
	s.url = "http://" + ln.Addr().String() + nav.RouteOAuthCallback

	srv := s.srv
	go func() {
		s.log.Info(ctx, "callback listener started", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(ctx, "callback listener failed", "error", err)
		}
	}()
	return s.url, nil
}

// URL is the callback URL of a started server, empty otherwise.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Shutdown stops a started server; it is a no-op otherwise.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.url = nil, ""
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("callback shutdown: %w", err)
	}
	return nil
}
