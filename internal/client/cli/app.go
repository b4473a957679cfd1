package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/client/api"
	"github.com/dmitrijs2005/storefront/internal/client/callback"
	"github.com/dmitrijs2005/storefront/internal/client/config"
	"github.com/dmitrijs2005/storefront/internal/client/flow"
	"github.com/dmitrijs2005/storefront/internal/client/localdb"
	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/session"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Backend is everything the CLI asks of the storefront API.
type Backend interface {
	flow.AuthAPI
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	Ask(ctx context.Context, prompt string) (string, error)
	GoogleAuthURL() string
}

var _ Backend = (*api.Client)(nil)

// App is the interactive client. It implements nav.Navigator.
type App struct {
	config      *config.Config
	backend     Backend
	store       session.Store
	log         logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
	credentials *flow.CredentialController
	oauth       *flow.OAuthHandler
	callback    *callback.Server

	mu        sync.Mutex
	route     string
	otp       *flow.OTPController
	stopWatch context.CancelFunc
	watchDone chan struct{}
}

var _ nav.Navigator = (*App)(nil)

// NewApp opens the session database and builds the API client and flows.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, c.StorageDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a := &App{config: c, db: db}
	store := session.NewSQLiteStore(db, a, log)
	client := api.New(api.Config{BaseURL: c.APIBaseURL, Timeout: c.RequestTimeout}, &http.Client{}, store, log)

	a.init(client, store, log, bufio.NewReader(os.Stdin), os.Stdout)
	return a, nil
}

// init wires the flows; it is shared with tests.
func (a *App) init(backend Backend, store session.Store, log logging.Logger, reader *bufio.Reader, out io.Writer) {
	if a.config == nil {
		a.config = &config.Config{}
		a.config.LoadDefaults()
	}
	a.backend = backend
	a.store = store
	a.log = log.With("component", "cli")
	a.reader = reader
	a.out = out
	a.route = nav.RouteAuth

	a.credentials = flow.NewCredentialController(backend, store, a, log, flow.CredentialConfig{
		SuccessDelay: a.config.SuccessDelay,
		Observer:     a.showCredentialMessage(),
	})
	a.oauth = flow.NewOAuthHandler(flow.NewSessionCompleter(store), a, log, flow.OAuthConfig{
		SuccessDelay: a.config.SuccessDelay,
	})
	a.callback = callback.New(a.config.CallbackAddr, a.oauth, log)
}

// Run starts on the home route when a session exists, on the auth route
// otherwise, and serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close(context.WithoutCancel(ctx))

	printlnFn("Welcome to the storefront CLI (type 'help' for commands)")
	if a.isLoggedIn(ctx) {
		a.Navigate(nav.RouteHome)
	} else {
		a.Navigate(nav.RouteAuth)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the OTP countdown, the callback listener and the database.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	otp := a.otp
	a.otp = nil
	stopWatch, watchDone := a.stopWatch, a.watchDone
	a.stopWatch, a.watchDone = nil, nil
	a.mu.Unlock()
	if otp != nil {
		otp.Close()
	}
	if stopWatch != nil {
		stopWatch()
		<-watchDone
	}

	var errs []error
	if err := a.callback.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.store.IsAuthenticated(ctx)
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

func (a *App) activeOTP() *flow.OTPController {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.otp
}

// getStatus renders the prompt status: "(user) route".
func (a *App) getStatus() string {
	ctx := context.Background()
	s := a.currentRoute()
	if profile, ok := a.store.UserData(ctx); ok {
		return fmt.Sprintf("(%s) %s", profile.DisplayName(), s)
	}
	if a.isLoggedIn(ctx) {
		return "(signed in) " + s
	}
	return s
}
