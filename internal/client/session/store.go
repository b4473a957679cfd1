// Package session keeps the client-held proof of authentication: an opaque
// token and a cached profile snapshot. Every component reads and changes the
// session through Store and never touches the storage underneath.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/nav"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
)

// Fixed storage keys.
const (
	TokenKey    = "auth_token"
	UserDataKey = "user_data"
)

// Store is the narrow read/write/clear surface over the persisted session.
//
// A present token is the only signal of authentication; expiry is not tracked.
type Store interface {
	IsAuthenticated(ctx context.Context) bool
	Token(ctx context.Context) (string, bool)
	// UserData returns the cached profile, or false when it is missing or
	// cannot be decoded.
	UserData(ctx context.Context) (*models.Profile, bool)
	// Persist writes the token and, when user is non-empty, the profile
	// snapshot. An empty user removes any stale snapshot.
	Persist(ctx context.Context, token string, user json.RawMessage) error
	// Logout clears the session and navigates to the auth entry route.
	Logout(ctx context.Context) error
}

// writeFunc runs fn against a repository, transactionally when the backing
// storage supports it.
type writeFunc func(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error

type store struct {
	repo      kv.Repository
	write     writeFunc
	navigator nav.Navigator
	log       logging.Logger
}

var _ Store = (*store)(nil)

// NewStore builds a Store over any kv.Repository. Writes are sequential: if
// the second one fails the first is not rolled back.
func NewStore(repo kv.Repository, navigator nav.Navigator, log logging.Logger) Store {
	return &store{
		repo: repo,
		write: func(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error {
			return fn(ctx, repo)
		},
		navigator: navigator,
		log:       log.With("component", "session"),
	}
}

// NewSQLiteStore builds a Store over the local database; Persist and Logout
// change both fields in one transaction.
func NewSQLiteStore(db *sql.DB, navigator nav.Navigator, log logging.Logger) Store {
	return &store{
		repo: kv.NewSQLiteRepository(db),
		write: func(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error {
			return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return fn(ctx, kv.NewSQLiteRepository(tx))
			})
		},
		navigator: navigator,
		log:       log.With("component", "session"),
	}
}

func (s *store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

func (s *store) Token(ctx context.Context) (string, bool) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "reading token failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (s *store) UserData(ctx context.Context) (*models.Profile, bool) {
	v, err := s.repo.Get(ctx, UserDataKey)
	if err != nil {
		s.log.Warn(ctx, "reading user data failed", "error", err)
		return nil, false
	}
	if len(v) == 0 {
		return nil, false
	}

	var p models.Profile
	if err := json.Unmarshal(v, &p); err != nil {
		s.log.Debug(ctx, "stored user data is malformed", "error", err)
		return nil, false
	}
	return &p, true
}

func (s *store) Persist(ctx context.Context, token string, user json.RawMessage) error {
	if token == "" {
		return errors.New("persist session: empty token")
	}

	err := s.write(ctx, func(ctx context.Context, repo kv.Repository) error {
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		if len(user) == 0 || string(user) == "null" {
			return repo.Delete(ctx, UserDataKey)
		}
		return repo.Set(ctx, UserDataKey, user)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.log.Debug(ctx, "session persisted", "with_profile", len(user) > 0)
	return nil
}

func (s *store) Logout(ctx context.Context) error {
	err := s.write(ctx, func(ctx context.Context, repo kv.Repository) error {
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, UserDataKey)
	})

	// navigation happens even when clearing failed so the user is not left
	// on a screen that assumes a session
	s.navigator.Navigate(nav.RouteAuth)

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}
