// Package session manages the admin login session in a cookie-bound,
// SQLite-backed session store.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/dukerupert/noticeboard/internal/auth"
)

const (
	cookieName      = "noticeboard_session"
	keyLoggedIn     = "logged_in"
	keyLoggedInAt   = "logged_in_at"
	defaultLifetime = 24 * time.Hour
)

type Manager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// New creates a session manager persisting sessions in db.
func New(db *sql.DB, lifetime time.Duration, secure bool) *Manager {
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}

	st := sqlite3store.New(db)

	sm := scs.New()
	sm.Store = st
	sm.Lifetime = lifetime
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure

	return &Manager{SessionManager: sm, store: st}
}

// Login renews the session token and sets the logged-in flag.
func (m *Manager) Login(ctx context.Context, now time.Time) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	m.Put(ctx, keyLoggedIn, true)
	m.Put(ctx, keyLoggedInAt, now.Unix())
	return nil
}

// Logout clears all session state.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.Destroy(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Current returns the logged-in session, if any.
func (m *Manager) Current(ctx context.Context) (auth.Session, bool) {
	if !m.GetBool(ctx, keyLoggedIn) {
		return auth.Session{}, false
	}
	return auth.Session{
		Token:      m.Token(ctx),
		LoggedInAt: time.Unix(m.GetInt64(ctx, keyLoggedInAt), 0),
	}, true
}

// Close stops the background cleanup of expired sessions.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
