// Package auth implements the admin session lifecycle: login with
// per-identifier lockout, opaque session tokens backed by the
// admin_sessions table, a signed auth grant cross-checked against the
// session owner, and inactivity-based timeout enforced by a background
// sweep.
package auth

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rawaz/digital-menu/internal/config"
	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/utils"
)

// Manager owns all process-local authentication state: the login attempt
// tracker, per-session activity timestamps and the snapshot cache. It is
// created once at startup and torn down with Stop; handlers and middleware
// share the one instance.
type Manager struct {
	cfg      config.AuthConfig
	accounts AccountStore
	sessions SessionStore
	cache    SnapshotCache
	attempts *attemptTracker
	now      func() time.Time

	mu       sync.Mutex
	activity map[string]time.Time // session token -> last seen

	stopOnce sync.Once
	stop     chan struct{}
}

// LoginResult is everything a successful login hands back to the client:
// the opaque session token, the auth grant presented as a bearer token, the
// account snapshot and the session's hard expiry.
type LoginResult struct {
	Token     string
	Grant     string
	Account   *model.AdminUser
	ExpiresAt time.Time
}

// NewManager wires the session manager. The cache may be an in-memory or
// Redis-backed SnapshotCache.
func NewManager(cfg config.AuthConfig, accounts AccountStore, sessions SessionStore, cache SnapshotCache) *Manager {
	now := time.Now
	return &Manager{
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
		cache:    cache,
		attempts: newAttemptTracker(cfg.MaxLoginAttempts, cfg.AttemptWindow, cfg.LockoutDuration, now),
		now:      now,
		activity: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
}

// setClock rebases the manager and its tracker onto an injected clock.
// Only tests call this.
func (m *Manager) setClock(now func() time.Time) {
	m.now = now
	m.attempts.now = now
}

// sanitizeIdentifier trims the identifier and strips every character that
// cannot appear in an email address or username, so free-text input never
// reaches a store query unfiltered.
func sanitizeIdentifier(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '@', r == '.', r == '_', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && strings.Contains(s[at:], ".")
}

// Login runs the full admin login flow. The lockout check happens before
// any store is contacted; every downstream failure is collapsed into
// ErrInvalidCredential or ErrProfileInactive so the response never reveals
// which factor was wrong. A session-persistence failure tears down the
// grant established during credential verification.
func (m *Manager) Login(ctx context.Context, identifier, password, userAgent string) (*LoginResult, error) {
	identifier = sanitizeIdentifier(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	if wait, locked := m.attempts.Check(identifier); locked {
		return nil, &LockoutError{RetryAfter: wait}
	}

	// Resolve the identifier to an email. A username is matched exactly,
	// case-sensitively, against active accounts only.
	email := identifier
	if !looksLikeEmail(identifier) {
		u, err := m.accounts.GetActiveByUsername(ctx, identifier)
		if err != nil {
			m.attempts.Fail(identifier)
			return nil, ErrInvalidCredential
		}
		email = u.Email
	}

	accountID, grant, err := m.accounts.VerifyCredentials(ctx, email, password)
	if err != nil {
		m.attempts.Fail(identifier)
		return nil, ErrInvalidCredential
	}

	acct, err := m.accounts.GetByID(ctx, accountID)
	if err != nil || !acct.IsActive {
		m.attempts.Fail(identifier)
		_ = m.accounts.SignOut(ctx, grant)
		return nil, ErrProfileInactive
	}

	now := m.now().UTC()
	// Best-effort: a failed stamp must not abort the login.
	if err := m.accounts.UpdateLastLogin(ctx, acct.ID, now); err != nil {
		log.Printf("auth: last-login update failed for account %s: %v", acct.ID, err)
	}

	token, err := utils.NewSessionToken(acct.ID)
	if err != nil {
		_ = m.accounts.SignOut(ctx, grant)
		return nil, ErrSessionPersist
	}
	sess := &model.AdminSession{
		ID:        uuid.NewString(),
		UserID:    acct.ID,
		Token:     token,
		ExpiresAt: now.Add(m.cfg.SessionTTL),
		IsActive:  true,
		UserAgent: userAgent,
	}
	if err := m.sessions.Insert(ctx, sess); err != nil {
		_ = m.accounts.SignOut(ctx, grant)
		return nil, ErrSessionPersist
	}

	m.attempts.Reset(identifier)
	// Snapshot carries the login we just stamped, not the pre-update value.
	snap := *acct
	snap.LastLogin = &now
	m.cache.Set(ctx, token, &snap)
	m.Touch(token)

	return &LoginResult{Token: token, Grant: grant, Account: &snap, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout deactivates the session row and signs out the grant, both
// best-effort: local state is always cleared even when the stores are
// unreachable.
func (m *Manager) Logout(ctx context.Context, token, grant string) {
	if token != "" {
		if err := m.sessions.Deactivate(ctx, token); err != nil {
			log.Printf("auth: session deactivation failed: %v", err)
		}
	}
	if grant != "" {
		if err := m.accounts.SignOut(ctx, grant); err != nil {
			log.Printf("auth: grant sign-out failed: %v", err)
		}
	}
	m.clearLocal(ctx, token)
}

// CheckAuth decides whether the token+grant pair still identifies a live
// admin session. Every failure short-circuits to (nil, false) and, except
// for a missing token, clears the local state for that token. On success
// the snapshot cache and activity timestamp are refreshed and the current
// account is returned.
func (m *Manager) CheckAuth(ctx context.Context, token, grant string) (*model.AdminUser, bool) {
	now := m.now().UTC()

	// 1. Inactivity beats everything, including an otherwise valid session.
	if last, ok := m.lastActivity(token); ok && now.Sub(last) > m.cfg.InactivityTimeout {
		m.Logout(ctx, token, grant)
		return nil, false
	}

	// 2. The grant must still verify.
	grantID, err := m.accounts.ValidateGrant(grant)
	if err != nil {
		m.clearLocal(ctx, token)
		return nil, false
	}

	// 3. No token, no session. The grant is left alone; the client may
	// still be completing a login elsewhere.
	if token == "" {
		return nil, false
	}

	// 4. The session row must exist and be active.
	sess, err := m.sessions.FindByToken(ctx, token)
	if err != nil || !sess.IsActive {
		m.clearLocal(ctx, token)
		return nil, false
	}

	// 5. Hard expiry deactivates the row so it cannot be replayed.
	if now.After(sess.ExpiresAt) {
		if err := m.sessions.Deactivate(ctx, token); err != nil {
			log.Printf("auth: expiring session deactivation failed: %v", err)
		}
		m.clearLocal(ctx, token)
		return nil, false
	}

	// 6. A stale token pointing at a different identity than the grant
	// means the two halves of the credential no longer belong together.
	if grantID != sess.UserID {
		_ = m.accounts.SignOut(ctx, grant)
		m.clearLocal(ctx, token)
		return nil, false
	}

	// 7. The owning account must still be active.
	acct, err := m.accounts.GetByID(ctx, sess.UserID)
	if err != nil || !acct.IsActive {
		m.clearLocal(ctx, token)
		return nil, false
	}

	// 8. Refresh local state from the freshly loaded account.
	m.cache.Set(ctx, token, acct)
	m.Touch(token)
	return acct, true
}

// Touch records activity for a session token. The auth middleware calls it
// on every authenticated request.
func (m *Manager) Touch(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	m.activity[token] = m.now()
	m.mu.Unlock()
}

func (m *Manager) lastActivity(token string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.activity[token]
	return t, ok
}

func (m *Manager) clearLocal(ctx context.Context, token string) {
	if token == "" {
		return
	}
	m.cache.Delete(ctx, token)
	m.mu.Lock()
	delete(m.activity, token)
	m.mu.Unlock()
}

// StartMonitor launches the background sweep that logs out sessions idle
// beyond the inactivity timeout. It must be paired with Stop so the ticker
// goroutine does not outlive the manager.
func (m *Manager) StartMonitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.cfg.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweepIdle(ctx)
			}
		}
	}()
}

// Stop tears down the background monitor. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) sweepIdle(ctx context.Context) {
	now := m.now()
	m.mu.Lock()
	var idle []string
	for token, last := range m.activity {
		if now.Sub(last) > m.cfg.InactivityTimeout {
			idle = append(idle, token)
		}
	}
	m.mu.Unlock()

	for _, token := range idle {
		log.Printf("auth: session idle beyond %s, logging out", m.cfg.InactivityTimeout)
		m.Logout(ctx, token, "")
	}
}
