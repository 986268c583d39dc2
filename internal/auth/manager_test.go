package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawaz/digital-menu/internal/config"
	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

// fakeAccounts implements AccountStore over in-memory maps and counts every
// store contact, so tests can prove what a code path did and did not touch.
type fakeAccounts struct {
	byEmail    map[string]*model.AdminUser
	byUsername map[string]*model.AdminUser
	password   string

	verifyCalls   int
	usernameCalls int
	signOutCalls  int
	signedOut     []string

	lastLoginErr error
	lastLoginAt  map[string]time.Time
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byEmail:     make(map[string]*model.AdminUser),
		byUsername:  make(map[string]*model.AdminUser),
		password:    "s3cret",
		lastLoginAt: make(map[string]time.Time),
	}
}

func (f *fakeAccounts) add(u *model.AdminUser) {
	f.byEmail[u.Email] = u
	f.byUsername[u.Username] = u
}

func (f *fakeAccounts) VerifyCredentials(ctx context.Context, email, password string) (string, string, error) {
	f.verifyCalls++
	u, ok := f.byEmail[email]
	if !ok || password != f.password {
		return "", "", ErrInvalidCredential
	}
	return u.ID, "grant-" + u.ID, nil
}

func (f *fakeAccounts) GetActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	f.usernameCalls++
	u, ok := f.byUsername[username]
	if !ok || !u.IsActive {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAccounts) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccounts) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	f.lastLoginAt[id] = at
	return nil
}

func (f *fakeAccounts) ValidateGrant(grant string) (string, error) {
	id, ok := strings.CutPrefix(grant, "grant-")
	if !ok || id == "" {
		return "", errors.New("invalid grant")
	}
	return id, nil
}

func (f *fakeAccounts) SignOut(ctx context.Context, grant string) error {
	f.signOutCalls++
	f.signedOut = append(f.signedOut, grant)
	return nil
}

// fakeSessions implements SessionStore in memory.
type fakeSessions struct {
	rows map[string]*model.AdminSession

	insertErr     error
	deactivateErr error
	deactivated   []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: make(map[string]*model.AdminSession)}
}

func (f *fakeSessions) Insert(ctx context.Context, s *model.AdminSession) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *s
	f.rows[s.Token] = &cp
	return nil
}

func (f *fakeSessions) FindByToken(ctx context.Context, token string) (*model.AdminSession, error) {
	s, ok := f.rows[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Deactivate(ctx context.Context, token string) error {
	f.deactivated = append(f.deactivated, token)
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	if s, ok := f.rows[token]; ok {
		s.IsActive = false
	}
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTL:        24 * time.Hour,
		MaxLoginAttempts:  5,
		AttemptWindow:     15 * time.Minute,
		LockoutDuration:   15 * time.Minute,
		InactivityTimeout: 30 * time.Minute,
		CheckInterval:     time.Minute,
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeAccounts, *fakeSessions, *fakeClock) {
	t.Helper()
	accounts := newFakeAccounts()
	accounts.add(&model.AdminUser{
		ID:       "acct-1",
		Email:    "admin@example.com",
		Username: "karim",
		Role:     model.RoleAdmin,
		IsActive: true,
	})
	sessions := newFakeSessions()
	clk := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(testAuthConfig(), accounts, sessions, NewMemorySnapshotCache())
	m.setClock(clk.Now)
	return m, accounts, sessions, clk
}

func TestLoginSuccess(t *testing.T) {
	m, accounts, sessions, clk := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "test-agent")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "grant-acct-1", res.Grant)
	assert.Equal(t, "acct-1", res.Account.ID)
	require.NotNil(t, res.Account.LastLogin)
	assert.Equal(t, clk.t, *res.Account.LastLogin)
	assert.Equal(t, clk.t.Add(24*time.Hour), res.ExpiresAt)

	sess, err := sessions.FindByToken(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, sess.IsActive)
	assert.Equal(t, "acct-1", sess.UserID)
	assert.Equal(t, "test-agent", sess.UserAgent)

	assert.Equal(t, clk.t, accounts.lastLoginAt["acct-1"])
}

func TestLoginByUsername(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)

	res, err := m.Login(context.Background(), "karim", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", res.Account.ID)
	assert.Equal(t, 1, accounts.usernameCalls)
}

func TestLoginEmailSkipsUsernameLookup(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)

	_, err := m.Login(context.Background(), "admin@example.com", "s3cret", "")
	require.NoError(t, err)
	assert.Zero(t, accounts.usernameCalls)
}

func TestLoginSanitizesIdentifier(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	// Stray characters are stripped before the identifier reaches a store.
	res, err := m.Login(context.Background(), "  admin@example.com'; --", "s3cret", "")
	require.Error(t, err)
	assert.Nil(t, res)

	res, err = m.Login(context.Background(), " admin@example.com ", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", res.Account.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	res, err := m.Login(context.Background(), "admin@example.com", "wrong", "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginLockoutBeforeStoreContact(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.Login(ctx, "admin@example.com", "wrong", "")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	}
	assert.Equal(t, 5, accounts.verifyCalls)

	// The sixth attempt must be rejected without touching any store, even
	// with the correct password.
	_, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	var lockErr *LockoutError
	require.ErrorAs(t, err, &lockErr)
	assert.Greater(t, lockErr.RetryAfter, time.Duration(0))
	assert.Equal(t, 5, accounts.verifyCalls)
}

func TestLoginLockoutRetryAfterCountsFromFirstFailure(t *testing.T) {
	m, _, _, clk := newTestManager(t)
	ctx := context.Background()

	// One failure per second: lockout lands 15m after the first failure.
	for i := 0; i < 5; i++ {
		_, _ = m.Login(ctx, "admin@example.com", "wrong", "")
		clk.Advance(time.Second)
	}

	_, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	var lockErr *LockoutError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, 15*time.Minute-5*time.Second, lockErr.RetryAfter)
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = m.Login(ctx, "admin@example.com", "wrong", "")
	}
	_, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	// The counter restarted: one more failure is nowhere near the threshold.
	_, err = m.Login(ctx, "admin@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = m.Login(ctx, "admin@example.com", "s3cret", "")
	assert.NoError(t, err)
}

func TestLoginInactiveProfileTearsDownGrant(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)
	accounts.add(&model.AdminUser{
		ID:       "acct-2",
		Email:    "old@example.com",
		Username: "old",
		Role:     model.RoleAdmin,
		IsActive: false,
	})

	res, err := m.Login(context.Background(), "old@example.com", "s3cret", "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrProfileInactive)
	// The grant established during verification must not survive.
	assert.Equal(t, 1, accounts.signOutCalls)
	assert.Equal(t, []string{"grant-acct-2"}, accounts.signedOut)
}

func TestLoginSessionPersistFailureSignsOut(t *testing.T) {
	m, accounts, sessions, _ := newTestManager(t)
	sessions.insertErr = errors.New("db down")

	res, err := m.Login(context.Background(), "admin@example.com", "s3cret", "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSessionPersist)
	assert.Equal(t, 1, accounts.signOutCalls)
	assert.Equal(t, []string{"grant-acct-1"}, accounts.signedOut)
}

func TestCheckAuthSuccess(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	acct, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	require.True(t, ok)
	assert.Equal(t, "acct-1", acct.ID)
}

func TestCheckAuthMissingToken(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	acct, ok := m.CheckAuth(ctx, "", res.Grant)
	assert.False(t, ok)
	assert.Nil(t, acct)
}

func TestCheckAuthInvalidGrant(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	_, ok := m.CheckAuth(ctx, res.Token, "not-a-grant")
	assert.False(t, ok)

	// The invalid grant cleared the token's local state but left the
	// session row alone; a valid grant still authenticates it.
	_, ok = m.CheckAuth(ctx, res.Token, res.Grant)
	assert.True(t, ok)
}

func TestCheckAuthExpiredSessionDeactivates(t *testing.T) {
	m, _, sessions, clk := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	clk.Advance(25 * time.Hour)
	m.Touch(res.Token) // rule out the inactivity path

	acct, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	assert.False(t, ok)
	assert.Nil(t, acct)
	assert.Contains(t, sessions.deactivated, res.Token)

	sess, err := sessions.FindByToken(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, sess.IsActive)
}

func TestCheckAuthInactivityBeatsValidSession(t *testing.T) {
	m, _, sessions, clk := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	// Well inside the 24h session TTL but past the 30m inactivity limit.
	clk.Advance(31 * time.Minute)

	acct, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	assert.False(t, ok)
	assert.Nil(t, acct)
	assert.Contains(t, sessions.deactivated, res.Token)
}

func TestCheckAuthTouchKeepsSessionAlive(t *testing.T) {
	m, _, _, clk := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	// Activity every 20 minutes never crosses the 30m idle limit.
	for i := 0; i < 4; i++ {
		clk.Advance(20 * time.Minute)
		_, ok := m.CheckAuth(ctx, res.Token, res.Grant)
		require.True(t, ok)
	}
}

func TestCheckAuthIdentityMismatchSignsOut(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)
	accounts.add(&model.AdminUser{
		ID:       "acct-2",
		Email:    "second@example.com",
		Username: "second",
		Role:     model.RoleAdmin,
		IsActive: true,
	})
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	before := accounts.signOutCalls
	acct, ok := m.CheckAuth(ctx, res.Token, "grant-acct-2")
	assert.False(t, ok)
	assert.Nil(t, acct)
	assert.Equal(t, before+1, accounts.signOutCalls)
}

func TestCheckAuthDeactivatedSession(t *testing.T) {
	m, _, sessions, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)
	require.NoError(t, sessions.Deactivate(ctx, res.Token))

	_, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	assert.False(t, ok)
}

func TestCheckAuthInactiveAccount(t *testing.T) {
	m, accounts, _, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	accounts.byEmail["admin@example.com"].IsActive = false
	_, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	assert.False(t, ok)
}

func TestLogoutClearsLocalStateEvenWhenStoresFail(t *testing.T) {
	m, _, sessions, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	sessions.deactivateErr = errors.New("db down")
	m.Logout(ctx, res.Token, res.Grant)

	_, ok := m.lastActivity(res.Token)
	assert.False(t, ok, "activity entry must be gone after logout")
	_, ok = m.cache.Get(ctx, res.Token)
	assert.False(t, ok, "snapshot must be gone after logout")
}

func TestLogoutDeactivatesSession(t *testing.T) {
	m, accounts, sessions, _ := newTestManager(t)
	ctx := context.Background()

	res, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	m.Logout(ctx, res.Token, res.Grant)
	assert.Equal(t, []string{res.Token}, sessions.deactivated)
	assert.Contains(t, accounts.signedOut, res.Grant)

	_, ok := m.CheckAuth(ctx, res.Token, res.Grant)
	assert.False(t, ok)
}

func TestSweepIdleLogsOutStaleSessions(t *testing.T) {
	m, _, sessions, clk := newTestManager(t)
	ctx := context.Background()

	stale, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	clk.Advance(20 * time.Minute)
	fresh, err := m.Login(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	clk.Advance(15 * time.Minute) // stale is 35m idle, fresh 15m
	m.sweepIdle(ctx)

	assert.Contains(t, sessions.deactivated, stale.Token)
	assert.NotContains(t, sessions.deactivated, fresh.Token)

	_, ok := m.lastActivity(stale.Token)
	assert.False(t, ok)
	_, ok = m.lastActivity(fresh.Token)
	assert.True(t, ok)
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{" admin@example.com ", "admin@example.com"},
		{"kar im", "karim"},
		{"a+b_c-d.e@ex.io", "a+b_c-d.e@ex.io"},
		{"rob'; DROP TABLE--", "robDROPTABLE--"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, sanitizeIdentifier(tt.in))
	}
}
