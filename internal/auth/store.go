package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
	"github.com/rawaz/digital-menu/internal/utils"
)

// AccountStore is the credential and profile backend the Manager talks to.
// Credential verification yields an auth grant alongside the account id; the
// grant is a second, independent proof of identity that CheckAuth
// cross-checks against the session row's owner.
type AccountStore interface {
	// VerifyCredentials checks email+password against an active account and
	// returns the account id and a signed auth grant. Any failure, including
	// store unavailability, must come back as ErrInvalidCredential.
	VerifyCredentials(ctx context.Context, email, password string) (accountID, grant string, err error)
	// GetActiveByUsername resolves a username (case-sensitive, exact) to its
	// account, restricted to active accounts.
	GetActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	// GetByID loads an account profile.
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	// UpdateLastLogin stamps the most recent successful login.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// ValidateGrant returns the account id a grant was issued for, or an
	// error when the grant is absent, malformed or expired.
	ValidateGrant(grant string) (accountID string, err error)
	// SignOut invalidates a grant. Used both at logout and to tear down
	// partially established auth state on failed logins.
	SignOut(ctx context.Context, grant string) error
}

// SessionStore persists admin sessions.
type SessionStore interface {
	Insert(ctx context.Context, s *model.AdminSession) error
	FindByToken(ctx context.Context, token string) (*model.AdminSession, error)
	Deactivate(ctx context.Context, token string) error
}

// accountClient implements AccountStore over the MySQL account repository
// with HS256 JWTs as grants. With stateless grants, SignOut has nothing to
// revoke server-side; the contract is kept so the Manager's teardown paths
// stay explicit and testable.
type accountClient struct {
	accounts *repository.AccountRepo
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAccountStore builds the production AccountStore. Grant lifetime is
// tied to the session TTL so neither check outlives the other.
func NewAccountStore(accounts *repository.AccountRepo, secret string, ttl time.Duration) AccountStore {
	return &accountClient{
		accounts: accounts,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *accountClient) VerifyCredentials(ctx context.Context, email, password string) (string, string, error) {
	u, err := c.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Not-found and store failure look identical to the caller.
		return "", "", ErrInvalidCredential
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return "", "", ErrInvalidCredential
	}

	now := c.now().UTC()
	claims := jwt.MapClaims{
		"sub": u.ID,
		"exp": now.Add(c.ttl).Unix(),
		"iat": now.Unix(),
	}
	grant, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", ErrInvalidCredential
	}
	return u.ID, grant, nil
}

func (c *accountClient) GetActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return c.accounts.GetActiveByUsername(ctx, username)
}

func (c *accountClient) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return c.accounts.GetByID(ctx, id)
}

func (c *accountClient) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return c.accounts.UpdateLastLogin(ctx, id, at)
}

func (c *accountClient) ValidateGrant(grant string) (string, error) {
	if grant == "" {
		return "", errors.New("empty grant")
	}
	tok, err := jwt.Parse(grant, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("invalid grant")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("grant missing subject")
	}
	return sub, nil
}

func (c *accountClient) SignOut(ctx context.Context, grant string) error {
	// Stateless grants expire on their own; discarding the token is the
	// whole revocation.
	return nil
}
