package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rawaz/digital-menu/internal/model"
)

// SessionRepo persists admin sessions in the `admin_sessions` table. Rows
// are never deleted; logout and expiry flip is_active off so the table
// doubles as a login audit trail.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Insert stores a freshly minted session as active.
func (r *SessionRepo) Insert(ctx context.Context, s *model.AdminSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, user_id, session_token, expires_at, is_active, user_agent) VALUES (?,?,?,?,1,?)`,
		s.ID, s.UserID, s.Token, s.ExpiresAt.UTC(), s.UserAgent)
	return err
}

// FindByToken returns the session carrying the given token, active or not;
// the caller decides what an inactive or expired row means.
func (r *SessionRepo) FindByToken(ctx context.Context, token string) (*model.AdminSession, error) {
	var s model.AdminSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_token, expires_at, is_active, user_agent, created_at
		 FROM admin_sessions WHERE session_token=? LIMIT 1`,
		token).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.IsActive, &s.UserAgent, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Deactivate marks the session with the given token inactive. Deactivating
// an already inactive or unknown token is not an error.
func (r *SessionRepo) Deactivate(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_sessions SET is_active=0 WHERE session_token=? AND is_active=1`, token)
	return err
}
