package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/utils"
)

// AccountRepo provides access to the `admin_users` table.
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo constructs an AccountRepo with the given DB handle.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, username, email, password_hash, role, is_active, restaurant_id, last_login, created_at, updated_at`

func scanAccount(row *sql.Row) (*model.AdminUser, error) {
	var u model.AdminUser
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.RestaurantID, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// Create inserts an admin account and returns its generated id. The email
// is normalized to lower case; the username is stored as given because
// logins match it case-sensitively.
func (r *AccountRepo) Create(ctx context.Context, username, email, password, role, restaurantID string, cost int) (string, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, username, email, password_hash, role, restaurant_id) VALUES (?,?,?,?,?,?)`,
		id, username, strings.ToLower(strings.TrimSpace(email)), hash, role, restaurantID)
	if err != nil {
		// MySQL error 1062: duplicate key
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches an account by normalized email regardless of active
// flag; credential verification checks the flag itself so inactive accounts
// fail the same way as wrong passwords.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM admin_users WHERE email=? LIMIT 1`, email))
}

// GetActiveByUsername resolves a username to its account, restricted to
// active accounts. The match is case-sensitive and exact (BINARY collation
// keeps MySQL from case-folding).
func (r *AccountRepo) GetActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM admin_users WHERE BINARY username=? AND is_active=1 LIMIT 1`, username))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM admin_users WHERE id=? LIMIT 1`, id))
}

// UpdateLastLogin stamps the account's last successful login.
func (r *AccountRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login=? WHERE id=?`, at.UTC(), id)
	return err
}
