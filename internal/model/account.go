package model

import "time"

// Admin roles form a closed set. SUPER_ADMIN is the elevated role and may
// manage other admin accounts in addition to everything ADMIN can do.
const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// AdminUser represents a back-office account as stored in the `admin_users`
// table. The struct is serialized both into snapshots and into API
// responses; the password hash is excluded from JSON so it can never leak
// through either path.
//
// Fields:
//  ID           – primary key (uuid).
//  Username     – unique login name, matched case-sensitively.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or SUPER_ADMIN.
//  IsActive     – whether the account may log in.
//  RestaurantID – restaurant this admin belongs to.
//  LastLogin    – timestamp of the most recent successful login (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type AdminUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	RestaurantID string     `json:"restaurant_id"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AdminSession models a row in the `admin_sessions` table. A session is
// created at login and deactivated at logout or on detected expiry; rows are
// retained for audit and never deleted by the application.
//
// Fields:
//  ID        – primary key (uuid).
//  UserID    – owning admin_users.id.
//  Token     – opaque session token, unique per session.
//  ExpiresAt – hard expiry, a fixed offset from creation.
//  IsActive  – false once logged out or expired.
//  UserAgent – client metadata captured at login.
//  CreatedAt – timestamp of creation.
type AdminSession struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	IsActive  bool
	UserAgent string
	CreatedAt time.Time
}
