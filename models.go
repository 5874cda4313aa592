package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Verified      bool       `bun:"verified" json:"verified"`
	IsSuperAdmin  bool       `bun:"is_super_admin" json:"is_super_admin,omitempty"`
	IsBanned      bool       `bun:"is_banned" json:"is_banned"`
	BanReason     string     `bun:"ban_reason" json:"ban_reason,omitempty"`
	LastLogin     *time.Time `bun:"last_login,nullzero" json:"last_login,omitempty"`
	ArchivedAt    *time.Time `bun:"archived_at,nullzero" json:"archived_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Touch bumps the advisory last-login timestamp. Login and token refresh
// both call it.
func (u *User) Touch(at time.Time) *User {
	u.LastLogin = &at
	return u
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// index agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LogType labels an audit log entry
type LogType = string

const (
	LogUserRegistered      LogType = "user_registered"
	LogUserVerified        LogType = "user_verified"
	LogUserLogin           LogType = "user_login"
	LogUserBanned          LogType = "user_banned"
	LogUserUnbanned        LogType = "user_unbanned"
	LogUserArchived        LogType = "user_archived"
	LogUserRestored        LogType = "user_restored"
	LogUserEmailUpdated    LogType = "user_email_updated"
	LogUserPasswordUpdated LogType = "user_password_updated"
)

// AuthLog is a persisted audit event
type AuthLog struct {
	bun.BaseModel `bun:"table:auth_logs,alias:alog"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	LogType       LogType    `bun:"log_type,notnull" json:"log_type,omitempty"`
	Message       string     `bun:"message,notnull" json:"message,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
