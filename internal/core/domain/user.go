package domain

import (
	"strings"
	"time"
)

// Role is one of the fixed privilege tags. Authorization is always an explicit
// allow-list of roles per operation; roles carry no implied ordering.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleModerator  Role = "MODERATOR"
	RoleViewer     Role = "VIEWER"
	RoleCitizen    Role = "CITIZEN"
)

// Roles lists every known role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleModerator, RoleViewer, RoleCitizen}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Status is the account lifecycle state. Only ACTIVE identities authenticate.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusPending   Status = "PENDING"
	StatusLocked    Status = "LOCKED"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusSuspended, StatusPending, StatusLocked}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Profile holds optional personal data.
type Profile struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	CI         string `json:"ci,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// User is an identity record. Secret fields are never serialized.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	PasswordHistory   []string   `json:"-"`
	RefreshTokenHash  string     `json:"-"`
	Role              Role       `json:"role"`
	Status            Status     `json:"status"`
	Profile           Profile    `json:"profile"`
	LoginAttempts     int        `json:"-"`
	LockUntil         *time.Time `json:"-"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedBy         string     `json:"created_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLocked reports whether the lock-until time is still in the future at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// PasswordExpired reports whether the password is older than maxAge.
// A zero maxAge disables expiry.
func (u *User) PasswordExpired(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	changed := u.CreatedAt
	if u.PasswordChangedAt != nil {
		changed = *u.PasswordChangedAt
	}
	return now.Sub(changed) > maxAge
}

// HasRole reports whether the user's role is in the allow-list.
func (u *User) HasRole(allowed ...Role) bool {
	for _, r := range allowed {
		if u.Role == r {
			return true
		}
	}
	return false
}

// LockoutPolicy bounds failed login attempts.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// Actor is the authenticated caller stamped on audited mutations.
type Actor struct {
	ID   string
	Role Role
}

// Is reports whether the actor holds any of the given roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
