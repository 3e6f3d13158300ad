package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleEmployee   = "employee"
	RoleKitchen    = "kitchen"
	RoleMenuEditor = "menu_editor"
	RoleAdmin      = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid role")
var ErrUserExists = errors.New("user already exists")
var ErrAccountInactive = errors.New("account is inactive")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrReconcileCreate and ErrReconcileUpdate mark reconciliation writes that
// failed. A sign-in that hits either must be failed outright: a session is
// never allowed to exist without a backing user record.
var ErrReconcileCreate = errors.New("failed to create user record")
var ErrReconcileUpdate = errors.New("failed to link user record")

// User is the system's own record for an authenticated person. Once
// reconciled, ID equals the external identity id issued by the auth provider.
// An empty CompanyID means unassigned, pending admin action.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CompanyID string    `json:"company_id,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the four enumerated roles.
func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleKitchen, RoleMenuEditor, RoleAdmin:
		return true
	}
	return false
}

// dashboards maps each role to its canonical landing route.
var dashboards = map[string]string{
	RoleAdmin:      "/admin",
	RoleMenuEditor: "/editor",
	RoleEmployee:   "/employee",
	RoleKitchen:    "/kitchen",
}

// DashboardPath returns the canonical landing route for a role. Unrecognized
// roles fall back to the employee dashboard; the fallback is a defensive
// default, not a validated business rule.
func DashboardPath(role string) string {
	if path, ok := dashboards[role]; ok {
		return path
	}
	return dashboards[RoleEmployee]
}

// FullNameFromEmail derives a default display name from the local part of an
// email address, used when the auth provider supplies no profile name.
func FullNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
