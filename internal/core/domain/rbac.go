package domain

import "time"

// ProfileStatus marks whether a profile may act in the system.
type ProfileStatus string

const (
	ProfileActive   ProfileStatus = "active"
	ProfileInactive ProfileStatus = "inactive"
)

// AdminRoleCode identifies the administrative role used by ownership checks.
const AdminRoleCode = "admin"

// Profile links an external identity subject to a department and a role.
// A subject without a profile is a valid state (provisioning races), not an
// error; such subjects simply hold no permissions.
type Profile struct {
	ID           string
	DepartmentID *string
	RoleID       *string
	Status       ProfileStatus
	DeletedAt    *time.Time
}

// Role is a named bundle of permission codes assigned to zero or more profiles.
type Role struct {
	ID        string
	Code      string
	Name      string
	SortOrder int
	DeletedAt *time.Time
}

// Permission is one grantable capability identified by a "<page>:<action>" code.
type Permission struct {
	ID        string
	Code      string
	Name      string
	SortOrder int
	DeletedAt *time.Time
}

// PermissionActions enumerates the valid "<action>" halves of a permission code.
var PermissionActions = []string{"view", "create", "edit", "delete"}

// RolePermission links a role with a permission; the resolver's unit of grant.
type RolePermission struct {
	RoleID       string
	PermissionID string
}

// Department is an ownership attribute for bulletins and requests; it takes
// no part in permission-code evaluation itself.
type Department struct {
	ID    string
	Code  string
	Name  string
	Email *string
}
