// Package models defines the shared entity types of the kaizen library:
// users with their roles, improvement records with their status lifecycle,
// drafts used while composing, and the audit trail attached to records.
package models

// Role controls what a user may read and do.
type Role string

const (
	RoleViewer      Role = "VIEWER"
	RoleContributor Role = "CONTRIBUTOR"
	RoleAdmin       Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleContributor, RoleAdmin:
		return true
	}
	return false
}

// User is a library account. Users are created by an Admin, never
// self-registered.
type User struct {
	ID       string
	Username string
	FullName string
	Role     Role
	Unit     string
}
