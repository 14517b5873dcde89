package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Role tags carried on a person. These double as role names in the roles
// table, which holds the capability grants for each tag.
const (
	RoleMember    = "MEMBER"
	RoleStaff     = "STAFF"
	RoleLibrarian = "LIBRARIAN"
	RoleAdmin     = "ADMIN"
)

// Member account statuses.
const (
	AccountActive    = "ACTIVE"
	AccountSuspended = "SUSPENDED"
	AccountClosed    = "CLOSED"
)

// DefaultMaxBookLimit is the loan cap recorded on new members. It is recorded
// and reported but not enforced at issue time.
const DefaultMaxBookLimit = 5

type Person struct {
	bun.BaseModel `bun:"table:persons,alias:p"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `bun:",nullzero" json:"name"`
	PasswordHash string    `json:"-"` // Never expose password hash
	ContactInfo  string    `json:"contact_info"`
	RoleName     string    `bun:"role,nullzero" json:"role"`

	// Member payload; null for staff rows.
	AccountStatus *string `json:"account_status,omitempty"`
	MaxBookLimit  *int    `json:"max_book_limit,omitempty"`

	// Staff payload; null for member rows.
	Salary *float64 `json:"salary,omitempty"`

	// Relations
	Role *Role `bun:"rel:belongs-to,join:role=name" json:"-"`
}

// IsMember reports whether the person carries the borrower role tag.
func (p *Person) IsMember() bool {
	return p.RoleName == RoleMember
}

// IsStaff reports whether the person carries any staff role tag.
func (p *Person) IsStaff() bool {
	switch p.RoleName {
	case RoleStaff, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// HasPermission checks if the person's role grants a specific permission.
// A person with no loaded role has no permissions.
func (p *Person) HasPermission(resource, operation string) bool {
	if p.Role == nil {
		return false
	}
	return p.Role.HasPermission(resource, operation)
}
