package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationID is a value object for organization identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// String returns the canonical string form.
func (o OrganizationID) String() string { return o.UUID.String() }

// Organization is the tenant boundary; it owns projects, tags and memberships.
type Organization struct {
	ID        OrganizationID `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Role is a member's privilege level inside an organization.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// EnrollmentStatus is the lifecycle of a membership.
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "PENDING"
	EnrollmentAccepted EnrollmentStatus = "ACCEPTED"
	EnrollmentRejected EnrollmentStatus = "REJECTED"
)

// Membership links a user to an organization. At most one row exists per
// (user, organization) pair.
type Membership struct {
	ID             uuid.UUID        `json:"id"`
	UserID         UserID           `json:"userId"`
	OrganizationID OrganizationID   `json:"organizationId"`
	Role           Role             `json:"role"`
	Status         EnrollmentStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Invitation is a pending membership together with its organization, as
// shown to the invitee.
type Invitation struct {
	Membership   Membership   `json:"membership"`
	Organization Organization `json:"organization"`
}
