package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of mutation an audit record captures.
type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Valid reports whether a is a known action.
func (a AuditAction) Valid() bool {
	return a == AuditInsert || a == AuditUpdate || a == AuditDelete
}

// Entity names recorded in audit logs.
const (
	EntityUser         = "User"
	EntityOrganization = "Organization"
	EntityMembership   = "Membership"
	EntityProject      = "Project"
	EntityTask         = "Task"
	EntityComment      = "Comment"
	EntityTag          = "Tag"
	EntityAuditLog     = "AuditLog"
)

// FieldChange is one entry of an audit diff.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// AuditLog is an append-only record of one entity mutation.
type AuditLog struct {
	ID         uuid.UUID              `json:"id"`
	UserID     *uuid.UUID             `json:"userId"`
	RequestID  string                 `json:"requestId,omitempty"`
	Action     AuditAction            `json:"action"`
	EntityName string                 `json:"entityName"`
	EntityID   string                 `json:"entityId"`
	Before     map[string]any         `json:"before"`
	After      map[string]any         `json:"after"`
	Diff       map[string]FieldChange `json:"diff"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// AuditFilter narrows an audit log query. Zero values mean "any".
type AuditFilter struct {
	EntityName string
	EntityID   string
	UserID     *uuid.UUID
	Action     AuditAction
	Page       Page
}
