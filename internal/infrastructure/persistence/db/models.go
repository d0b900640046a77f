package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Membership struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           string
	Status         string
	CreatedAt      time.Time
}

type Project struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Key            string
	Description    string
	LastTaskNumber int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	TaskNumber  int32
	Key         string
	Title       string
	Description string
	Status      string
	AssigneeID  pgtype.UUID
	SortOrder   int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Comment struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tag struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Color          string
}

type AuditLog struct {
	ID         uuid.UUID
	UserID     pgtype.UUID
	RequestID  string
	Action     string
	EntityName string
	EntityID   string
	Before     []byte
	After      []byte
	Diff       []byte
	CreatedAt  time.Time
}
