package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a note attached to a task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    TaskID    `json:"taskId"`
	AuthorID  UserID    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentWithAuthor is a comment plus the author's display name.
type CommentWithAuthor struct {
	Comment
	AuthorName string `json:"authorName"`
}

// Tag is an organization-scoped label; (Name, OrganizationID) is unique.
type Tag struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID OrganizationID `json:"organizationId"`
	Name           string         `json:"name"`
	Color          string         `json:"color"`
}

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "grey"
