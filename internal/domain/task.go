package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// String returns the canonical string form.
func (t TaskID) String() string { return t.UUID.String() }

// TaskStatus is a position in the task workflow.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// ParseTaskStatus returns the status named by s.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", domerrors.ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// CanTransition reports whether the workflow allows moving from -> to.
// DONE is not terminal: it may reopen to TODO.
func CanTransition(from, to TaskStatus) bool {
	switch from {
	case StatusTodo:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusReview || to == StatusTodo
	case StatusReview:
		return to == StatusDone || to == StatusInProgress
	case StatusDone:
		return to == StatusTodo
	default:
		return false
	}
}

// Task is a unit of work inside a project. Key and TaskNumber are assigned
// once at creation and never change.
type Task struct {
	ID          TaskID     `json:"id"`
	ProjectID   ProjectID  `json:"projectId"`
	TaskNumber  int        `json:"taskNumber"`
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssigneeID  *UserID    `json:"assigneeId"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Tags        []Tag      `json:"tags"`
}

// Transition moves the task to status to, or returns ErrInvalidTransition
// naming both states.
func (t *Task) Transition(to TaskStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", domerrors.ErrInvalidStatus, to)
	}
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%w: cannot move task %s from %s to %s", domerrors.ErrInvalidTransition, t.Key, t.Status, to)
	}
	t.Status = to
	return nil
}
