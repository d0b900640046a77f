package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
)

type CreateTaskInput struct {
	OrganizationID domain.OrganizationID
	ProjectID      domain.ProjectID
	Title          string
	Description    string
	// Status may be empty or TODO; tasks are always born in TODO.
	Status     domain.TaskStatus
	AssigneeID *domain.UserID
	Order      int
}

// CreateTask reserves the next task number of a project and stores the task
// under the derived key, in one transaction.
type CreateTask struct {
	store ports.Store
}

func NewCreateTask(store ports.Store) *CreateTask {
	return &CreateTask{store: store}
}

// Execute runs in its own transaction.
func (uc *CreateTask) Execute(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	var out *domain.Task
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		var err error
		out, err = uc.ExecuteIn(ctx, r, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteIn runs on repositories bound to the caller's open transaction.
func (uc *CreateTask) ExecuteIn(ctx context.Context, r ports.Repositories, input CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTaskFields(title, input.Description); err != nil {
		return nil, err
	}
	if input.Status != "" && input.Status != domain.StatusTodo {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", domerrors.ErrInvalidStatus, input.Status)
		}
		return nil, fmt.Errorf("%w: a new task starts in %s, not %s", domerrors.ErrInvalidTransition, domain.StatusTodo, input.Status)
	}
	project, n, err := r.Projects().ReserveTaskNumber(ctx, input.OrganizationID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Task{
		ID:          domain.NewTaskID(uuid.New()),
		ProjectID:   project.ID,
		TaskNumber:  n,
		Key:         project.TaskKey(n),
		Title:       title,
		Description: input.Description,
		Status:      domain.StatusTodo,
		AssigneeID:  input.AssigneeID,
		Order:       input.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Tasks().Create(ctx, t); err != nil {
		return nil, err
	}
	t.Tags = []domain.Tag{}
	return t, nil
}

func validateTaskFields(title, description string) error {
	var issues []domerrors.FieldIssue
	if title == "" || len(title) > MaxTitleLength {
		issues = append(issues, domerrors.FieldIssue{Field: "title", Message: fmt.Sprintf("must be between 1 and %d characters", MaxTitleLength)})
	}
	if len(description) > MaxDescriptionLength {
		issues = append(issues, domerrors.FieldIssue{Field: "description", Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)})
	}
	if len(issues) > 0 {
		return domerrors.Validation(issues)
	}
	return nil
}
