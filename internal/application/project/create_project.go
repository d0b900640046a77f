package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const (
	MinNameLength        = 3
	MaxNameLength        = 50
	MaxDescriptionLength = 255
)

// CreateProjectInput describes the project and, optionally, tasks to create
// with it.
type CreateProjectInput struct {
	OrganizationID domain.OrganizationID
	Name           string
	Key            string
	Description    string
	// InitialTasks are created in the same transaction; their organization
	// and project ids are filled in.
	InitialTasks []task.CreateTaskInput
}

// CreateProjectResult returns the created project and its initial tasks.
type CreateProjectResult struct {
	Project *domain.Project
	Tasks   []*domain.Task
}

// CreateProject creates a project with a key unique within its organization.
type CreateProject struct {
	store      ports.Store
	createTask *task.CreateTask
}

// NewCreateProject builds the use case.
func NewCreateProject(store ports.Store, createTask *task.CreateTask) *CreateProject {
	return &CreateProject{store: store, createTask: createTask}
}

// Execute creates the project and its initial tasks atomically.
func (uc *CreateProject) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectResult, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	var issues []domerrors.FieldIssue
	if err := validateName(name); err != nil {
		issues = append(issues, *err)
	}
	key, err := domain.NormalizeProjectKey(input.Key)
	if err != nil {
		issues = append(issues, domerrors.FieldIssue{Field: "key", Message: domerrors.ErrInvalidProjectKey.Message})
	}
	if err := validateDescription(description); err != nil {
		issues = append(issues, *err)
	}
	if len(issues) > 0 {
		return nil, domerrors.Validation(issues)
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:             domain.NewProjectID(uuid.New()),
		OrganizationID: input.OrganizationID,
		Name:           name,
		Key:            key,
		Description:    description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	result := &CreateProjectResult{Project: project, Tasks: []*domain.Task{}}
	err = uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		existing, err := r.Projects().GetByKey(ctx, input.OrganizationID, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return domerrors.ErrProjectKeyInUse
		}
		if err := r.Projects().Create(ctx, project); err != nil {
			return err
		}
		for i, in := range input.InitialTasks {
			in.OrganizationID = input.OrganizationID
			in.ProjectID = project.ID
			t, err := uc.createTask.ExecuteIn(ctx, r, in)
			if err != nil {
				return fmt.Errorf("initial task %d: %w", i, err)
			}
			result.Tasks = append(result.Tasks, t)
		}
		project.LastTaskNumber = len(result.Tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateName(name string) *domerrors.FieldIssue {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return &domerrors.FieldIssue{Field: "name", Message: fmt.Sprintf("must be between %d and %d characters", MinNameLength, MaxNameLength)}
	}
	return nil
}

func validateDescription(description string) *domerrors.FieldIssue {
	if len(description) > MaxDescriptionLength {
		return &domerrors.FieldIssue{Field: "description", Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	return nil
}
