package project

import (
	"context"
	"strings"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type GetProject struct {
	store ports.Store
}

func NewGetProject(store ports.Store) *GetProject {
	return &GetProject{store: store}
}

func (uc *GetProject) Execute(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, error) {
	return task.Project(ctx, uc.store, orgID, id)
}

type ListProjects struct {
	projects ports.ProjectRepository
}

func NewListProjects(projects ports.ProjectRepository) *ListProjects {
	return &ListProjects{projects: projects}
}

func (uc *ListProjects) Execute(ctx context.Context, orgID domain.OrganizationID, page domain.Page) (*domain.PageResult[*domain.Project], error) {
	page = page.Normalize()
	items, total, err := uc.projects.List(ctx, orgID, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Project{}
	}
	return &domain.PageResult[*domain.Project]{Items: items, Pagination: domain.NewPagination(page, total)}, nil
}

// UpdateProjectInput patches name and description; the key never changes.
type UpdateProjectInput struct {
	OrganizationID domain.OrganizationID
	ProjectID      domain.ProjectID
	Name           *string
	Description    *string
}

type UpdateProject struct {
	store ports.Store
}

func NewUpdateProject(store ports.Store) *UpdateProject {
	return &UpdateProject{store: store}
}

func (uc *UpdateProject) Execute(ctx context.Context, input UpdateProjectInput) (*domain.Project, error) {
	var out *domain.Project
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		p, err := task.Project(ctx, r, input.OrganizationID, input.ProjectID)
		if err != nil {
			return err
		}
		var issues []domerrors.FieldIssue
		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
			if fi := validateName(p.Name); fi != nil {
				issues = append(issues, *fi)
			}
		}
		if input.Description != nil {
			p.Description = strings.TrimSpace(*input.Description)
			if fi := validateDescription(p.Description); fi != nil {
				issues = append(issues, *fi)
			}
		}
		if len(issues) > 0 {
			return domerrors.Validation(issues)
		}
		if err := r.Projects().Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject removes a project after deleting each of its tasks (with
// their comments and tag links), all in one transaction.
type DeleteProject struct {
	store      ports.Store
	deleteTask *task.DeleteTask
}

func NewDeleteProject(store ports.Store, deleteTask *task.DeleteTask) *DeleteProject {
	return &DeleteProject{store: store, deleteTask: deleteTask}
}

func (uc *DeleteProject) Execute(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) error {
	return uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		if _, err := task.Project(ctx, r, orgID, id); err != nil {
			return err
		}
		ids, err := r.Tasks().ListIDs(ctx, id)
		if err != nil {
			return err
		}
		for _, tid := range ids {
			if err := uc.deleteTask.ExecuteIn(ctx, r, task.Ref{OrganizationID: orgID, ProjectID: id, TaskID: tid}); err != nil {
				return err
			}
		}
		return r.Projects().Delete(ctx, orgID, id)
	})
}
