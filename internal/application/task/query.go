package task

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

type GetTask struct {
	store ports.Store
}

func NewGetTask(store ports.Store) *GetTask {
	return &GetTask{store: store}
}

func (uc *GetTask) Execute(ctx context.Context, ref Ref) (*domain.Task, error) {
	return Locate(ctx, uc.store, ref)
}

type ListTasksInput struct {
	OrganizationID domain.OrganizationID
	ProjectID      domain.ProjectID
	Page           domain.Page
	// Status filters by status when non-empty.
	Status string
}

// ListTasks returns a page of a project's tasks, newest first.
type ListTasks struct {
	store ports.Store
}

func NewListTasks(store ports.Store) *ListTasks {
	return &ListTasks{store: store}
}

func (uc *ListTasks) Execute(ctx context.Context, input ListTasksInput) (*domain.PageResult[*domain.Task], error) {
	f := ports.TaskFilter{ProjectID: input.ProjectID, Page: input.Page.Normalize()}
	if input.Status != "" {
		st, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if _, err := Project(ctx, uc.store, input.OrganizationID, input.ProjectID); err != nil {
		return nil, err
	}
	items, total, err := uc.store.Tasks().List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Task{}
	}
	return &domain.PageResult[*domain.Task]{Items: items, Pagination: domain.NewPagination(f.Page, total)}, nil
}
