package task

import (
	"context"
	"strings"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// UpdateTaskInput patches a task; nil fields are left unchanged.
type UpdateTaskInput struct {
	Ref
	Title         *string
	Description   *string
	AssigneeID    *domain.UserID
	ClearAssignee bool
	Order         *int
	// Status goes through the workflow like TransitionStatus.
	Status *domain.TaskStatus
}

type UpdateTask struct {
	store ports.Store
}

func NewUpdateTask(store ports.Store) *UpdateTask {
	return &UpdateTask{store: store}
}

func (uc *UpdateTask) Execute(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	var out *domain.Task
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		t, err := lockTask(ctx, r, input.Ref)
		if err != nil {
			return err
		}
		if input.Title != nil {
			t.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			t.Description = *input.Description
		}
		if err := validateTaskFields(t.Title, t.Description); err != nil {
			return err
		}
		switch {
		case input.ClearAssignee:
			t.AssigneeID = nil
		case input.AssigneeID != nil:
			t.AssigneeID = input.AssigneeID
		}
		if input.Order != nil {
			t.Order = *input.Order
		}
		if input.Status != nil && *input.Status != t.Status {
			if err := t.Transition(*input.Status); err != nil {
				return err
			}
		}
		if err := r.Tasks().Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type TransitionStatusInput struct {
	Ref
	Status domain.TaskStatus
}

// TransitionStatus moves a task along the workflow under a row lock, so
// concurrent transitions of one task serialize.
type TransitionStatus struct {
	store ports.Store
}

func NewTransitionStatus(store ports.Store) *TransitionStatus {
	return &TransitionStatus{store: store}
}

func (uc *TransitionStatus) Execute(ctx context.Context, input TransitionStatusInput) (*domain.Task, error) {
	var out *domain.Task
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		t, err := lockTask(ctx, r, input.Ref)
		if err != nil {
			return err
		}
		if err := t.Transition(input.Status); err != nil {
			return err
		}
		if err := r.Tasks().Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lockTask(ctx context.Context, r ports.Repositories, ref Ref) (*domain.Task, error) {
	if _, err := Project(ctx, r, ref.OrganizationID, ref.ProjectID); err != nil {
		return nil, err
	}
	t, err := r.Tasks().GetForUpdate(ctx, ref.ProjectID, ref.TaskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrTaskNotFound
	}
	return t, nil
}
