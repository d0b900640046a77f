package task

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

// DeleteTask removes a task with its comments and tag links, in that order.
type DeleteTask struct {
	store ports.Store
}

func NewDeleteTask(store ports.Store) *DeleteTask {
	return &DeleteTask{store: store}
}

func (uc *DeleteTask) Execute(ctx context.Context, ref Ref) error {
	return uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		if _, err := Project(ctx, r, ref.OrganizationID, ref.ProjectID); err != nil {
			return err
		}
		return uc.ExecuteIn(ctx, r, ref)
	})
}

// ExecuteIn runs on the caller's transaction. The caller has already
// checked that the project belongs to the organization.
func (uc *DeleteTask) ExecuteIn(ctx context.Context, r ports.Repositories, ref Ref) error {
	if err := r.Comments().DeleteByTask(ctx, ref.TaskID); err != nil {
		return err
	}
	if err := r.Tags().DetachAll(ctx, ref.TaskID); err != nil {
		return err
	}
	return r.Tasks().Delete(ctx, ref.ProjectID, ref.TaskID)
}
