package task

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// Ref addresses one task through its organization and project.
type Ref struct {
	OrganizationID domain.OrganizationID
	ProjectID      domain.ProjectID
	TaskID         domain.TaskID
}

// Project returns the project if it belongs to the organization.
func Project(ctx context.Context, r ports.Repositories, orgID domain.OrganizationID, projectID domain.ProjectID) (*domain.Project, error) {
	p, err := r.Projects().GetByID(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	return p, nil
}

// Locate resolves ref, failing NotFound when any link of the chain is missing.
func Locate(ctx context.Context, r ports.Repositories, ref Ref) (*domain.Task, error) {
	if _, err := Project(ctx, r, ref.OrganizationID, ref.ProjectID); err != nil {
		return nil, err
	}
	t, err := r.Tasks().GetByID(ctx, ref.ProjectID, ref.TaskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrTaskNotFound
	}
	return t, nil
}
