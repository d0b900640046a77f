package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type projectRepo struct{ *repos }

func toProject(p db.Project) *domain.Project {
	return &domain.Project{
		ID:             domain.NewProjectID(p.ID),
		OrganizationID: domain.NewOrganizationID(p.OrganizationID),
		Name:           p.Name,
		Key:            p.Key,
		Description:    p.Description,
		LastTaskNumber: int(p.LastTaskNumber),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func projectRef(orgID domain.OrganizationID, id domain.ProjectID) db.ProjectRef {
	return db.ProjectRef{OrganizationID: orgID.UUID, ID: id.UUID}
}

func (r projectRepo) Create(ctx context.Context, p *domain.Project) error {
	if p.ID.UUID == (uuid.UUID{}) {
		p.ID = domain.NewProjectID(uuid.New())
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateProject(ctx, db.CreateProjectParams{
			ID:             p.ID.UUID,
			OrganizationID: p.OrganizationID.UUID,
			Name:           p.Name,
			Key:            p.Key,
			Description:    p.Description,
		})
		if err != nil {
			return translate(ctx, err)
		}
		*p = *toProject(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityProject, p.ID.String(), nil, p)
	})
}

func (r projectRepo) GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, error) {
	p, err := r.q.GetProjectByID(ctx, projectRef(orgID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toProject(p), nil
}

func (r projectRepo) GetByKey(ctx context.Context, orgID domain.OrganizationID, key string) (*domain.Project, error) {
	p, err := r.q.GetProjectByKey(ctx, db.GetProjectByKeyParams{OrganizationID: orgID.UUID, Key: key})
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toProject(p), nil
}

func (r projectRepo) List(ctx context.Context, orgID domain.OrganizationID, page domain.Page) ([]*domain.Project, int, error) {
	page = page.Normalize()
	total, err := r.q.CountProjects(ctx, orgID.UUID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.ListProjects(ctx, db.ListProjectsParams{
		OrganizationID: orgID.UUID,
		Limit:          int32(page.Limit),
		Offset:         int32(page.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Project, 0, len(rows))
	for _, p := range rows {
		out = append(out, toProject(p))
	}
	return out, int(total), nil
}

func (r projectRepo) Update(ctx context.Context, p *domain.Project) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		before, err := q.LockProject(ctx, projectRef(p.OrganizationID, p.ID))
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrProjectNotFound
			}
			return err
		}
		after, err := q.UpdateProject(ctx, db.UpdateProjectParams{
			OrganizationID: p.OrganizationID.UUID,
			ID:             p.ID.UUID,
			Name:           p.Name,
			Description:    p.Description,
		})
		if err != nil {
			return translate(ctx, err)
		}
		*p = *toProject(after)
		return recordMutation(ctx, q, domain.AuditUpdate, domain.EntityProject, p.ID.String(), toProject(before), p)
	})
}

// ReserveTaskNumber holds the project row lock until the surrounding
// transaction ends, so concurrent creators are numbered one after another.
func (r projectRepo) ReserveTaskNumber(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, int, error) {
	if !r.inTx {
		return nil, 0, errNotInTx
	}
	before, err := r.q.LockProject(ctx, projectRef(orgID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, 0, domerrors.ErrProjectNotFound
		}
		return nil, 0, err
	}
	row, err := r.q.IncrementTaskNumber(ctx, id.UUID)
	if err != nil {
		return nil, 0, err
	}
	after := toProject(row)
	if err := recordMutation(ctx, r.q, domain.AuditUpdate, domain.EntityProject, id.String(), toProject(before), after); err != nil {
		return nil, 0, err
	}
	return after, after.LastTaskNumber, nil
}

func (r projectRepo) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.DeleteProject(ctx, projectRef(orgID, id))
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrProjectNotFound
			}
			return translate(ctx, err)
		}
		return recordMutation(ctx, q, domain.AuditDelete, domain.EntityProject, id.String(), toProject(row), nil)
	})
}
