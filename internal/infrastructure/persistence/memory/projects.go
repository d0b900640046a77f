package memory

import (
	"context"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type projectRepo struct{ *repos }

func (r projectRepo) Create(ctx context.Context, p *domain.Project) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.orgs[p.OrganizationID.UUID]; !ok {
		return domerrors.ErrOrganizationNotFound
	}
	for _, ex := range st.projects {
		if ex.v.OrganizationID == p.OrganizationID && ex.v.Key == p.Key {
			return domerrors.ErrProjectKeyInUse
		}
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityProject, p.ID.String(), nil, p)
	if err != nil {
		return err
	}
	st.projects[p.ID.UUID] = row[domain.Project]{v: *p, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r projectRepo) GetByID(_ context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.projects[id.UUID]
	if !ok || ex.v.OrganizationID != orgID {
		return nil, nil
	}
	p := ex.v
	return &p, nil
}

func (r projectRepo) GetByKey(_ context.Context, orgID domain.OrganizationID, key string) (*domain.Project, error) {
	st, done := r.begin()
	defer done()
	for _, ex := range st.projects {
		if ex.v.OrganizationID == orgID && ex.v.Key == key {
			p := ex.v
			return &p, nil
		}
	}
	return nil, nil
}

func (r projectRepo) List(_ context.Context, orgID domain.OrganizationID, page domain.Page) ([]*domain.Project, int, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.projects, func(p domain.Project) bool { return p.OrganizationID == orgID })
	out := make([]*domain.Project, 0, len(rows))
	for _, ex := range paginate(rows, page) {
		p := ex.v
		out = append(out, &p)
	}
	return out, len(rows), nil
}

func (r projectRepo) Update(ctx context.Context, p *domain.Project) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.projects[p.ID.UUID]
	if !ok || ex.v.OrganizationID != p.OrganizationID {
		return domerrors.ErrProjectNotFound
	}
	after := ex.v
	after.Name = p.Name
	after.Description = p.Description
	after.UpdatedAt = time.Now().UTC()
	e, err := r.entry(ctx, domain.AuditUpdate, domain.EntityProject, p.ID.String(), &ex.v, &after)
	if err != nil {
		return err
	}
	ex.v = after
	st.projects[p.ID.UUID] = ex
	st.appendAudit(e)
	*p = after
	return nil
}

func (r projectRepo) ReserveTaskNumber(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, int, error) {
	if r.tx == nil {
		return nil, 0, errNotInTx
	}
	st := r.tx
	ex, ok := st.projects[id.UUID]
	if !ok || ex.v.OrganizationID != orgID {
		return nil, 0, domerrors.ErrProjectNotFound
	}
	after := ex.v
	after.LastTaskNumber++
	after.UpdatedAt = time.Now().UTC()
	e, err := r.entry(ctx, domain.AuditUpdate, domain.EntityProject, id.String(), &ex.v, &after)
	if err != nil {
		return nil, 0, err
	}
	ex.v = after
	st.projects[id.UUID] = ex
	st.appendAudit(e)
	return &after, after.LastTaskNumber, nil
}

func (r projectRepo) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.projects[id.UUID]
	if !ok || ex.v.OrganizationID != orgID {
		return domerrors.ErrProjectNotFound
	}
	e, err := r.entry(ctx, domain.AuditDelete, domain.EntityProject, id.String(), &ex.v, nil)
	if err != nil {
		return err
	}
	delete(st.projects, id.UUID)
	for tid, t := range st.tasks {
		if t.v.ProjectID == id {
			st.dropTask(tid)
		}
	}
	st.appendAudit(e)
	return nil
}
