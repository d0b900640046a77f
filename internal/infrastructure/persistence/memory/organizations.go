package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type orgRepo struct{ *repos }

func (r orgRepo) Create(ctx context.Context, o *domain.Organization) error {
	st, done := r.begin()
	defer done()
	for _, ex := range st.orgs {
		if ex.v.Name == o.Name {
			return domerrors.ErrOrganizationExists
		}
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityOrganization, o.ID.String(), nil, o)
	if err != nil {
		return err
	}
	st.orgs[o.ID.UUID] = row[domain.Organization]{v: *o, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r orgRepo) GetByID(_ context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.orgs[id.UUID]
	if !ok {
		return nil, nil
	}
	o := ex.v
	return &o, nil
}

func (r orgRepo) GetByName(_ context.Context, name string) (*domain.Organization, error) {
	st, done := r.begin()
	defer done()
	for _, ex := range st.orgs {
		if ex.v.Name == name {
			o := ex.v
			return &o, nil
		}
	}
	return nil, nil
}

func (r orgRepo) ListForUser(_ context.Context, userID domain.UserID) ([]*domain.Organization, error) {
	st, done := r.begin()
	defer done()
	member := map[uuid.UUID]bool{}
	for _, m := range st.memberships {
		if m.v.UserID == userID && m.v.Status == domain.EnrollmentAccepted {
			member[m.v.OrganizationID.UUID] = true
		}
	}
	rows := sortedRows(st.orgs, func(o domain.Organization) bool { return member[o.ID.UUID] })
	out := make([]*domain.Organization, 0, len(rows))
	for _, ex := range rows {
		o := ex.v
		out = append(out, &o)
	}
	return out, nil
}

type membershipRepo struct{ *repos }

func (r membershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.users[m.UserID.UUID]; !ok {
		return domerrors.ErrUserNotFound
	}
	if _, ok := st.orgs[m.OrganizationID.UUID]; !ok {
		return domerrors.ErrOrganizationNotFound
	}
	for _, ex := range st.memberships {
		if ex.v.UserID == m.UserID && ex.v.OrganizationID == m.OrganizationID {
			return domerrors.ErrAlreadyMember
		}
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityMembership, m.ID.String(), nil, m)
	if err != nil {
		return err
	}
	st.memberships[m.ID] = row[domain.Membership]{v: *m, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r membershipRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Membership, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.memberships[id]
	if !ok {
		return nil, nil
	}
	m := ex.v
	return &m, nil
}

func (r membershipRepo) Get(_ context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	st, done := r.begin()
	defer done()
	for _, ex := range st.memberships {
		if ex.v.UserID == userID && ex.v.OrganizationID == orgID {
			m := ex.v
			return &m, nil
		}
	}
	return nil, nil
}

func (r membershipRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) (*domain.Membership, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.memberships[id]
	if !ok {
		return nil, domerrors.ErrInvitationNotFound
	}
	after := ex.v
	after.Status = status
	e, err := r.entry(ctx, domain.AuditUpdate, domain.EntityMembership, id.String(), &ex.v, &after)
	if err != nil {
		return nil, err
	}
	ex.v = after
	st.memberships[id] = ex
	st.appendAudit(e)
	return &after, nil
}

func (r membershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.memberships[id]
	if !ok {
		return domerrors.ErrInvitationNotFound
	}
	e, err := r.entry(ctx, domain.AuditDelete, domain.EntityMembership, id.String(), &ex.v, nil)
	if err != nil {
		return err
	}
	delete(st.memberships, id)
	st.appendAudit(e)
	return nil
}

func (r membershipRepo) ListPendingForUser(_ context.Context, userID domain.UserID) ([]*domain.Invitation, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.memberships, func(m domain.Membership) bool {
		return m.UserID == userID && m.Status == domain.EnrollmentPending
	})
	out := make([]*domain.Invitation, 0, len(rows))
	for _, ex := range rows {
		inv := &domain.Invitation{Membership: ex.v}
		if o, ok := st.orgs[ex.v.OrganizationID.UUID]; ok {
			inv.Organization = o.v
		}
		out = append(out, inv)
	}
	return out, nil
}
