package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type orgRepo struct{ *repos }

func toOrganization(o db.Organization) *domain.Organization {
	return &domain.Organization{
		ID:        domain.NewOrganizationID(o.ID),
		Name:      o.Name,
		CreatedAt: o.CreatedAt,
	}
}

func (r orgRepo) Create(ctx context.Context, org *domain.Organization) error {
	if org.ID.UUID == (uuid.UUID{}) {
		org.ID = domain.NewOrganizationID(uuid.New())
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateOrganization(ctx, db.CreateOrganizationParams{ID: org.ID.UUID, Name: org.Name})
		if err != nil {
			return translate(ctx, err)
		}
		*org = *toOrganization(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityOrganization, org.ID.String(), nil, org)
	})
}

func (r orgRepo) GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	o, err := r.q.GetOrganizationByID(ctx, id.UUID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toOrganization(o), nil
}

func (r orgRepo) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	o, err := r.q.GetOrganizationByName(ctx, name)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toOrganization(o), nil
}

func (r orgRepo) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Organization, error) {
	rows, err := r.q.ListOrganizationsForUser(ctx, userID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Organization, 0, len(rows))
	for _, o := range rows {
		out = append(out, toOrganization(o))
	}
	return out, nil
}

type membershipRepo struct{ *repos }

func toMembership(m db.Membership) *domain.Membership {
	return &domain.Membership{
		ID:             m.ID,
		UserID:         domain.NewUserID(m.UserID),
		OrganizationID: domain.NewOrganizationID(m.OrganizationID),
		Role:           domain.Role(m.Role),
		Status:         domain.EnrollmentStatus(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

func (r membershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	if m.ID == (uuid.UUID{}) {
		m.ID = uuid.New()
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateMembership(ctx, db.CreateMembershipParams{
			ID:             m.ID,
			UserID:         m.UserID.UUID,
			OrganizationID: m.OrganizationID.UUID,
			Role:           string(m.Role),
			Status:         string(m.Status),
		})
		if err != nil {
			return translate(ctx, err)
		}
		*m = *toMembership(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityMembership, m.ID.String(), nil, m)
	})
}

func (r membershipRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error) {
	m, err := r.q.GetMembershipByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toMembership(m), nil
}

func (r membershipRepo) Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	m, err := r.q.GetMembership(ctx, db.GetMembershipParams{UserID: userID.UUID, OrganizationID: orgID.UUID})
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toMembership(m), nil
}

func (r membershipRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) (*domain.Membership, error) {
	var out *domain.Membership
	err := r.atomic(ctx, func(q *db.Queries) error {
		before, err := q.LockMembership(ctx, id)
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrInvitationNotFound
			}
			return err
		}
		after, err := q.UpdateMembershipStatus(ctx, db.UpdateMembershipStatusParams{ID: id, Status: string(status)})
		if err != nil {
			return translate(ctx, err)
		}
		out = toMembership(after)
		return recordMutation(ctx, q, domain.AuditUpdate, domain.EntityMembership, id.String(), toMembership(before), out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r membershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.DeleteMembership(ctx, id)
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrInvitationNotFound
			}
			return err
		}
		return recordMutation(ctx, q, domain.AuditDelete, domain.EntityMembership, id.String(), toMembership(row), nil)
	})
}

func (r membershipRepo) ListPendingForUser(ctx context.Context, userID domain.UserID) ([]*domain.Invitation, error) {
	rows, err := r.q.ListPendingInvitations(ctx, userID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Invitation, 0, len(rows))
	for _, i := range rows {
		out = append(out, &domain.Invitation{
			Membership:   *toMembership(i.Membership),
			Organization: *toOrganization(i.Organization),
		})
	}
	return out, nil
}
