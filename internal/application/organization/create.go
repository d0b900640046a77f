package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type CreateOrganizationInput struct {
	Name      string
	CreatorID domain.UserID
}

// CreateOrganization creates an organization and makes its creator the
// accepted OWNER, atomically.
type CreateOrganization struct {
	store ports.Store
}

func NewCreateOrganization(store ports.Store) *CreateOrganization {
	return &CreateOrganization{store: store}
}

func (uc *CreateOrganization) Execute(ctx context.Context, input CreateOrganizationInput) (*domain.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 || len(name) > 100 {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "name", Message: "must be between 2 and 100 characters"}})
	}
	now := time.Now().UTC()
	org := &domain.Organization{ID: domain.NewOrganizationID(uuid.New()), Name: name, CreatedAt: now}
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		existing, err := r.Organizations().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domerrors.ErrOrganizationExists
		}
		if err := r.Organizations().Create(ctx, org); err != nil {
			return err
		}
		return r.Memberships().Create(ctx, &domain.Membership{
			ID:             uuid.New(),
			UserID:         input.CreatorID,
			OrganizationID: org.ID,
			Role:           domain.RoleOwner,
			Status:         domain.EnrollmentAccepted,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizations returns the organizations a user has joined.
type ListOrganizations struct {
	orgs ports.OrganizationRepository
}

func NewListOrganizations(orgs ports.OrganizationRepository) *ListOrganizations {
	return &ListOrganizations{orgs: orgs}
}

func (uc *ListOrganizations) Execute(ctx context.Context, userID domain.UserID) ([]*domain.Organization, error) {
	orgs, err := uc.orgs.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orgs == nil {
		orgs = []*domain.Organization{}
	}
	return orgs, nil
}
