package organization

import (
	"context"
	"slices"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// ManagerRoles may invite members and manage projects.
var ManagerRoles = []domain.Role{domain.RoleOwner, domain.RoleAdmin}

type AuthorizeInput struct {
	OrganizationID domain.OrganizationID
	UserID         domain.UserID
	// Roles restricts access to these roles; empty allows any accepted member.
	Roles []domain.Role
}

// Authorize checks that a user is an accepted member of an organization.
type Authorize struct {
	memberships ports.MembershipRepository
}

func NewAuthorize(memberships ports.MembershipRepository) *Authorize {
	return &Authorize{memberships: memberships}
}

func (uc *Authorize) Execute(ctx context.Context, input AuthorizeInput) (*domain.Membership, error) {
	m, err := uc.memberships.Get(ctx, input.UserID, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Status != domain.EnrollmentAccepted {
		return nil, domerrors.ErrNotMember
	}
	if len(input.Roles) > 0 && !slices.Contains(input.Roles, m.Role) {
		return nil, domerrors.ErrInsufficientRole
	}
	return m, nil
}
