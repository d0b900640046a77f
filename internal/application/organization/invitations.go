package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// ListInvitations returns a user's pending memberships.
type ListInvitations struct {
	memberships ports.MembershipRepository
}

func NewListInvitations(memberships ports.MembershipRepository) *ListInvitations {
	return &ListInvitations{memberships: memberships}
}

func (uc *ListInvitations) Execute(ctx context.Context, userID domain.UserID) ([]*domain.Invitation, error) {
	invs, err := uc.memberships.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, nil
}

type RespondToInvitationInput struct {
	MembershipID uuid.UUID
	UserID       domain.UserID
	Accept       bool
}

// RespondToInvitation accepts (flips to ACCEPTED) or rejects (deletes) a
// pending membership owned by the caller.
type RespondToInvitation struct {
	store ports.Store
}

func NewRespondToInvitation(store ports.Store) *RespondToInvitation {
	return &RespondToInvitation{store: store}
}

// Execute returns the accepted membership, or nil after a rejection.
func (uc *RespondToInvitation) Execute(ctx context.Context, input RespondToInvitationInput) (*domain.Membership, error) {
	var out *domain.Membership
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		m, err := r.Memberships().GetByID(ctx, input.MembershipID)
		if err != nil {
			return err
		}
		if m == nil || m.UserID != input.UserID || m.Status != domain.EnrollmentPending {
			return domerrors.ErrInvitationNotFound
		}
		if !input.Accept {
			return r.Memberships().Delete(ctx, m.ID)
		}
		out, err = r.Memberships().UpdateStatus(ctx, m.ID, domain.EnrollmentAccepted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
