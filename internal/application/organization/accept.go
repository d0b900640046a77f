package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type AcceptInviteInput struct {
	Token string
	// Password and FullName are optional; a provisional account without a
	// password gets a random one.
	Password string
	FullName string
}

type AcceptInviteResult struct {
	Membership *domain.Membership
	Session    *auth.Session
}

// AcceptInvite consumes an invite token, activates the invitee and joins
// them to the organization, then logs them in.
type AcceptInvite struct {
	store    ports.Store
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	invites  ports.InviteTokenStore
	sessions *auth.SessionIssuer
}

func NewAcceptInvite(store ports.Store, hasher ports.PasswordHasher, issuer ports.TokenIssuer, invites ports.InviteTokenStore, sessions *auth.SessionIssuer) *AcceptInvite {
	return &AcceptInvite{store: store, hasher: hasher, issuer: issuer, invites: invites, sessions: sessions}
}

func (uc *AcceptInvite) Execute(ctx context.Context, input AcceptInviteInput) (*AcceptInviteResult, error) {
	if p := input.Password; p != "" && (len(p) < auth.MinPasswordLength || len(p) > auth.MaxPasswordLength) {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "password", Message: "must be between 8 and 128 characters"}})
	}
	orgIDStr, email, err := uc.issuer.ValidateInviteToken(input.Token)
	if err != nil {
		return nil, err
	}
	orgUUID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return nil, domerrors.ErrInviteInvalid
	}
	orgID := domain.NewOrganizationID(orgUUID)

	stored, ok, err := uc.invites.ConsumeInvite(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domerrors.ErrTokenRevoked
	}
	if stored != email {
		return nil, domerrors.ErrInviteInvalid
	}

	var (
		user       *domain.User
		membership *domain.Membership
	)
	err = uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		org, err := r.Organizations().GetByID(ctx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domerrors.ErrOrganizationNotFound
		}
		user, err = r.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return domerrors.ErrUserNotFound
		}
		if err := uc.activate(ctx, r, user, input); err != nil {
			return err
		}
		existing, err := r.Memberships().Get(ctx, user.ID, orgID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domerrors.ErrAlreadyMember
		}
		membership = &domain.Membership{
			ID:             uuid.New(),
			UserID:         user.ID,
			OrganizationID: orgID,
			Role:           domain.RoleMember,
			Status:         domain.EnrollmentAccepted,
			CreatedAt:      time.Now().UTC(),
		}
		return r.Memberships().Create(ctx, membership)
	})
	if err != nil {
		return nil, err
	}
	session, err := uc.sessions.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AcceptInviteResult{Membership: membership, Session: session}, nil
}

func (uc *AcceptInvite) activate(ctx context.Context, r ports.Repositories, user *domain.User, input AcceptInviteInput) error {
	if user.IsActive {
		return nil
	}
	secret := input.Password
	if secret == "" {
		var err error
		if secret, err = randomSecret(); err != nil {
			return err
		}
	}
	hash, err := uc.hasher.Hash(secret)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.IsActive = true
	if name := strings.TrimSpace(input.FullName); name != "" {
		user.FullName = name
	}
	return r.Users().Update(ctx, user)
}
