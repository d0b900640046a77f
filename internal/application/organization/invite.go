package organization

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// InviteMode selects how invitations are issued.
type InviteMode string

const (
	// InviteModeToken issues a signed, single-use invite token and creates a
	// provisional account for unknown emails.
	InviteModeToken InviteMode = "token"
	// InviteModeDirect creates a PENDING membership for an existing user.
	InviteModeDirect InviteMode = "direct"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type InviteUserInput struct {
	OrganizationID domain.OrganizationID
	InviterID      domain.UserID
	Email          string
}

// InviteUserResult carries the invite token (token mode) or the pending
// membership (direct mode).
type InviteUserResult struct {
	Token      string
	Membership *domain.Membership
}

type InviteUser struct {
	store    ports.Store
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	invites  ports.InviteTokenStore
	enqueuer ports.JobEnqueuer
	mode     InviteMode
}

func NewInviteUser(store ports.Store, hasher ports.PasswordHasher, issuer ports.TokenIssuer, invites ports.InviteTokenStore, enqueuer ports.JobEnqueuer, mode InviteMode) *InviteUser {
	if mode == "" {
		mode = InviteModeToken
	}
	return &InviteUser{store: store, hasher: hasher, issuer: issuer, invites: invites, enqueuer: enqueuer, mode: mode}
}

func (uc *InviteUser) Execute(ctx context.Context, input InviteUserInput) (*InviteUserResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "email", Message: "must be a valid email"}})
	}
	org, err := uc.store.Organizations().GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domerrors.ErrOrganizationNotFound
	}
	inviter, err := uc.store.Users().GetByID(ctx, input.InviterID)
	if err != nil {
		return nil, err
	}
	if inviter != nil && inviter.Email == email {
		return nil, domerrors.ErrSelfInvite
	}
	invitee, err := uc.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil {
		m, err := uc.store.Memberships().Get(ctx, invitee.ID, org.ID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return nil, domerrors.ErrAlreadyMember
		}
	}

	if uc.mode == InviteModeDirect {
		if invitee == nil {
			return nil, domerrors.ErrUserNotFound
		}
		m := &domain.Membership{
			ID:             uuid.New(),
			UserID:         invitee.ID,
			OrganizationID: org.ID,
			Role:           domain.RoleMember,
			Status:         domain.EnrollmentPending,
			CreatedAt:      time.Now().UTC(),
		}
		if err := uc.store.Memberships().Create(ctx, m); err != nil {
			return nil, err
		}
		return &InviteUserResult{Membership: m}, nil
	}

	// The account exists before any token does. A concurrent invite of the
	// same email may have created it first.
	if invitee == nil {
		if err := uc.createProvisional(ctx, email); err != nil && !errors.Is(err, domerrors.ErrUserExists) {
			return nil, err
		}
	}
	token, err := uc.issuer.IssueInviteToken(org.ID.String(), email)
	if err != nil {
		return nil, fmt.Errorf("issue invite token: %w", err)
	}
	if err := uc.invites.SaveInvite(ctx, token, org.ID.String(), email, uc.issuer.InviteTTL()); err != nil {
		return nil, err
	}
	if err := uc.enqueuer.EnqueueInviteEmail(ctx, email, org.Name, token); err != nil {
		if relErr := uc.invites.ReleaseInvite(ctx, token, org.ID.String(), email); relErr != nil {
			return nil, fmt.Errorf("enqueue invite email: %w (release invite: %v)", err, relErr)
		}
		return nil, fmt.Errorf("enqueue invite email: %w", err)
	}
	return &InviteUserResult{Token: token}, nil
}

// createProvisional stores an inactive account whose password nobody knows.
func (uc *InviteUser) createProvisional(ctx context.Context, email string) error {
	secret, err := randomSecret()
	if err != nil {
		return err
	}
	hash, err := uc.hasher.Hash(secret)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return uc.store.Users().Create(ctx, &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.SplitN(email, "@", 2)[0],
		IsActive:     false,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
