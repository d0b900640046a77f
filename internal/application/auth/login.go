package auth

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type Login struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions *SessionIssuer
	lockout  ports.LoginLockoutStore
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, sessions *SessionIssuer) *Login {
	return &Login{users: users, hasher: hasher, sessions: sessions}
}

// WithLockout enables per-email lockout after repeated failures.
func (uc *Login) WithLockout(store ports.LoginLockoutStore) *Login {
	uc.lockout = store
	return uc
}

// Execute fails with ErrInvalidCredentials for unknown emails, wrong
// passwords and inactive (provisional) accounts alike.
func (uc *Login) Execute(ctx context.Context, input LoginInput) (*Session, error) {
	email := domain.NormalizeEmail(input.Email)
	if uc.lockout != nil {
		locked, _, err := uc.lockout.IsLocked(ctx, email)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, domerrors.ErrAccountLocked
		}
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		if uc.lockout != nil {
			if err := uc.lockout.RecordFailure(ctx, email); err != nil {
				return nil, err
			}
		}
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		if err := uc.lockout.RecordSuccess(ctx, email); err != nil {
			return nil, err
		}
	}
	return uc.sessions.Issue(ctx, user)
}
