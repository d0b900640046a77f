package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// Refresh rotates a refresh token: the presented token is consumed and a
// new pair is issued. A token can be used once.
type Refresh struct {
	users    ports.UserRepository
	issuer   ports.TokenIssuer
	tokens   ports.RefreshTokenStore
	sessions *SessionIssuer
}

func NewRefresh(users ports.UserRepository, issuer ports.TokenIssuer, tokens ports.RefreshTokenStore, sessions *SessionIssuer) *Refresh {
	return &Refresh{users: users, issuer: issuer, tokens: tokens, sessions: sessions}
}

func (uc *Refresh) Execute(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, errors.ErrInvalidToken
	}
	subject, err := uc.issuer.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}
	stored, ok, err := uc.tokens.ConsumeRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !ok || stored != subject {
		return nil, errors.ErrTokenRevoked
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, domain.NewUserID(id))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, errors.ErrInvalidToken
	}
	return uc.sessions.Issue(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
type Logout struct {
	tokens ports.RefreshTokenStore
}

func NewLogout(tokens ports.RefreshTokenStore) *Logout {
	return &Logout{tokens: tokens}
}

func (uc *Logout) Execute(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return uc.tokens.DeleteRefresh(ctx, refreshToken)
}
