package auth

import (
	"context"
	"fmt"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

// Session is a freshly issued access/refresh token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *domain.User
}

// SessionIssuer issues token pairs and records the refresh token so it can
// be rotated or revoked later.
type SessionIssuer struct {
	issuer ports.TokenIssuer
	tokens ports.RefreshTokenStore
}

func NewSessionIssuer(issuer ports.TokenIssuer, tokens ports.RefreshTokenStore) *SessionIssuer {
	return &SessionIssuer{issuer: issuer, tokens: tokens}
}

// Issue logs user in.
func (s *SessionIssuer) Issue(ctx context.Context, user *domain.User) (*Session, error) {
	access, err := s.issuer.IssueAccessToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.SaveRefresh(ctx, refresh, user.ID.String(), s.issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
		User:         user,
	}, nil
}
