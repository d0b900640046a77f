package ports

import (
	"context"
	"time"
)

// InviteTokenStore keeps live invite tokens. Entries expire with their TTL.
type InviteTokenStore interface {
	// SaveInvite stores token -> email. It fails ErrAlreadyMember while
	// another invite for the same organization and email is live.
	SaveInvite(ctx context.Context, token, orgID, email string, ttl time.Duration) error
	// ConsumeInvite atomically reads and deletes the token. ok is false when
	// the token is unknown, expired or already consumed.
	ConsumeInvite(ctx context.Context, token string) (email string, ok bool, err error)
	// ReleaseInvite deletes the token and, when it still points at this
	// token, the organization+email guard, so the invite can be retried.
	ReleaseInvite(ctx context.Context, token, orgID, email string) error
	// InvitedEmails returns every email referenced by a live invite token.
	InvitedEmails(ctx context.Context) (map[string]struct{}, error)
}

// RefreshTokenStore keeps live refresh tokens.
type RefreshTokenStore interface {
	SaveRefresh(ctx context.Context, token, userID string, ttl time.Duration) error
	// ConsumeRefresh atomically reads and deletes the token.
	ConsumeRefresh(ctx context.Context, token string) (userID string, ok bool, err error)
	DeleteRefresh(ctx context.Context, token string) error
}
