package ports

import "time"

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and validates JWTs (HS256). Access, refresh and invite
// tokens use separate secrets.
type TokenIssuer interface {
	IssueAccessToken(userID string) (string, error)
	ValidateAccessToken(token string) (userID string, err error)
	IssueRefreshToken(userID string) (string, error)
	ValidateRefreshToken(token string) (userID string, err error)
	// IssueInviteToken binds an organization and an invitee email.
	IssueInviteToken(orgID, email string) (string, error)
	// ValidateInviteToken returns ErrInviteExpired or ErrInviteInvalid on failure.
	ValidateInviteToken(token string) (orgID, email string, err error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
	InviteTTL() time.Duration
}
