package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// Secrets are the HMAC keys of each token kind. They must differ so a token
// of one kind never validates as another.
type Secrets struct {
	Access  string
	Refresh string
	Invite  string
}

// TTLs are the lifetimes of each token kind.
type TTLs struct {
	Access  time.Duration
	Refresh time.Duration
	Invite  time.Duration
}

// TokenIssuer implements ports.TokenIssuer with HS256.
type TokenIssuer struct {
	secrets Secrets
	ttls    TTLs
	issuer  string
	now     func() time.Time
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)

type userClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type inviteClaims struct {
	jwt.RegisteredClaims
	OrgID string `json:"org_id"`
	Email string `json:"email"`
}

func NewTokenIssuer(secrets Secrets, ttls TTLs, issuer string) *TokenIssuer {
	return &TokenIssuer{secrets: secrets, ttls: ttls, issuer: issuer, now: time.Now}
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.ttls.Access }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.ttls.Refresh }
func (t *TokenIssuer) InviteTTL() time.Duration  { return t.ttls.Invite }

func (t *TokenIssuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		// Unique per token; refresh tokens double as store keys.
		ID: uuid.NewString(),
	}
}

func (t *TokenIssuer) IssueAccessToken(userID string) (string, error) {
	return t.signUser(userID, t.ttls.Access, t.secrets.Access)
}

func (t *TokenIssuer) ValidateAccessToken(tokenString string) (string, error) {
	return t.parseUser(tokenString, t.secrets.Access)
}

func (t *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return t.signUser(userID, t.ttls.Refresh, t.secrets.Refresh)
}

func (t *TokenIssuer) ValidateRefreshToken(tokenString string) (string, error) {
	return t.parseUser(tokenString, t.secrets.Refresh)
}

func (t *TokenIssuer) IssueInviteToken(orgID, email string) (string, error) {
	claims := inviteClaims{
		RegisteredClaims: t.registered(email, t.ttls.Invite),
		OrgID:            orgID,
		Email:            email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.secrets.Invite))
}

// ValidateInviteToken distinguishes an expired invite from a forged or
// malformed one.
func (t *TokenIssuer) ValidateInviteToken(tokenString string) (string, string, error) {
	claims := &inviteClaims{}
	_, err := t.parse(tokenString, claims, t.secrets.Invite)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", "", domerrors.ErrInviteExpired
	case err != nil:
		return "", "", domerrors.ErrInviteInvalid
	case claims.OrgID == "" || claims.Email == "":
		return "", "", domerrors.ErrInviteInvalid
	}
	return claims.OrgID, claims.Email, nil
}

func (t *TokenIssuer) signUser(userID string, ttl time.Duration, secret string) (string, error) {
	claims := userClaims{RegisteredClaims: t.registered(userID, ttl), UserID: userID}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (t *TokenIssuer) parseUser(tokenString, secret string) (string, error) {
	claims := &userClaims{}
	if _, err := t.parse(tokenString, claims, secret); err != nil {
		return "", domerrors.ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", domerrors.ErrInvalidToken
	}
	return claims.UserID, nil
}

func (t *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(t.issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return token, nil
}
