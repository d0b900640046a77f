// Package apptest holds fakes shared by application use case tests.
package apptest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// Hasher "hashes" by prefixing. Verify is exact.
type Hasher struct{}

var _ ports.PasswordHasher = Hasher{}

func (Hasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (Hasher) Verify(password, hash string) bool   { return hash == "hashed:"+password }

// Issuer produces readable unsigned tokens. Tokens passed to Expire fail
// validation as expired.
type Issuer struct {
	mu      sync.Mutex
	n       int
	expired map[string]bool
}

var _ ports.TokenIssuer = (*Issuer)(nil)

func NewIssuer() *Issuer { return &Issuer{expired: map[string]bool{}} }

func (i *Issuer) next(parts ...string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.n++
	return strings.Join(append(parts, fmt.Sprint(i.n)), "|")
}

// Expire marks token as expired.
func (i *Issuer) Expire(token string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.expired[token] = true
}

func (i *Issuer) parse(kind, token string, n int) ([]string, error) {
	i.mu.Lock()
	expired := i.expired[token]
	i.mu.Unlock()
	parts := strings.Split(token, "|")
	if len(parts) != n+2 || parts[0] != kind {
		return nil, domerrors.ErrInvalidToken
	}
	if expired {
		return nil, domerrors.ErrInviteExpired
	}
	return parts[1 : n+1], nil
}

func (i *Issuer) IssueAccessToken(userID string) (string, error) {
	return i.next("access", userID), nil
}

func (i *Issuer) ValidateAccessToken(token string) (string, error) {
	p, err := i.parse("access", token, 1)
	if err != nil {
		return "", domerrors.ErrInvalidToken
	}
	return p[0], nil
}

func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	return i.next("refresh", userID), nil
}

func (i *Issuer) ValidateRefreshToken(token string) (string, error) {
	p, err := i.parse("refresh", token, 1)
	if err != nil {
		return "", domerrors.ErrInvalidToken
	}
	return p[0], nil
}

func (i *Issuer) IssueInviteToken(orgID, email string) (string, error) {
	return i.next("invite", orgID, email), nil
}

func (i *Issuer) ValidateInviteToken(token string) (string, string, error) {
	p, err := i.parse("invite", token, 2)
	if errors.Is(err, domerrors.ErrInviteExpired) {
		return "", "", err
	}
	if err != nil {
		return "", "", domerrors.ErrInviteInvalid
	}
	return p[0], p[1], nil
}

func (i *Issuer) AccessTTL() time.Duration  { return 15 * time.Minute }
func (i *Issuer) RefreshTTL() time.Duration { return 7 * 24 * time.Hour }
func (i *Issuer) InviteTTL() time.Duration  { return 48 * time.Hour }

// InviteEmail is one recorded invite email job.
type InviteEmail struct {
	Email, OrgName, Token string
}

// Enqueuer records enqueued jobs.
type Enqueuer struct {
	mu      sync.Mutex
	Invites []InviteEmail
	// Err, when set, fails every enqueue.
	Err error
}

var _ ports.JobEnqueuer = (*Enqueuer)(nil)

func (e *Enqueuer) EnqueueInviteEmail(_ context.Context, email, orgName, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Invites = append(e.Invites, InviteEmail{email, orgName, token})
	return nil
}
