package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// TokenStore keeps invite and refresh tokens in process memory with the
// same key layout and expiry semantics as the Redis store.
type TokenStore struct {
	mu      sync.Mutex
	offset  time.Duration
	entries map[string]tokenEntry
}

type tokenEntry struct {
	value   string
	expires time.Time
}

var (
	_ ports.InviteTokenStore  = (*TokenStore)(nil)
	_ ports.RefreshTokenStore = (*TokenStore)(nil)
)

func NewTokenStore() *TokenStore {
	return &TokenStore{entries: map[string]tokenEntry{}}
}

// Advance moves the store's clock forward, expiring entries whose TTL passes.
func (s *TokenStore) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += d
}

func (s *TokenStore) now() time.Time { return time.Now().Add(s.offset) }

func (s *TokenStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = tokenEntry{value: value, expires: s.now().Add(ttl)}
}

func (s *TokenStore) getDel(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	if !ok || !s.now().Before(e.expires) {
		return "", false
	}
	return e.value, true
}

func (s *TokenStore) SaveInvite(_ context.Context, token, orgID, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := "invitePending:" + orgID + ":" + email
	if e, ok := s.entries[pending]; ok && s.now().Before(e.expires) {
		return domerrors.ErrAlreadyMember
	}
	exp := s.now().Add(ttl)
	s.entries[pending] = tokenEntry{value: token, expires: exp}
	s.entries["inviteToken:"+token] = tokenEntry{value: email, expires: exp}
	return nil
}

func (s *TokenStore) ConsumeInvite(_ context.Context, token string) (string, bool, error) {
	v, ok := s.getDel("inviteToken:" + token)
	return v, ok, nil
}

func (s *TokenStore) ReleaseInvite(_ context.Context, token, orgID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, "inviteToken:"+token)
	pending := "invitePending:" + orgID + ":" + email
	if e, ok := s.entries[pending]; ok && e.value == token {
		delete(s.entries, pending)
	}
	return nil
}

func (s *TokenStore) InvitedEmails(_ context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]struct{}{}
	now := s.now()
	for k, e := range s.entries {
		if strings.HasPrefix(k, "inviteToken:") && now.Before(e.expires) {
			out[e.value] = struct{}{}
		}
	}
	return out, nil
}

func (s *TokenStore) SaveRefresh(_ context.Context, token, userID string, ttl time.Duration) error {
	s.set("refreshToken:"+token, userID, ttl)
	return nil
}

func (s *TokenStore) ConsumeRefresh(_ context.Context, token string) (string, bool, error) {
	v, ok := s.getDel("refreshToken:" + token)
	return v, ok, nil
}

func (s *TokenStore) DeleteRefresh(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, "refreshToken:"+token)
	return nil
}
