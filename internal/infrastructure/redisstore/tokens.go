// Package redisstore keeps short-lived invite and refresh tokens in Redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const (
	invitePrefix  = "inviteToken:"
	pendingPrefix = "invitePending:"
	refreshPrefix = "refreshToken:"
	scanBatch     = 200
)

// TokenStore implements the invite and refresh token ports. Every key
// carries the token's TTL so Redis expires it.
type TokenStore struct {
	client redis.UniversalClient
}

var (
	_ ports.InviteTokenStore  = (*TokenStore)(nil)
	_ ports.RefreshTokenStore = (*TokenStore)(nil)
)

func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveInvite(ctx context.Context, token, orgID, email string, ttl time.Duration) error {
	claimed, err := s.client.SetNX(ctx, pendingPrefix+orgID+":"+email, token, ttl).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return domerrors.ErrAlreadyMember
	}
	return s.client.Set(ctx, invitePrefix+token, email, ttl).Err()
}

func (s *TokenStore) ConsumeInvite(ctx context.Context, token string) (string, bool, error) {
	return s.getDel(ctx, invitePrefix+token)
}

// releasePending deletes KEYS[1] only while it still holds ARGV[1].
var releasePending = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *TokenStore) ReleaseInvite(ctx context.Context, token, orgID, email string) error {
	if err := s.client.Del(ctx, invitePrefix+token).Err(); err != nil {
		return err
	}
	return releasePending.Run(ctx, s.client, []string{pendingPrefix + orgID + ":" + email}, token).Err()
}

func (s *TokenStore) InvitedEmails(ctx context.Context) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	iter := s.client.Scan(ctx, 0, invitePrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		email, err := s.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[email] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TokenStore) SaveRefresh(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshPrefix+token, userID, ttl).Err()
}

func (s *TokenStore) ConsumeRefresh(ctx context.Context, token string) (string, bool, error) {
	return s.getDel(ctx, refreshPrefix+token)
}

func (s *TokenStore) DeleteRefresh(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshPrefix+token).Err()
}

func (s *TokenStore) getDel(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
