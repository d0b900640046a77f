package ports

import "context"

// JobEnqueuer enqueues background jobs.
type JobEnqueuer interface {
	EnqueueInviteEmail(ctx context.Context, email, orgName, token string) error
}
