package ports

import (
	"context"
	"time"
)

// LoginLockoutStore tracks failed logins per email and locks the email for
// a cooldown after too many in a row.
type LoginLockoutStore interface {
	// IsLocked reports whether the email is locked and for how much longer.
	IsLocked(ctx context.Context, email string) (locked bool, retryAfter time.Duration, err error)
	// RecordFailure counts a failed login and may start the cooldown.
	RecordFailure(ctx context.Context, email string) error
	// RecordSuccess clears the failure count.
	RecordSuccess(ctx context.Context, email string) error
}
