package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

// LogEnqueuer writes the invite email to the log instead of queueing it.
// Selected with INVITE_EMAIL_DELIVERY=log for local runs without a worker.
type LogEnqueuer struct {
	log zerolog.Logger
}

func NewLogEnqueuer(log zerolog.Logger) *LogEnqueuer {
	return &LogEnqueuer{log: log}
}

func (q *LogEnqueuer) EnqueueInviteEmail(_ context.Context, email, orgName, token string) error {
	q.log.Info().Str("email", email).Str("organization", orgName).Str("token", token).
		Msg("invite email (log only)")
	return nil
}

var _ ports.JobEnqueuer = (*LogEnqueuer)(nil)
