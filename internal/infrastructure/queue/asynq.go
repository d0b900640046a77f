package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

const (
	TypeInviteEmail        = "email:invite"
	TypeDailyDigest        = "digest:daily"
	TypeCleanupProvisional = "cleanup:provisional"
)

const inviteEmailMaxRetry = 5

// inviteEmailPayload is the JSON body of TypeInviteEmail tasks.
type inviteEmailPayload struct {
	Email   string `json:"email"`
	OrgName string `json:"org_name"`
	Token   string `json:"token"`
}

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueInviteEmail(ctx context.Context, email, orgName, token string) error {
	payload, err := json.Marshal(inviteEmailPayload{Email: email, OrgName: orgName, Token: token})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeInviteEmail, payload, asynq.MaxRetry(inviteEmailMaxRetry))
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("email", email).Msg("enqueue invite email failed")
		return err
	}
	return nil
}

var _ ports.JobEnqueuer = (*TaskEnqueuer)(nil)
