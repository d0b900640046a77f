package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/jobs"
)

// Handlers processes every task type this service enqueues or schedules.
type Handlers struct {
	digest  *jobs.DailyDigest
	cleanup *jobs.CleanupProvisionalUsers
	log     zerolog.Logger
}

func NewHandlers(digest *jobs.DailyDigest, cleanup *jobs.CleanupProvisionalUsers, log zerolog.Logger) *Handlers {
	return &Handlers{digest: digest, cleanup: cleanup, log: log}
}

// Mux routes task types to their handlers.
func (h *Handlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInviteEmail, h.handleInviteEmail)
	mux.HandleFunc(TypeDailyDigest, h.handleDailyDigest)
	mux.HandleFunc(TypeCleanupProvisional, h.handleCleanup)
	return mux
}

func (h *Handlers) handleInviteEmail(_ context.Context, t *asynq.Task) error {
	var p inviteEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("invite email task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	// Delivery is log-only; an SMTP sender would plug in here.
	h.log.Info().
		Str("email", p.Email).
		Str("organization", p.OrgName).
		Str("token", p.Token).
		Msg("invite email")
	return nil
}

func (h *Handlers) handleDailyDigest(ctx context.Context, _ *asynq.Task) error {
	digests, err := h.digest.Run(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("daily digest failed")
		return err
	}
	for _, d := range digests {
		for _, task := range d.Tasks {
			h.log.Info().
				Str("email", d.User.Email).
				Str("task", task.Key).
				Str("status", string(task.Status)).
				Str("title", task.Title).
				Msg("digest")
		}
	}
	h.log.Info().Int("users", len(digests)).Msg("daily digest sent")
	return nil
}

func (h *Handlers) handleCleanup(ctx context.Context, _ *asynq.Task) error {
	n, err := h.cleanup.Run(ctx)
	if err != nil {
		h.log.Error().Err(err).Int("deleted", n).Msg("provisional user cleanup failed")
		return err
	}
	h.log.Info().Int("deleted", n).Msg("provisional users cleaned up")
	return nil
}

// Worker runs the asynq server over Handlers.
type Worker struct {
	srv      *asynq.Server
	handlers *Handlers
}

func NewWorker(redisOpt asynq.RedisConnOpt, handlers *Handlers, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Logger:      newAsynqLogger(log),
		LogLevel:    asynq.InfoLevel,
	})
	return &Worker{srv: srv, handlers: handlers}
}

// Start begins processing in the background. Use Shutdown for graceful stop.
func (w *Worker) Start() error {
	return w.srv.Start(w.handlers.Mux())
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
