package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Schedule holds the cron specs of the periodic jobs.
type Schedule struct {
	DailyDigest string
	Cleanup     string
}

// DefaultSchedule runs the digest at 08:00 UTC and cleanup hourly.
var DefaultSchedule = Schedule{DailyDigest: "0 8 * * *", Cleanup: "0 * * * *"}

// Scheduler enqueues the periodic jobs on their cron specs.
type Scheduler struct {
	s *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisConnOpt, schedule Schedule, log zerolog.Logger) (*Scheduler, error) {
	s := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   newAsynqLogger(log),
		LogLevel: asynq.InfoLevel,
	})
	entries := []struct {
		spec, typ string
	}{
		{schedule.DailyDigest, TypeDailyDigest},
		{schedule.Cleanup, TypeCleanupProvisional},
	}
	for _, e := range entries {
		// At most one queued copy of each job per hour.
		id, err := s.Register(e.spec, asynq.NewTask(e.typ, nil), asynq.Unique(time.Hour))
		if err != nil {
			return nil, fmt.Errorf("register %s (%q): %w", e.typ, e.spec, err)
		}
		log.Debug().Str("entry", id).Str("type", e.typ).Str("cron", e.spec).Msg("periodic job registered")
	}
	return &Scheduler{s: s}, nil
}

func (s *Scheduler) Start() error {
	return s.s.Start()
}

func (s *Scheduler) Shutdown() {
	s.s.Shutdown()
}
