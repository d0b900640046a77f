package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/kolevkaloyan/jira-clone/internal/application/audit"
	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
	"github.com/kolevkaloyan/jira-clone/internal/application/comment"
	"github.com/kolevkaloyan/jira-clone/internal/application/jobs"
	"github.com/kolevkaloyan/jira-clone/internal/application/organization"
	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/project"
	"github.com/kolevkaloyan/jira-clone/internal/application/tag"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/config"
	infraauth "github.com/kolevkaloyan/jira-clone/internal/infrastructure/auth"
	httprouter "github.com/kolevkaloyan/jira-clone/internal/infrastructure/http"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/handlers"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/lockout"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/postgres"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/queue"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/redisstore"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/security"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "optional config file with tuning settings")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg.App)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	if cfg.Database.RunMigrations || *migrateOnly {
		if err := db.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		if *migrateOnly {
			return
		}
	}

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("parse REDIS_URL")
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("ping redis")
	}
	asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}

	store := postgres.NewStore(pool)
	tokens := redisstore.NewTokenStore(redisClient)
	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	issuer := infraauth.NewTokenIssuer(infraauth.Secrets{
		Access:  cfg.JWT.AccessSecret,
		Refresh: cfg.JWT.RefreshSecret,
		Invite:  cfg.JWT.InviteSecret,
	}, infraauth.TTLs{
		Access:  cfg.JWT.AccessExpiry,
		Refresh: cfg.JWT.RefreshExpiry,
		Invite:  cfg.JWT.InviteExpiry,
	}, cfg.JWT.Issuer)

	var enqueuer ports.JobEnqueuer
	if cfg.Invite.EmailDelivery == "log" {
		enqueuer = queue.NewLogEnqueuer(log)
	} else {
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		enqueuer = asynqEnq
	}

	var (
		worker    *queue.Worker
		scheduler *queue.Scheduler
	)
	if cfg.Jobs.RunWorker {
		jobHandlers := queue.NewHandlers(
			jobs.NewDailyDigest(store.Users(), store.Tasks()),
			jobs.NewCleanupProvisionalUsers(store.Users(), tokens),
			log,
		)
		worker = queue.NewWorker(asynqOpt, jobHandlers, log)
		if err := worker.Start(); err != nil {
			log.Fatal().Err(err).Msg("start worker")
		}
		scheduler, err = queue.NewScheduler(asynqOpt, queue.Schedule{
			DailyDigest: cfg.Jobs.DigestCron,
			Cleanup:     cfg.Jobs.CleanupCron,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create scheduler")
		}
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("start scheduler")
		}
	}

	sessions := auth.NewSessionIssuer(issuer, tokens)
	createTask := task.NewCreateTask(store)
	deleteTask := task.NewDeleteTask(store)

	authHandler := handlers.NewAuthHandler(
		auth.NewSignup(store.Users(), hasher, sessions),
		auth.NewLogin(store.Users(), hasher, sessions).
			WithLockout(lockout.NewRedisStore(redisClient, cfg.Lockout.MaxAttempts, cfg.Lockout.Cooldown)),
		auth.NewRefresh(store.Users(), issuer, tokens, sessions),
		auth.NewLogout(tokens),
		handlers.CookieConfig{
			Secure: !cfg.App.IsDevelopment(),
			Path:   "/",
			MaxAge: cfg.JWT.RefreshExpiry,
		},
	)

	limiters, err := middleware.NewRateLimiters(middleware.RateLimitConfig{
		PerIP:   cfg.RateLimit.PerIP,
		Login:   cfg.RateLimit.Login,
		Signup:  cfg.RateLimit.Signup,
		Refresh: cfg.RateLimit.Refresh,
	}, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("configure rate limits")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:  authHandler,
		UsersHandler: handlers.NewUsersHandler(auth.NewGetMe(store.Users()), auth.NewUpdateMe(store.Users())),
		OrganizationsHandler: handlers.NewOrganizationsHandler(
			organization.NewCreateOrganization(store),
			organization.NewListOrganizations(store.Organizations()),
			organization.NewInviteUser(store, hasher, issuer, tokens, enqueuer, organization.InviteMode(cfg.Invite.Mode)),
			organization.NewAcceptInvite(store, hasher, issuer, tokens, sessions),
			organization.NewListInvitations(store.Memberships()),
			organization.NewRespondToInvitation(store),
			authHandler,
		),
		ProjectsHandler: handlers.NewProjectsHandler(
			project.NewCreateProject(store, createTask),
			project.NewGetProject(store),
			project.NewListProjects(store.Projects()),
			project.NewUpdateProject(store),
			project.NewDeleteProject(store, deleteTask),
		),
		TasksHandler: handlers.NewTasksHandler(
			createTask,
			task.NewGetTask(store),
			task.NewListTasks(store),
			task.NewUpdateTask(store),
			task.NewTransitionStatus(store),
			deleteTask,
		),
		CommentsHandler: handlers.NewCommentsHandler(
			comment.NewAddComment(store),
			comment.NewListComments(store),
			comment.NewDeleteComment(store),
		),
		TagsHandler: handlers.NewTagsHandler(
			tag.NewCreateTag(store),
			tag.NewListTags(store.Tags()),
			tag.NewAttachTag(store),
			tag.NewDetachTag(store),
		),
		AuditLogHandler: handlers.NewAuditLogHandler(audit.NewListAuditLogs(store.AuditLogs())),
		HealthHandler: handlers.NewHealthHandler(
			handlers.HealthCheck{Name: "database", Ping: pool.Ping},
			handlers.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
		RequireJWT:         middleware.NewAuthValidator(issuer).Handler,
		Membership:         middleware.NewMembership(organization.NewAuthorize(store.Memberships())),
		RateLimits:         limiters,
		Log:                log,
		Secure:             middleware.NewSecure(middleware.SecureOptions(cfg.App.IsDevelopment())),
		CORSAllowedOrigins: cfg.App.CORSAllowedOrigins,
		Metrics:            true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
}

func newLogger(app config.AppConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(app.LogLevel)
	if app.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
