package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/organization"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/handlers"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/response"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// APIVersion is reported in the X-API-Version header.
const APIVersion = "1"

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	UsersHandler         *handlers.UsersHandler
	OrganizationsHandler *handlers.OrganizationsHandler
	ProjectsHandler      *handlers.ProjectsHandler
	TasksHandler         *handlers.TasksHandler
	CommentsHandler      *handlers.CommentsHandler
	TagsHandler          *handlers.TagsHandler
	AuditLogHandler      *handlers.AuditLogHandler
	HealthHandler        *handlers.HealthHandler
	RequireJWT           func(http.Handler) http.Handler
	Membership           *middleware.Membership
	RateLimits           *middleware.RateLimiters
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	CORSAllowedOrigins   []string
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	limits := cfg.RateLimits
	if limits == nil {
		limits = &middleware.RateLimiters{}
	}
	limit := func(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
		if mw == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return mw
	}

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(middleware.RequestContext(cfg.Log))
	r.Use(middleware.AccessLog)
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.APIHeaders(APIVersion))
	r.Use(limit(limits.IP))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, response.ErrCodeNotFound, "can't find "+r.URL.Path+" on this server")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, response.ErrCodeNotFound, "method not allowed")
	})

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	member := cfg.Membership.RequireMember
	manager := cfg.Membership.RequireRole(organization.ManagerRoles...)

	r.Route(BasePath, func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(limits.Signup)).Post("/signup", cfg.AuthHandler.Signup)
			r.With(limit(limits.Login)).Post("/login", cfg.AuthHandler.Login)
			r.With(limit(limits.Refresh)).Post("/refreshTokens", cfg.AuthHandler.Refresh)
			r.With(cfg.RequireJWT).Post("/logout", cfg.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			r.Get("/users/me", cfg.UsersHandler.Me)
			r.Patch("/users/me", cfg.UsersHandler.UpdateMe)
			r.Get("/audit-log", cfg.AuditLogHandler.List)
		})

		r.Route("/organization", func(r chi.Router) {
			// Invite acceptance is the only unauthenticated organization route.
			r.Post("/accept-invite/{token}", cfg.OrganizationsHandler.AcceptInvite)

			r.Group(func(r chi.Router) {
				r.Use(cfg.RequireJWT)
				r.Post("/", cfg.OrganizationsHandler.Create)
				r.Get("/", cfg.OrganizationsHandler.List)
				r.Get("/invitations", cfg.OrganizationsHandler.ListInvitations)
				r.Patch("/invitations/{membershipId}", cfg.OrganizationsHandler.RespondToInvitation)

				r.Route("/{"+middleware.OrgParam+"}", func(r chi.Router) {
					r.With(manager).Post("/invite", cfg.OrganizationsHandler.Invite)

					r.With(member).Get("/tag", cfg.TagsHandler.List)
					r.With(member).Post("/tag", cfg.TagsHandler.Create)

					r.Route("/project", func(r chi.Router) {
						r.With(member).Get("/", cfg.ProjectsHandler.List)
						r.With(manager).Post("/", cfg.ProjectsHandler.Create)

						r.Route("/{projectId}", func(r chi.Router) {
							r.With(member).Get("/", cfg.ProjectsHandler.Get)
							r.With(manager).Patch("/", cfg.ProjectsHandler.Update)
							r.With(manager).Delete("/", cfg.ProjectsHandler.Delete)

							r.Route("/task", func(r chi.Router) {
								r.Use(member)
								r.Get("/", cfg.TasksHandler.List)
								r.Post("/", cfg.TasksHandler.Create)

								r.Route("/{taskId}", func(r chi.Router) {
									r.Get("/", cfg.TasksHandler.Get)
									r.Patch("/", cfg.TasksHandler.Update)
									r.Delete("/", cfg.TasksHandler.Delete)
									r.Patch("/transition", cfg.TasksHandler.Transition)

									r.Get("/comment", cfg.CommentsHandler.List)
									r.Post("/comment", cfg.CommentsHandler.Add)
									r.Delete("/comment/{commentId}", cfg.CommentsHandler.Delete)

									r.Post("/tag/{tagId}", cfg.TagsHandler.Attach)
									r.Delete("/tag/{tagId}", cfg.TagsHandler.Detach)
								})
							})
						})
					})
				})
			})
		})
	})

	return r
}
