package middleware

import (
	"context"
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

type contextKey string

const (
	membershipContextKey contextKey = "membership"
	actorSinkContextKey  contextKey = "actor_sink"
)

// WithMembership injects the caller's membership of the routed organization.
func WithMembership(ctx context.Context, m *domain.Membership) context.Context {
	return context.WithValue(ctx, membershipContextKey, m)
}

// MembershipFromContext returns the membership set by RequireMember, or nil.
func MembershipFromContext(ctx context.Context) *domain.Membership {
	m, _ := ctx.Value(membershipContextKey).(*domain.Membership)
	return m
}

// RequestContext copies chi's request id onto the request context and the
// response headers, and attaches a request-scoped logger. Use after
// chimid.RequestID.
func RequestContext(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			ctx := requestctx.WithRequestID(r.Context(), reqID)
			l := log.With().Str("request_id", reqID).Logger()
			ctx = l.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// withActorSink lets AccessLog see the actor that AuthValidator resolves
// further down the chain.
func withActorSink(ctx context.Context, sink *requestctx.Actor) context.Context {
	return context.WithValue(ctx, actorSinkContextKey, sink)
}

func reportActor(ctx context.Context) {
	if sink, ok := ctx.Value(actorSinkContextKey).(*requestctx.Actor); ok {
		*sink = requestctx.ActorFrom(ctx)
	}
}
