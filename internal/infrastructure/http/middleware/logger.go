package middleware

import (
	"net/http"
	"time"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
)

// AccessLog writes one line per request once the response is complete.
// The actor is read after the handler chain so authenticated requests carry it.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		var actor requestctx.Actor
		next.ServeHTTP(ww, r.WithContext(withActorSink(r.Context(), &actor)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log := zerolog.Ctx(r.Context())
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds())
		if actor.UserID != nil {
			ev = ev.Str("actor_id", actor.UserID.String())
		}
		ev.Msg("request")
	})
}
