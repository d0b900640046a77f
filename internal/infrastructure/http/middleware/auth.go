package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/response"
)

// AuthValidator validates the bearer access token and sets the actor on the
// request context (see requestctx.UserID).
type AuthValidator struct {
	issuer ports.TokenIssuer
}

func NewAuthValidator(issuer ports.TokenIssuer) *AuthValidator {
	return &AuthValidator{issuer: issuer}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Error(w, r, domerrors.ErrMissingActor)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		sub, err := m.issuer.ValidateAccessToken(tokenString)
		if err != nil {
			response.Error(w, r, domerrors.ErrInvalidToken)
			return
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			response.Error(w, r, domerrors.ErrInvalidToken)
			return
		}
		ctx := requestctx.WithActor(r.Context(), userID)
		reportActor(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
