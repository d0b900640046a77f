package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/organization"
	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/response"
)

// OrgParam is the chi URL parameter naming the organization of a route.
const OrgParam = "orgId"

// Membership guards organization-scoped routes. Use after AuthValidator.
type Membership struct {
	authorize *organization.Authorize
}

func NewMembership(authorize *organization.Authorize) *Membership {
	return &Membership{authorize: authorize}
}

// RequireMember admits any accepted member of the routed organization.
func (m *Membership) RequireMember(next http.Handler) http.Handler {
	return m.RequireRole()(next)
}

// RequireRole admits accepted members holding one of roles. No roles means
// any role.
func (m *Membership) RequireRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := requestctx.UserID(r.Context())
			if !ok {
				response.Error(w, r, domerrors.ErrMissingActor)
				return
			}
			orgID, err := uuid.Parse(chi.URLParam(r, OrgParam))
			if err != nil {
				response.Error(w, r, domerrors.ErrOrganizationNotFound)
				return
			}
			membership, err := m.authorize.Execute(r.Context(), organization.AuthorizeInput{
				OrganizationID: domain.NewOrganizationID(orgID),
				UserID:         domain.NewUserID(userID),
				Roles:          roles,
			})
			if err != nil {
				response.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithMembership(r.Context(), membership)))
		})
	}
}
