package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kolevkaloyan/jira-clone/internal/application/organization"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
)

// OrganizationsHandler handles /organization and invitations.
type OrganizationsHandler struct {
	create      *organization.CreateOrganization
	list        *organization.ListOrganizations
	invite      *organization.InviteUser
	accept      *organization.AcceptInvite
	invitations *organization.ListInvitations
	respond     *organization.RespondToInvitation
	sessions    *AuthHandler
}

// NewOrganizationsHandler builds the handler. sessions sets the refresh
// cookie after an invite is accepted.
func NewOrganizationsHandler(
	create *organization.CreateOrganization,
	list *organization.ListOrganizations,
	invite *organization.InviteUser,
	accept *organization.AcceptInvite,
	invitations *organization.ListInvitations,
	respond *organization.RespondToInvitation,
	sessions *AuthHandler,
) *OrganizationsHandler {
	return &OrganizationsHandler{
		create:      create,
		list:        list,
		invite:      invite,
		accept:      accept,
		invitations: invitations,
		respond:     respond,
		sessions:    sessions,
	}
}

func (h *OrganizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Name string `json:"name" validate:"required,max=100"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	org, err := h.create.Execute(r.Context(), organization.CreateOrganizationInput{Name: body.Name, CreatorID: userID})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// List returns the organizations the caller has joined.
func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	orgs, err := h.list.Execute(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if orgs == nil {
		orgs = []*domain.Organization{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

type inviteResponse struct {
	Email      string             `json:"email"`
	Token      string             `json:"token,omitempty"`
	Membership *domain.Membership `json:"membership,omitempty"`
}

// Invite invites an email into the organization. Requires an OWNER or ADMIN
// membership (see middleware.Membership).
func (h *OrganizationsHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	orgID, err := orgIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	result, err := h.invite.Execute(r.Context(), organization.InviteUserInput{
		OrganizationID: orgID,
		InviterID:      userID,
		Email:          body.Email,
	})
	if err != nil {
		middleware.RecordInvite("rejected")
		writeErr(w, r, err)
		return
	}
	middleware.RecordInvite("issued")
	writeJSON(w, http.StatusCreated, inviteResponse{
		Email:      domain.NormalizeEmail(body.Email),
		Token:      result.Token,
		Membership: result.Membership,
	})
}

type acceptInviteResponse struct {
	sessionResponse
	Membership *domain.Membership `json:"membership"`
}

// AcceptInvite consumes the invite token in the path and logs the invitee
// in. The body is optional and may set a password and full name.
func (h *OrganizationsHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErr(w, r, domerrors.ErrInviteInvalid)
		return
	}
	var body struct {
		Password string `json:"password" validate:"omitempty,min=8,max=128"`
		FullName string `json:"fullName" validate:"max=100"`
	}
	if err := decode(w, r, &body, true); err != nil {
		writeErr(w, r, err)
		return
	}
	result, err := h.accept.Execute(r.Context(), organization.AcceptInviteInput{
		Token:    token,
		Password: body.Password,
		FullName: body.FullName,
	})
	if err != nil {
		AuthEvent(r, "accept_invite", "", false, err)
		middleware.RecordAuthAttempt("accept_invite", false)
		writeErr(w, r, err)
		return
	}
	AuthEvent(r, "accept_invite", result.Session.User.ID.String(), true, nil)
	middleware.RecordAuthAttempt("accept_invite", true)
	h.sessions.setRefreshCookie(w, result.Session.RefreshToken)
	writeJSON(w, http.StatusOK, acceptInviteResponse{
		sessionResponse: newSessionResponse(result.Session),
		Membership:      result.Membership,
	})
}

// ListInvitations returns the caller's pending invitations.
func (h *OrganizationsHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	invitations, err := h.invitations.Execute(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitations)
}

// RespondToInvitation accepts or rejects a pending invitation. A rejection
// deletes the membership and answers 204.
func (h *OrganizationsHandler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	membershipID, err := uuidParam(r, "membershipId", domerrors.ErrInvitationNotFound)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	m, err := h.respond.Execute(r.Context(), organization.RespondToInvitationInput{
		MembershipID: membershipID,
		UserID:       userID,
		Accept:       body.Status == string(domain.EnrollmentAccepted),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if m == nil {
		writeNoContent(w)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
