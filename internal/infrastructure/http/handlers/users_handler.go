package handlers

import (
	"net/http"

	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
)

// UsersHandler handles /users/me. Requires AuthValidator.
type UsersHandler struct {
	getMe    *auth.GetMe
	updateMe *auth.UpdateMe
}

func NewUsersHandler(getMe *auth.GetMe, updateMe *auth.UpdateMe) *UsersHandler {
	return &UsersHandler{getMe: getMe, updateMe: updateMe}
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	user, err := h.getMe.Execute(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		FullName string `json:"fullName" validate:"required,max=100"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	user, err := h.updateMe.Execute(r.Context(), auth.UpdateMeInput{UserID: userID, FullName: body.FullName})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
