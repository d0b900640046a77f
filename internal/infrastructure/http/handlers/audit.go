package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/audit"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// AuthEvent logs an authentication outcome with the client IP.
func AuthEvent(r *http.Request, event, userID string, success bool, err error) {
	log := zerolog.Ctx(r.Context())
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev = ev.
		Str("event", event).
		Str("user_id", userID).
		Str("ip", r.RemoteAddr).
		Bool("success", success)
	if err != nil {
		ev = ev.Str("error", err.Error())
	}
	ev.Msg("auth_audit")
}

// AuditLogHandler serves GET /audit-log.
type AuditLogHandler struct {
	list *audit.ListAuditLogs
}

func NewAuditLogHandler(list *audit.ListAuditLogs) *AuditLogHandler {
	return &AuditLogHandler{list: list}
}

type auditQuery struct {
	EntityName string `json:"entityName" validate:"max=50"`
	EntityID   string `json:"entityId" validate:"max=100"`
	UserID     string `json:"userId" validate:"omitempty,uuid"`
	Action     string `json:"action" validate:"omitempty,oneof=INSERT UPDATE DELETE"`
}

// List filters by entityName, entityId, userId and action, newest first.
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	q := r.URL.Query()
	query := auditQuery{
		EntityName: q.Get("entityName"),
		EntityID:   q.Get("entityId"),
		UserID:     q.Get("userId"),
		Action:     q.Get("action"),
	}
	if err := validateStruct(&query); err != nil {
		writeErr(w, r, err)
		return
	}
	filter := domain.AuditFilter{
		EntityName: query.EntityName,
		EntityID:   query.EntityID,
		Action:     domain.AuditAction(query.Action),
		Page:       page,
	}
	if query.UserID != "" {
		id, err := uuid.Parse(query.UserID)
		if err != nil {
			writeErr(w, r, domerrors.ErrInvalidInput)
			return
		}
		filter.UserID = &id
	}
	result, err := h.list.Execute(r.Context(), filter)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
