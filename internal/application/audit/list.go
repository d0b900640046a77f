package audit

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// ListAuditLogs pages through the audit trail newest first.
type ListAuditLogs struct {
	logs ports.AuditLogRepository
}

func NewListAuditLogs(logs ports.AuditLogRepository) *ListAuditLogs {
	return &ListAuditLogs{logs: logs}
}

func (uc *ListAuditLogs) Execute(ctx context.Context, f domain.AuditFilter) (*domain.PageResult[*domain.AuditLog], error) {
	if f.Action != "" && !f.Action.Valid() {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "action", Message: "must be one of INSERT, UPDATE, DELETE"}})
	}
	f.Page = f.Page.Normalize()
	items, total, err := uc.logs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.AuditLog{}
	}
	return &domain.PageResult[*domain.AuditLog]{Items: items, Pagination: domain.NewPagination(f.Page, total)}, nil
}
