package postgres

import (
	"context"
	"encoding/json"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type auditRepo struct{ *repos }

func (r auditRepo) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditLog, int, error) {
	page := f.Page.Normalize()
	params := db.AuditLogFilterParams{
		EntityName: f.EntityName,
		EntityID:   f.EntityID,
		UserID:     db.UUIDParam(f.UserID),
		Action:     string(f.Action),
		Limit:      int32(page.Limit),
		Offset:     int32(page.Offset()),
	}
	total, err := r.q.CountAuditLogs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.ListAuditLogs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		l, err := toAuditLog(row)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, int(total), nil
}

func toAuditLog(row db.AuditLog) (*domain.AuditLog, error) {
	l := &domain.AuditLog{
		ID:         row.ID,
		UserID:     db.UUIDValue(row.UserID),
		RequestID:  row.RequestID,
		Action:     domain.AuditAction(row.Action),
		EntityName: row.EntityName,
		EntityID:   row.EntityID,
		CreatedAt:  row.CreatedAt,
	}
	for _, col := range []struct {
		raw []byte
		dst any
	}{{row.Before, &l.Before}, {row.After, &l.After}, {row.Diff, &l.Diff}} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, err
		}
	}
	return l, nil
}
