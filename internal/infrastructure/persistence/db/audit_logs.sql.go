package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertAuditLog = `-- name: InsertAuditLog :exec
INSERT INTO audit_logs (id, user_id, request_id, action, entity_name, entity_id, before, after, diff, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type InsertAuditLogParams = AuditLog

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) error {
	_, err := q.db.Exec(ctx, insertAuditLog, arg.ID, arg.UserID, arg.RequestID, arg.Action,
		arg.EntityName, arg.EntityID, arg.Before, arg.After, arg.Diff, arg.CreatedAt)
	return err
}

const auditLogFilter = `
WHERE ($1::text = '' OR entity_name = $1)
  AND ($2::text = '' OR entity_id = $2)
  AND ($3::uuid IS NULL OR user_id = $3)
  AND ($4::text = '' OR action = $4)`

const listAuditLogs = `-- name: ListAuditLogs :many
SELECT id, user_id, request_id, action, entity_name, entity_id, before, after, diff, created_at
FROM audit_logs` + auditLogFilter + `
ORDER BY created_at DESC, id
LIMIT $5 OFFSET $6`

type AuditLogFilterParams struct {
	EntityName string
	EntityID   string
	UserID     pgtype.UUID
	Action     string
	Limit      int32
	Offset     int32
}

func (q *Queries) ListAuditLogs(ctx context.Context, arg AuditLogFilterParams) ([]AuditLog, error) {
	rows, err := q.db.Query(ctx, listAuditLogs, arg.EntityName, arg.EntityID, arg.UserID, arg.Action, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditLog
	for rows.Next() {
		var a AuditLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.RequestID, &a.Action, &a.EntityName, &a.EntityID,
			&a.Before, &a.After, &a.Diff, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const countAuditLogs = `-- name: CountAuditLogs :one
SELECT count(*) FROM audit_logs` + auditLogFilter

func (q *Queries) CountAuditLogs(ctx context.Context, arg AuditLogFilterParams) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countAuditLogs, arg.EntityName, arg.EntityID, arg.UserID, arg.Action).Scan(&n)
	return n, err
}

// UUIDParam converts an optional id into its nullable column form.
func UUIDParam(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// UUIDValue is the inverse of UUIDParam.
func UUIDValue(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}
