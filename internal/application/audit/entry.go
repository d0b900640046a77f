// Package audit builds audit log entries from entity snapshots.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

// ErrSelfAudit is returned when asked to audit an audit log write.
var ErrSelfAudit = errors.New("audit: audit log writes are not audited")

// NewEntry builds the audit record for one mutation. before is nil for
// INSERT and after is nil for DELETE. The actor comes from ctx.
func NewEntry(ctx context.Context, action domain.AuditAction, entity, entityID string, before, after any) (*domain.AuditLog, error) {
	if entity == domain.EntityAuditLog {
		return nil, ErrSelfAudit
	}
	b, err := Snapshot(before)
	if err != nil {
		return nil, err
	}
	a, err := Snapshot(after)
	if err != nil {
		return nil, err
	}
	actor := requestctx.ActorFrom(ctx)
	entry := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		RequestID:  actor.RequestID,
		Action:     action,
		EntityName: entity,
		EntityID:   entityID,
		Before:     b,
		After:      a,
		CreatedAt:  time.Now().UTC(),
	}
	if action == domain.AuditUpdate {
		entry.Diff = Diff(b, a)
	}
	return entry, nil
}

// Snapshot converts v into its JSON object form. Fields hidden from JSON
// (password hashes) never reach the audit trail.
func Snapshot(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Diff compares top-level fields. Scalars are compared by value; objects and
// arrays always count as changed. Returns nil when nothing changed.
func Diff(before, after map[string]any) map[string]domain.FieldChange {
	diff := map[string]domain.FieldChange{}
	for k, av := range after {
		bv, ok := before[k]
		if !ok || !scalarEqual(bv, av) {
			diff[k] = domain.FieldChange{Before: bv, After: av}
		}
	}
	for k, bv := range before {
		if _, ok := after[k]; !ok {
			diff[k] = domain.FieldChange{Before: bv, After: nil}
		}
	}
	if len(diff) == 0 {
		return nil
	}
	return diff
}

func scalarEqual(a, b any) bool {
	switch a.(type) {
	case map[string]any, []any:
		return false
	}
	switch b.(type) {
	case map[string]any, []any:
		return false
	}
	return a == b
}
