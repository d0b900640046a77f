package postgres

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

func TestToAuditLog(t *testing.T) {
	actor := uuid.New()
	row := db.AuditLog{
		ID:         uuid.New(),
		UserID:     db.UUIDParam(&actor),
		Action:     string(domain.AuditUpdate),
		EntityName: domain.EntityTask,
		EntityID:   "t1",
		Before:     []byte(`{"title":"a"}`),
		After:      []byte(`{"title":"b"}`),
		Diff:       []byte(`{"title":{"before":"a","after":"b"}}`),
	}
	l, err := toAuditLog(row)
	if err != nil {
		t.Fatal(err)
	}
	if l.UserID == nil || *l.UserID != actor {
		t.Errorf("user id = %v", l.UserID)
	}
	if l.Diff["title"].After != "b" {
		t.Errorf("diff = %+v", l.Diff)
	}
	if l.Before["title"] != "a" {
		t.Errorf("before = %+v", l.Before)
	}
}

func TestToAuditLog_NullColumns(t *testing.T) {
	l, err := toAuditLog(db.AuditLog{ID: uuid.New(), Action: string(domain.AuditInsert), After: []byte(`{}`)})
	if err != nil {
		t.Fatal(err)
	}
	if l.UserID != nil || l.Before != nil || l.Diff != nil {
		t.Errorf("null columns should stay nil: %+v", l)
	}
}
