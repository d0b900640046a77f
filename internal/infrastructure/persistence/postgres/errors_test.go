package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"named unique", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "projects_org_key_key"}, domerrors.ErrProjectKeyInUse},
		{"named foreign key", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "tasks_assignee_id_fkey"}, domerrors.ErrReferenceMissing},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"}), domerrors.ErrUserExists},
		{"unknown unique", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "other_key"}, domerrors.ErrDuplicateValue},
		{"unknown foreign key", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "other_fkey"}, domerrors.ErrReferenceMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(context.Background(), tt.err); !errors.Is(got, tt.want) {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslate_PassesThroughOtherErrors(t *testing.T) {
	check := &pgconn.PgError{Code: "23514", ConstraintName: "projects_key_check"}
	if got := translate(context.Background(), check); got != error(check) {
		t.Errorf("check violation should pass through, got %v", got)
	}
	if got := translate(context.Background(), pgx.ErrNoRows); !isNoRows(got) {
		t.Errorf("no rows should pass through, got %v", got)
	}
	if translate(context.Background(), nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestTranslate_KeepsConstraintNamesOutOfMessages(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	for _, pgErr := range []*pgconn.PgError{
		{Code: codeUniqueViolation, ConstraintName: "secret_internal_key", TableName: "widgets"},
		{Code: codeForeignKeyViolation, ConstraintName: "secret_internal_fkey", TableName: "widgets"},
	} {
		got := translate(ctx, pgErr)
		if strings.Contains(got.Error(), "secret_internal") {
			t.Errorf("message %q exposes the constraint name", got.Error())
		}
		if got != domerrors.ErrDuplicateValue && got != domerrors.ErrReferenceMissing {
			t.Errorf("translate() = %v, want a bare sentinel", got)
		}
		if !strings.Contains(buf.String(), pgErr.ConstraintName) {
			t.Errorf("log %q does not name %s", buf.String(), pgErr.ConstraintName)
		}
	}
}
