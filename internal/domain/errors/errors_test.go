package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", ErrTaskNotFound, KindNotFound},
		{"wrapped sentinel", fmt.Errorf("%w: cannot move from TODO to DONE", ErrInvalidTransition), KindInvalidTransition},
		{"validation", Validation([]FieldIssue{{Field: "title", Message: "required"}}), KindValidation},
		{"foreign error", errors.New("connection reset"), KindInternal},
		{"nil-safe foreign wrap", fmt.Errorf("query: %w", errors.New("boom")), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrappedSentinelStillMatches(t *testing.T) {
	err := fmt.Errorf("%w: TODO -> DONE", ErrInvalidTransition)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatal("wrapped error should match its sentinel")
	}
	if errors.Is(err, ErrTaskNotFound) {
		t.Fatal("wrapped error should not match an unrelated sentinel")
	}
}

func TestValidationAggregatesAllFields(t *testing.T) {
	err := Validation([]FieldIssue{
		{Field: "name", Message: "is required"},
		{Field: "key", Message: "must be at most 10 characters"},
	})
	fields := FieldsOf(fmt.Errorf("create project: %w", err))
	if len(fields) != 2 {
		t.Fatalf("expected 2 field issues, got %d", len(fields))
	}
	if fields[1].Field != "key" {
		t.Errorf("second issue field = %q", fields[1].Field)
	}
}
