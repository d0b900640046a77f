package domain

import (
	"errors"
	"testing"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

func TestNormalizeProjectKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"be", "BE", false},
		{"  web1 ", "WEB1", false},
		{"ABCDEFGHIJ", "ABCDEFGHIJ", false},
		{"ABCDEFGHIJK", "", true},
		{"a", "", true},
		{"be-x", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeProjectKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domerrors.ErrInvalidProjectKey) {
				t.Errorf("NormalizeProjectKey(%q) err = %v, want ErrInvalidProjectKey", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeProjectKey(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestProjectTaskKey(t *testing.T) {
	p := &Project{Key: "BE"}
	if got := p.TaskKey(12); got != "BE-12" {
		t.Fatalf("TaskKey = %q", got)
	}
}
