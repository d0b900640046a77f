package domain

import (
	"errors"
	"strings"
	"testing"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

func TestCanTransition_AllPairs(t *testing.T) {
	allowed := map[[2]TaskStatus]bool{
		{StatusTodo, StatusInProgress}:   true,
		{StatusInProgress, StatusReview}: true,
		{StatusInProgress, StatusTodo}:   true,
		{StatusReview, StatusDone}:       true,
		{StatusReview, StatusInProgress}: true,
		{StatusDone, StatusTodo}:         true,
	}
	var ok, rejected int
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[[2]TaskStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
			if want {
				ok++
			} else {
				rejected++
			}
		}
	}
	if ok != 6 || rejected != 10 {
		t.Fatalf("expected 6 legal and 10 illegal transitions, got %d and %d", ok, rejected)
	}
}

func TestTaskTransition_ErrorNamesBothStates(t *testing.T) {
	task := &Task{Key: "BE-1", Status: StatusTodo}
	err := task.Transition(StatusDone)
	if !errors.Is(err, domerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if domerrors.KindOf(err) != domerrors.KindInvalidTransition {
		t.Fatalf("unexpected kind %q", domerrors.KindOf(err))
	}
	msg := err.Error()
	for _, s := range []string{"TODO", "DONE"} {
		if !strings.Contains(msg, s) {
			t.Errorf("error %q does not name %s", msg, s)
		}
	}
	if task.Status != StatusTodo {
		t.Errorf("status changed on failed transition: %s", task.Status)
	}
}

func TestTaskTransition_ReopenFromDone(t *testing.T) {
	task := &Task{Key: "BE-2", Status: StatusDone}
	if err := task.Transition(StatusTodo); err != nil {
		t.Fatalf("reopen should be allowed: %v", err)
	}
	if task.Status != StatusTodo {
		t.Fatalf("status = %s", task.Status)
	}
}

func TestTaskTransition_UnknownStatus(t *testing.T) {
	task := &Task{Status: StatusTodo}
	if err := task.Transition("BLOCKED"); !errors.Is(err, domerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseTaskStatus(t *testing.T) {
	if s, err := ParseTaskStatus("REVIEW"); err != nil || s != StatusReview {
		t.Fatalf("ParseTaskStatus(REVIEW) = %q, %v", s, err)
	}
	if _, err := ParseTaskStatus("review"); err == nil {
		t.Fatal("statuses are case sensitive")
	}
}

