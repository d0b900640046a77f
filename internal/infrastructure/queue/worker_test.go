package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/jobs"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/memory"
)

func newHandlers(t *testing.T) (*Handlers, *memory.Store, *bytes.Buffer) {
	t.Helper()
	s := memory.NewStore()
	tokens := memory.NewTokenStore()
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	h := NewHandlers(jobs.NewDailyDigest(s.Users(), s.Tasks()), jobs.NewCleanupProvisionalUsers(s.Users(), tokens), log)
	return h, s, &buf
}

func TestHandleInviteEmail(t *testing.T) {
	h, _, buf := newHandlers(t)
	payload, _ := json.Marshal(inviteEmailPayload{Email: "bob@x.com", OrgName: "Acme", Token: "tok"})
	if err := h.handleInviteEmail(context.Background(), asynq.NewTask(TypeInviteEmail, payload)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"email":"bob@x.com"`) {
		t.Errorf("log = %s", buf.String())
	}
}

func TestHandleInviteEmail_BadPayloadSkipsRetry(t *testing.T) {
	h, _, _ := newHandlers(t)
	err := h.handleInviteEmail(context.Background(), asynq.NewTask(TypeInviteEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v", err)
	}
}

func TestHandleDailyDigest_LogsOneLinePerTask(t *testing.T) {
	h, s, buf := newHandlers(t)
	ctx := context.Background()
	ann := apptest.SeedUser(t, s, "ann@x.com")
	org := apptest.SeedOrg(t, s, "Acme", ann)
	p := apptest.SeedProject(t, s, org, "BE")
	for _, title := range []string{"one", "two"} {
		if _, err := task.NewCreateTask(s).Execute(ctx, task.CreateTaskInput{
			OrganizationID: org.ID, ProjectID: p.ID, Title: title, AssigneeID: &ann.ID,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.handleDailyDigest(ctx, asynq.NewTask(TypeDailyDigest, nil)); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), `"message":"digest"`); got != 2 {
		t.Errorf("digest lines = %d\n%s", got, buf.String())
	}
}

func TestHandleCleanup(t *testing.T) {
	h, s, buf := newHandlers(t)
	ctx := context.Background()
	u := apptest.SeedUser(t, s, "ghost@x.com")
	u.IsActive = false
	if err := s.Users().Update(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := h.handleCleanup(ctx, asynq.NewTask(TypeCleanupProvisional, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"deleted":1`) {
		t.Errorf("log = %s", buf.String())
	}
}

func TestMuxRoutesEveryType(t *testing.T) {
	h, _, _ := newHandlers(t)
	mux := h.Mux()
	for _, typ := range []string{TypeInviteEmail, TypeDailyDigest, TypeCleanupProvisional} {
		if _, pattern := mux.Handler(asynq.NewTask(typ, nil)); pattern != typ {
			t.Errorf("%s routed to %q", typ, pattern)
		}
	}
}

func TestLogEnqueuer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLogEnqueuer(zerolog.New(&buf)).EnqueueInviteEmail(context.Background(), "a@x.com", "Acme", "tok"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"organization":"Acme"`) {
		t.Errorf("log = %s", buf.String())
	}
}
