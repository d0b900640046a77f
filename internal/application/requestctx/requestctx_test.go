package requestctx

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestActorFrom_Empty(t *testing.T) {
	a := ActorFrom(context.Background())
	if a.UserID != nil || a.RequestID != "" {
		t.Fatalf("expected zero actor, got %+v", a)
	}
	if _, ok := UserID(context.Background()); ok {
		t.Fatal("expected no user id")
	}
}

func TestWithActorKeepsRequestID(t *testing.T) {
	uid := uuid.New()
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithActor(ctx, uid)
	a := ActorFrom(ctx)
	if a.RequestID != "req-1" {
		t.Errorf("request id = %q", a.RequestID)
	}
	if a.UserID == nil || *a.UserID != uid {
		t.Errorf("user id = %v", a.UserID)
	}
}

func TestConcurrentRequestsDoNotLeak(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uid := uuid.New()
			ctx := WithActor(context.Background(), uid)
			got, ok := UserID(ctx)
			if !ok || got != uid {
				t.Errorf("got %v, want %v", got, uid)
			}
		}()
	}
	wg.Wait()
}
