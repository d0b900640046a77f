package postgres

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

// openStore connects to JIRA_TEST_DATABASE_URL and skips when it is unset.
func openStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("JIRA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("JIRA_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	return NewStore(pool)
}

func unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestStore_ConcurrentTaskNumbers(t *testing.T) {
	s := openStore(t)
	owner := apptest.SeedUser(t, s, unique("owner")+"@x.com")
	org := apptest.SeedOrg(t, s, unique("org"), owner)
	project := apptest.SeedProject(t, s, org, "PG")

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	uc := task.NewCreateTask(s)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := uc.Execute(context.Background(), task.CreateTaskInput{
				OrganizationID: org.ID, ProjectID: project.ID, Title: "parallel",
			})
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			numbers = append(numbers, created.TaskNumber)
			mu.Unlock()
		}()
	}
	wg.Wait()
	sort.Ints(numbers)
	for i, got := range numbers {
		if got != i+1 {
			t.Fatalf("numbers = %v", numbers)
		}
	}
}

func TestStore_RollbackDropsWriteAndAudit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	email := unique("ghost") + "@x.com"
	err := s.WithinTx(ctx, func(r ports.Repositories) error {
		u := &domain.User{Email: email, PasswordHash: "h", FullName: "Ghost", IsActive: true}
		if err := r.Users().Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	u, err := s.Users().GetByEmail(ctx, email)
	if err != nil || u != nil {
		t.Fatalf("user survived rollback: %v %v", u, err)
	}
}

func TestStore_ConstraintErrors(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	owner := apptest.SeedUser(t, s, unique("dup")+"@x.com")
	err := s.Users().Create(ctx, &domain.User{Email: owner.Email, PasswordHash: "h", IsActive: true})
	if !errors.Is(err, domerrors.ErrUserExists) {
		t.Errorf("duplicate email err = %v", err)
	}
	org := apptest.SeedOrg(t, s, unique("org"), owner)
	apptest.SeedProject(t, s, org, "DUP")
	err = s.Projects().Create(ctx, &domain.Project{OrganizationID: org.ID, Name: "Again", Key: "DUP"})
	if !errors.Is(err, domerrors.ErrProjectKeyInUse) {
		t.Errorf("duplicate key err = %v", err)
	}
}

func TestStore_AuditTrailRecordsActor(t *testing.T) {
	s := openStore(t)
	owner := apptest.SeedUser(t, s, unique("audited")+"@x.com")
	logs, total, err := s.AuditLogs().List(context.Background(), domain.AuditFilter{
		EntityName: domain.EntityUser,
		EntityID:   owner.ID.String(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(logs) != 1 || logs[0].Action != domain.AuditInsert {
		t.Fatalf("logs = %+v total=%d", logs, total)
	}
	if _, ok := logs[0].After["passwordHash"]; ok {
		t.Error("password hash leaked into the audit trail")
	}
}
