package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

func seedProject(t *testing.T, s *Store) *domain.Project {
	t.Helper()
	ctx := context.Background()
	org := &domain.Organization{ID: domain.NewOrganizationID(uuid.New()), Name: "Acme", CreatedAt: time.Now()}
	if err := s.Organizations().Create(ctx, org); err != nil {
		t.Fatal(err)
	}
	p := &domain.Project{ID: domain.NewProjectID(uuid.New()), OrganizationID: org.ID, Name: "Backend", Key: "BE"}
	if err := s.Projects().Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWithinTx_RollbackDiscardsWrites(t *testing.T) {
	s := NewStore()
	p := seedProject(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(r ports.Repositories) error {
		if _, _, err := r.Projects().ReserveTaskNumber(context.Background(), p.OrganizationID, p.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	got, _ := s.Projects().GetByID(context.Background(), p.OrganizationID, p.ID)
	if got.LastTaskNumber != 0 {
		t.Fatalf("counter leaked out of rolled back tx: %d", got.LastTaskNumber)
	}
}

func TestReserveTaskNumber_RequiresTx(t *testing.T) {
	s := NewStore()
	p := seedProject(t, s)
	if _, _, err := s.Projects().ReserveTaskNumber(context.Background(), p.OrganizationID, p.ID); !errors.Is(err, errNotInTx) {
		t.Fatalf("expected errNotInTx, got %v", err)
	}
}

func TestReserveTaskNumber_WrongOrg(t *testing.T) {
	s := NewStore()
	p := seedProject(t, s)
	err := s.WithinTx(context.Background(), func(r ports.Repositories) error {
		_, _, err := r.Projects().ReserveTaskNumber(context.Background(), domain.NewOrganizationID(uuid.New()), p.ID)
		return err
	})
	if !errors.Is(err, domerrors.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestAuditFailureAbortsWrite(t *testing.T) {
	s := NewStore()
	s.FailAudits(errors.New("audit down"))
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: "a@x.com"}
	if err := s.Users().Create(context.Background(), u); err == nil {
		t.Fatal("expected create to fail")
	}
	s.FailAudits(nil)
	if got, _ := s.Users().GetByEmail(context.Background(), "a@x.com"); got != nil {
		t.Fatal("user persisted despite audit failure")
	}
}

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := seedProject(t, s)

	dup := &domain.Project{ID: domain.NewProjectID(uuid.New()), OrganizationID: p.OrganizationID, Key: "BE"}
	if err := s.Projects().Create(ctx, dup); !errors.Is(err, domerrors.ErrProjectKeyInUse) {
		t.Errorf("duplicate project key: %v", err)
	}
	org := &domain.Organization{ID: domain.NewOrganizationID(uuid.New()), Name: "Acme"}
	if err := s.Organizations().Create(ctx, org); !errors.Is(err, domerrors.ErrOrganizationExists) {
		t.Errorf("duplicate org name: %v", err)
	}
}

func TestTaskDeleteCascadesLinksAndComments(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := seedProject(t, s)
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: "a@x.com", FullName: "Ann"}
	if err := s.Users().Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	task := &domain.Task{ID: domain.NewTaskID(uuid.New()), ProjectID: p.ID, TaskNumber: 1, Key: "BE-1", Status: domain.StatusTodo}
	if err := s.Tasks().Create(ctx, task); err != nil {
		t.Fatal(err)
	}
	tag := &domain.Tag{ID: uuid.New(), OrganizationID: p.OrganizationID, Name: "bug", Color: "red"}
	if err := s.Tags().Create(ctx, tag); err != nil {
		t.Fatal(err)
	}
	if err := s.Tags().Attach(ctx, task.ID, tag.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Tags().Attach(ctx, task.ID, tag.ID); err != nil {
		t.Fatalf("attach should be idempotent: %v", err)
	}
	got, _ := s.Tasks().GetByID(ctx, p.ID, task.ID)
	if len(got.Tags) != 1 {
		t.Fatalf("tags = %v", got.Tags)
	}
	c := &domain.Comment{ID: uuid.New(), TaskID: task.ID, AuthorID: u.ID, Content: "hi"}
	if err := s.Comments().Create(ctx, c); err != nil {
		t.Fatal(err)
	}

	if err := s.Tasks().Delete(ctx, p.ID, task.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Tasks().Delete(ctx, p.ID, task.ID); !errors.Is(err, domerrors.ErrTaskNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if got, _ := s.Comments().GetByID(ctx, task.ID, c.ID); got != nil {
		t.Fatal("comment survived task delete")
	}
}
