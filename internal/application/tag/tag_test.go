package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/memory"
)

func TestTags(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	owner := apptest.SeedUser(t, s, "owner@x.com")
	org := apptest.SeedOrg(t, s, "Acme", owner)
	other := apptest.SeedOrg(t, s, "Other", owner)
	p := apptest.SeedProject(t, s, org, "BE")
	tk, err := task.NewCreateTask(s).Execute(ctx, task.CreateTaskInput{OrganizationID: org.ID, ProjectID: p.ID, Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	ref := task.Ref{OrganizationID: org.ID, ProjectID: p.ID, TaskID: tk.ID}

	create := NewCreateTag(s)
	bug, err := create.Execute(ctx, CreateTagInput{OrganizationID: org.ID, Name: " bug "})
	if err != nil {
		t.Fatal(err)
	}
	if bug.Name != "bug" || bug.Color != domain.DefaultTagColor {
		t.Fatalf("tag = %+v", bug)
	}
	if _, err := create.Execute(ctx, CreateTagInput{OrganizationID: org.ID, Name: "bug", Color: "red"}); !errors.Is(err, domerrors.ErrTagExists) {
		t.Fatalf("duplicate tag: %v", err)
	}
	if _, err := create.Execute(ctx, CreateTagInput{OrganizationID: org.ID, Name: "a-very-long-tag-name-indeed"}); domerrors.KindOf(err) != domerrors.KindValidation {
		t.Fatalf("long name: %v", err)
	}
	foreign, err := create.Execute(ctx, CreateTagInput{OrganizationID: other.ID, Name: "bug"})
	if err != nil {
		t.Fatalf("same name in another org: %v", err)
	}

	attach := NewAttachTag(s)
	got, err := attach.Execute(ctx, TaskTagInput{Ref: ref, TagID: bug.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := attach.Execute(ctx, TaskTagInput{Ref: ref, TagID: bug.ID}); err != nil {
		t.Fatalf("attach twice: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != bug.ID {
		t.Fatalf("tags = %+v", got.Tags)
	}
	if _, err := attach.Execute(ctx, TaskTagInput{Ref: ref, TagID: foreign.ID}); !errors.Is(err, domerrors.ErrTagOrgMismatch) {
		t.Fatalf("foreign tag: %v", err)
	}

	if err := NewDetachTag(s).Execute(ctx, TaskTagInput{Ref: ref, TagID: bug.ID}); err != nil {
		t.Fatal(err)
	}
	after, _ := task.NewGetTask(s).Execute(ctx, ref)
	if len(after.Tags) != 0 {
		t.Fatalf("tags after detach = %+v", after.Tags)
	}

	tags, err := NewListTags(s.Tags()).Execute(ctx, org.ID)
	if err != nil || len(tags) != 1 {
		t.Fatalf("list = %v, %v", tags, err)
	}
}
