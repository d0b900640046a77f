package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/memory"
)

func TestComments(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	ann := apptest.SeedUser(t, s, "ann@x.com")
	bob := apptest.SeedUser(t, s, "bob@x.com")
	org := apptest.SeedOrg(t, s, "Acme", ann)
	p := apptest.SeedProject(t, s, org, "BE")
	tk, err := task.NewCreateTask(s).Execute(ctx, task.CreateTaskInput{OrganizationID: org.ID, ProjectID: p.ID, Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	ref := task.Ref{OrganizationID: org.ID, ProjectID: p.ID, TaskID: tk.ID}

	add := NewAddComment(s)
	first, err := add.Execute(ctx, AddCommentInput{Ref: ref, AuthorID: ann.ID, Content: "first"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := add.Execute(ctx, AddCommentInput{Ref: ref, AuthorID: bob.ID, Content: "second"}); err != nil {
		t.Fatal(err)
	}
	if _, err := add.Execute(ctx, AddCommentInput{Ref: ref, AuthorID: bob.ID, Content: " "}); domerrors.KindOf(err) != domerrors.KindValidation {
		t.Fatalf("empty content: %v", err)
	}

	list, err := NewListComments(s).Execute(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Content != "second" || list[0].AuthorName != "bob@x.com" {
		t.Fatalf("list = %+v", list)
	}

	del := NewDeleteComment(s)
	if err := del.Execute(ctx, DeleteCommentInput{Ref: ref, CommentID: first.ID, UserID: bob.ID}); !errors.Is(err, domerrors.ErrNotCommentAuthor) {
		t.Fatalf("delete by non-author: %v", err)
	}
	if err := del.Execute(ctx, DeleteCommentInput{Ref: ref, CommentID: first.ID, UserID: ann.ID}); err != nil {
		t.Fatal(err)
	}
	if err := del.Execute(ctx, DeleteCommentInput{Ref: ref, CommentID: first.ID, UserID: ann.ID}); !errors.Is(err, domerrors.ErrCommentNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
