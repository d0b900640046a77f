// Package comment implements task comments.
package comment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const MaxContentLength = 2000

type AddCommentInput struct {
	task.Ref
	AuthorID domain.UserID
	Content  string
}

type AddComment struct {
	store ports.Store
}

func NewAddComment(store ports.Store) *AddComment {
	return &AddComment{store: store}
}

func (uc *AddComment) Execute(ctx context.Context, input AddCommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" || len(content) > MaxContentLength {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "content", Message: "must be between 1 and 2000 characters"}})
	}
	if _, err := task.Locate(ctx, uc.store, input.Ref); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Comment{
		ID:        uuid.New(),
		TaskID:    input.TaskID,
		AuthorID:  input.AuthorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.store.Comments().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns a task's comments newest first with author names.
type ListComments struct {
	store ports.Store
}

func NewListComments(store ports.Store) *ListComments {
	return &ListComments{store: store}
}

func (uc *ListComments) Execute(ctx context.Context, ref task.Ref) ([]*domain.CommentWithAuthor, error) {
	if _, err := task.Locate(ctx, uc.store, ref); err != nil {
		return nil, err
	}
	out, err := uc.store.Comments().ListByTask(ctx, ref.TaskID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.CommentWithAuthor{}
	}
	return out, nil
}

type DeleteCommentInput struct {
	task.Ref
	CommentID uuid.UUID
	UserID    domain.UserID
}

// DeleteComment removes a comment. Only its author may delete it.
type DeleteComment struct {
	store ports.Store
}

func NewDeleteComment(store ports.Store) *DeleteComment {
	return &DeleteComment{store: store}
}

func (uc *DeleteComment) Execute(ctx context.Context, input DeleteCommentInput) error {
	return uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		if _, err := task.Locate(ctx, r, input.Ref); err != nil {
			return err
		}
		c, err := r.Comments().GetByID(ctx, input.TaskID, input.CommentID)
		if err != nil {
			return err
		}
		if c == nil {
			return domerrors.ErrCommentNotFound
		}
		if c.AuthorID != input.UserID {
			return domerrors.ErrNotCommentAuthor
		}
		return r.Comments().Delete(ctx, c.ID)
	})
}
