package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type commentRepo struct{ *repos }

func toComment(c db.Comment) *domain.Comment {
	return &domain.Comment{
		ID:        c.ID,
		TaskID:    domain.NewTaskID(c.TaskID),
		AuthorID:  domain.NewUserID(c.AuthorID),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r commentRepo) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == (uuid.UUID{}) {
		c.ID = uuid.New()
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateComment(ctx, db.CreateCommentParams{
			ID:       c.ID,
			TaskID:   c.TaskID.UUID,
			AuthorID: c.AuthorID.UUID,
			Content:  c.Content,
		})
		if err != nil {
			return translate(ctx, err)
		}
		*c = *toComment(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityComment, c.ID.String(), nil, c)
	})
}

func (r commentRepo) GetByID(ctx context.Context, taskID domain.TaskID, id uuid.UUID) (*domain.Comment, error) {
	c, err := r.q.GetComment(ctx, db.GetCommentParams{TaskID: taskID.UUID, ID: id})
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toComment(c), nil
}

func (r commentRepo) ListByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.CommentWithAuthor, error) {
	rows, err := r.q.ListCommentsByTask(ctx, taskID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.CommentWithAuthor, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.CommentWithAuthor{Comment: *toComment(row.Comment), AuthorName: row.AuthorName})
	}
	return out, nil
}

func (r commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.DeleteComment(ctx, id)
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrCommentNotFound
			}
			return err
		}
		return recordMutation(ctx, q, domain.AuditDelete, domain.EntityComment, id.String(), toComment(row), nil)
	})
}

func (r commentRepo) DeleteByTask(ctx context.Context, taskID domain.TaskID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		rows, err := q.DeleteCommentsByTask(ctx, taskID.UUID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := recordMutation(ctx, q, domain.AuditDelete, domain.EntityComment, row.ID.String(), toComment(row), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

type tagRepo struct{ *repos }

func toTag(t db.Tag) *domain.Tag {
	return &domain.Tag{
		ID:             t.ID,
		OrganizationID: domain.NewOrganizationID(t.OrganizationID),
		Name:           t.Name,
		Color:          t.Color,
	}
}

func (r tagRepo) Create(ctx context.Context, t *domain.Tag) error {
	if t.ID == (uuid.UUID{}) {
		t.ID = uuid.New()
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateTag(ctx, db.CreateTagParams{
			ID:             t.ID,
			OrganizationID: t.OrganizationID.UUID,
			Name:           t.Name,
			Color:          t.Color,
		})
		if err != nil {
			return translate(ctx, err)
		}
		*t = *toTag(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityTag, t.ID.String(), nil, t)
	})
}

func (r tagRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	t, err := r.q.GetTag(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toTag(t), nil
}

func (r tagRepo) List(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Tag, error) {
	rows, err := r.q.ListTags(ctx, orgID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Tag, 0, len(rows))
	for _, t := range rows {
		out = append(out, toTag(t))
	}
	return out, nil
}

func (r tagRepo) Attach(ctx context.Context, taskID domain.TaskID, tagID uuid.UUID) error {
	return translate(ctx, r.q.AttachTag(ctx, db.TaskTagParams{TaskID: taskID.UUID, TagID: tagID}))
}

func (r tagRepo) Detach(ctx context.Context, taskID domain.TaskID, tagID uuid.UUID) error {
	return r.q.DetachTag(ctx, db.TaskTagParams{TaskID: taskID.UUID, TagID: tagID})
}

func (r tagRepo) DetachAll(ctx context.Context, taskID domain.TaskID) error {
	return r.q.DetachAllTags(ctx, taskID.UUID)
}
