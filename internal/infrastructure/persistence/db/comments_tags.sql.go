package db

import (
	"context"

	"github.com/google/uuid"
)

const commentColumns = `id, task_id, author_id, content, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createComment = `-- name: CreateComment :one
INSERT INTO comments (id, task_id, author_id, content) VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns

type CreateCommentParams struct {
	ID       uuid.UUID
	TaskID   uuid.UUID
	AuthorID uuid.UUID
	Content  string
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, createComment, arg.ID, arg.TaskID, arg.AuthorID, arg.Content))
}

const getComment = `-- name: GetComment :one
SELECT ` + commentColumns + ` FROM comments WHERE task_id = $1 AND id = $2`

type GetCommentParams struct {
	TaskID uuid.UUID
	ID     uuid.UUID
}

func (q *Queries) GetComment(ctx context.Context, arg GetCommentParams) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, getComment, arg.TaskID, arg.ID))
}

const listCommentsByTask = `-- name: ListCommentsByTask :many
SELECT c.id, c.task_id, c.author_id, c.content, c.created_at, c.updated_at, u.full_name
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.task_id = $1
ORDER BY c.created_at DESC, c.id`

type ListCommentsByTaskRow struct {
	Comment    Comment
	AuthorName string
}

func (q *Queries) ListCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]ListCommentsByTaskRow, error) {
	rows, err := q.db.Query(ctx, listCommentsByTask, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCommentsByTaskRow
	for rows.Next() {
		var i ListCommentsByTaskRow
		c := &i.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &i.AuthorName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteComment = `-- name: DeleteComment :one
DELETE FROM comments WHERE id = $1
RETURNING ` + commentColumns

func (q *Queries) DeleteComment(ctx context.Context, id uuid.UUID) (Comment, error) {
	return scanComment(q.db.QueryRow(ctx, deleteComment, id))
}

const deleteCommentsByTask = `-- name: DeleteCommentsByTask :many
DELETE FROM comments WHERE task_id = $1
RETURNING ` + commentColumns

func (q *Queries) DeleteCommentsByTask(ctx context.Context, taskID uuid.UUID) ([]Comment, error) {
	rows, err := q.db.Query(ctx, deleteCommentsByTask, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const createTag = `-- name: CreateTag :one
INSERT INTO tags (id, organization_id, name, color) VALUES ($1, $2, $3, $4)
RETURNING id, organization_id, name, color`

type CreateTagParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Color          string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	var t Tag
	err := q.db.QueryRow(ctx, createTag, arg.ID, arg.OrganizationID, arg.Name, arg.Color).
		Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Color)
	return t, err
}

const getTag = `-- name: GetTag :one
SELECT id, organization_id, name, color FROM tags WHERE id = $1`

func (q *Queries) GetTag(ctx context.Context, id uuid.UUID) (Tag, error) {
	var t Tag
	err := q.db.QueryRow(ctx, getTag, id).Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Color)
	return t, err
}

const listTags = `-- name: ListTags :many
SELECT id, organization_id, name, color FROM tags WHERE organization_id = $1 ORDER BY name`

func (q *Queries) ListTags(ctx context.Context, organizationID uuid.UUID) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

type TaskTagParams struct {
	TaskID uuid.UUID
	TagID  uuid.UUID
}

const attachTag = `-- name: AttachTag :exec
INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

func (q *Queries) AttachTag(ctx context.Context, arg TaskTagParams) error {
	_, err := q.db.Exec(ctx, attachTag, arg.TaskID, arg.TagID)
	return err
}

const detachTag = `-- name: DetachTag :exec
DELETE FROM task_tags WHERE task_id = $1 AND tag_id = $2`

func (q *Queries) DetachTag(ctx context.Context, arg TaskTagParams) error {
	_, err := q.db.Exec(ctx, detachTag, arg.TaskID, arg.TagID)
	return err
}

const detachAllTags = `-- name: DetachAllTags :exec
DELETE FROM task_tags WHERE task_id = $1`

func (q *Queries) DetachAllTags(ctx context.Context, taskID uuid.UUID) error {
	_, err := q.db.Exec(ctx, detachAllTags, taskID)
	return err
}
