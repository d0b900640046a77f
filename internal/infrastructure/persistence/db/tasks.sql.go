package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const taskColumns = `id, project_id, task_number, key, title, description, status, assignee_id, sort_order, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.TaskNumber, &t.Key, &t.Title, &t.Description,
		&t.Status, &t.AssigneeID, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (q *Queries) collectTasks(ctx context.Context, sql string, args ...interface{}) ([]Task, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const createTask = `-- name: CreateTask :one
INSERT INTO tasks (id, project_id, task_number, key, title, description, status, assignee_id, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + taskColumns

type CreateTaskParams struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	TaskNumber  int32
	Key         string
	Title       string
	Description string
	Status      string
	AssigneeID  pgtype.UUID
	SortOrder   int32
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	return scanTask(q.db.QueryRow(ctx, createTask, arg.ID, arg.ProjectID, arg.TaskNumber, arg.Key,
		arg.Title, arg.Description, arg.Status, arg.AssigneeID, arg.SortOrder))
}

type TaskRef struct {
	ProjectID uuid.UUID
	ID        uuid.UUID
}

const getTaskByID = `-- name: GetTaskByID :one
SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 AND id = $2`

func (q *Queries) GetTaskByID(ctx context.Context, arg TaskRef) (Task, error) {
	return scanTask(q.db.QueryRow(ctx, getTaskByID, arg.ProjectID, arg.ID))
}

const lockTask = `-- name: LockTask :one
SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 AND id = $2 FOR UPDATE`

func (q *Queries) LockTask(ctx context.Context, arg TaskRef) (Task, error) {
	return scanTask(q.db.QueryRow(ctx, lockTask, arg.ProjectID, arg.ID))
}

const listTasks = `-- name: ListTasks :many
SELECT ` + taskColumns + ` FROM tasks
WHERE project_id = $1 AND ($2::text = '' OR status = $2)
ORDER BY created_at DESC, task_number DESC
LIMIT $3 OFFSET $4`

type ListTasksParams struct {
	ProjectID uuid.UUID
	Status    string
	Limit     int32
	Offset    int32
}

func (q *Queries) ListTasks(ctx context.Context, arg ListTasksParams) ([]Task, error) {
	return q.collectTasks(ctx, listTasks, arg.ProjectID, arg.Status, arg.Limit, arg.Offset)
}

const countTasks = `-- name: CountTasks :one
SELECT count(*) FROM tasks WHERE project_id = $1 AND ($2::text = '' OR status = $2)`

type CountTasksParams struct {
	ProjectID uuid.UUID
	Status    string
}

func (q *Queries) CountTasks(ctx context.Context, arg CountTasksParams) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countTasks, arg.ProjectID, arg.Status).Scan(&n)
	return n, err
}

const updateTask = `-- name: UpdateTask :one
UPDATE tasks
SET title = $3, description = $4, assignee_id = $5, sort_order = $6, status = $7, updated_at = now()
WHERE project_id = $1 AND id = $2
RETURNING ` + taskColumns

type UpdateTaskParams struct {
	ProjectID   uuid.UUID
	ID          uuid.UUID
	Title       string
	Description string
	AssigneeID  pgtype.UUID
	SortOrder   int32
	Status      string
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (Task, error) {
	return scanTask(q.db.QueryRow(ctx, updateTask, arg.ProjectID, arg.ID, arg.Title, arg.Description,
		arg.AssigneeID, arg.SortOrder, arg.Status))
}

const listTaskIDs = `-- name: ListTaskIDs :many
SELECT id FROM tasks WHERE project_id = $1 ORDER BY created_at DESC, task_number DESC`

func (q *Queries) ListTaskIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, listTaskIDs, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

const deleteTask = `-- name: DeleteTask :one
DELETE FROM tasks WHERE project_id = $1 AND id = $2
RETURNING ` + taskColumns

func (q *Queries) DeleteTask(ctx context.Context, arg TaskRef) (Task, error) {
	return scanTask(q.db.QueryRow(ctx, deleteTask, arg.ProjectID, arg.ID))
}

const listOpenTasksForAssignee = `-- name: ListOpenTasksForAssignee :many
SELECT ` + taskColumns + ` FROM tasks
WHERE assignee_id = $1 AND status <> 'DONE'
ORDER BY created_at DESC, task_number DESC`

func (q *Queries) ListOpenTasksForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]Task, error) {
	return q.collectTasks(ctx, listOpenTasksForAssignee, assigneeID)
}

const listTagsForTasks = `-- name: ListTagsForTasks :many
SELECT tt.task_id, t.id, t.organization_id, t.name, t.color
FROM task_tags tt
JOIN tags t ON t.id = tt.tag_id
WHERE tt.task_id = ANY($1::uuid[])
ORDER BY t.name`

type ListTagsForTasksRow struct {
	TaskID uuid.UUID
	Tag    Tag
}

func (q *Queries) ListTagsForTasks(ctx context.Context, taskIDs []uuid.UUID) ([]ListTagsForTasksRow, error) {
	rows, err := q.db.Query(ctx, listTagsForTasks, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTagsForTasksRow
	for rows.Next() {
		var i ListTagsForTasksRow
		if err := rows.Scan(&i.TaskID, &i.Tag.ID, &i.Tag.OrganizationID, &i.Tag.Name, &i.Tag.Color); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
