package db

import (
	"context"

	"github.com/google/uuid"
)

const projectColumns = `id, organization_id, name, key, description, last_task_number, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Key, &p.Description, &p.LastTaskNumber, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createProject = `-- name: CreateProject :one
INSERT INTO projects (id, organization_id, name, key, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Key            string
	Description    string
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, createProject, arg.ID, arg.OrganizationID, arg.Name, arg.Key, arg.Description))
}

type ProjectRef struct {
	OrganizationID uuid.UUID
	ID             uuid.UUID
}

const getProjectByID = `-- name: GetProjectByID :one
SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 AND id = $2`

func (q *Queries) GetProjectByID(ctx context.Context, arg ProjectRef) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProjectByID, arg.OrganizationID, arg.ID))
}

const lockProject = `-- name: LockProject :one
SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 AND id = $2 FOR UPDATE`

func (q *Queries) LockProject(ctx context.Context, arg ProjectRef) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, lockProject, arg.OrganizationID, arg.ID))
}

const getProjectByKey = `-- name: GetProjectByKey :one
SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 AND key = $2`

type GetProjectByKeyParams struct {
	OrganizationID uuid.UUID
	Key            string
}

func (q *Queries) GetProjectByKey(ctx context.Context, arg GetProjectByKeyParams) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProjectByKey, arg.OrganizationID, arg.Key))
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM projects
WHERE organization_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

type ListProjectsParams struct {
	OrganizationID uuid.UUID
	Limit          int32
	Offset         int32
}

func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]Project, error) {
	rows, err := q.db.Query(ctx, listProjects, arg.OrganizationID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const countProjects = `-- name: CountProjects :one
SELECT count(*) FROM projects WHERE organization_id = $1`

func (q *Queries) CountProjects(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProjects, organizationID).Scan(&n)
	return n, err
}

const updateProject = `-- name: UpdateProject :one
UPDATE projects SET name = $3, description = $4, updated_at = now()
WHERE organization_id = $1 AND id = $2
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	OrganizationID uuid.UUID
	ID             uuid.UUID
	Name           string
	Description    string
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, updateProject, arg.OrganizationID, arg.ID, arg.Name, arg.Description))
}

const incrementTaskNumber = `-- name: IncrementTaskNumber :one
UPDATE projects SET last_task_number = last_task_number + 1, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns

func (q *Queries) IncrementTaskNumber(ctx context.Context, id uuid.UUID) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, incrementTaskNumber, id))
}

const deleteProject = `-- name: DeleteProject :one
DELETE FROM projects WHERE organization_id = $1 AND id = $2
RETURNING ` + projectColumns

func (q *Queries) DeleteProject(ctx context.Context, arg ProjectRef) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, deleteProject, arg.OrganizationID, arg.ID))
}
