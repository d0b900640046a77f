package db

import (
	"context"

	"github.com/google/uuid"
)

const createOrganization = `-- name: CreateOrganization :one
INSERT INTO organizations (id, name) VALUES ($1, $2)
RETURNING id, name, created_at`

type CreateOrganizationParams struct {
	ID   uuid.UUID
	Name string
}

func (q *Queries) CreateOrganization(ctx context.Context, arg CreateOrganizationParams) (Organization, error) {
	var o Organization
	err := q.db.QueryRow(ctx, createOrganization, arg.ID, arg.Name).Scan(&o.ID, &o.Name, &o.CreatedAt)
	return o, err
}

const getOrganizationByID = `-- name: GetOrganizationByID :one
SELECT id, name, created_at FROM organizations WHERE id = $1`

func (q *Queries) GetOrganizationByID(ctx context.Context, id uuid.UUID) (Organization, error) {
	var o Organization
	err := q.db.QueryRow(ctx, getOrganizationByID, id).Scan(&o.ID, &o.Name, &o.CreatedAt)
	return o, err
}

const getOrganizationByName = `-- name: GetOrganizationByName :one
SELECT id, name, created_at FROM organizations WHERE lower(name) = lower($1)`

func (q *Queries) GetOrganizationByName(ctx context.Context, name string) (Organization, error) {
	var o Organization
	err := q.db.QueryRow(ctx, getOrganizationByName, name).Scan(&o.ID, &o.Name, &o.CreatedAt)
	return o, err
}

const listOrganizationsForUser = `-- name: ListOrganizationsForUser :many
SELECT o.id, o.name, o.created_at
FROM organizations o
JOIN memberships m ON m.organization_id = o.id
WHERE m.user_id = $1 AND m.status = 'ACCEPTED'
ORDER BY o.created_at DESC`

func (q *Queries) ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]Organization, error) {
	rows, err := q.db.Query(ctx, listOrganizationsForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}
