package db

import (
	"context"

	"github.com/google/uuid"
)

const membershipColumns = `id, user_id, organization_id, role, status, created_at`

func scanMembership(row interface{ Scan(...any) error }) (Membership, error) {
	var m Membership
	err := row.Scan(&m.ID, &m.UserID, &m.OrganizationID, &m.Role, &m.Status, &m.CreatedAt)
	return m, err
}

const createMembership = `-- name: CreateMembership :one
INSERT INTO memberships (id, user_id, organization_id, role, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + membershipColumns

type CreateMembershipParams struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           string
	Status         string
}

func (q *Queries) CreateMembership(ctx context.Context, arg CreateMembershipParams) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, createMembership, arg.ID, arg.UserID, arg.OrganizationID, arg.Role, arg.Status))
}

const getMembershipByID = `-- name: GetMembershipByID :one
SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`

func (q *Queries) GetMembershipByID(ctx context.Context, id uuid.UUID) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, getMembershipByID, id))
}

const getMembership = `-- name: GetMembership :one
SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1 AND organization_id = $2`

type GetMembershipParams struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

func (q *Queries) GetMembership(ctx context.Context, arg GetMembershipParams) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, getMembership, arg.UserID, arg.OrganizationID))
}

const lockMembership = `-- name: LockMembership :one
SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1 FOR UPDATE`

func (q *Queries) LockMembership(ctx context.Context, id uuid.UUID) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, lockMembership, id))
}

const updateMembershipStatus = `-- name: UpdateMembershipStatus :one
UPDATE memberships SET status = $2 WHERE id = $1
RETURNING ` + membershipColumns

type UpdateMembershipStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateMembershipStatus(ctx context.Context, arg UpdateMembershipStatusParams) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, updateMembershipStatus, arg.ID, arg.Status))
}

const deleteMembership = `-- name: DeleteMembership :one
DELETE FROM memberships WHERE id = $1
RETURNING ` + membershipColumns

func (q *Queries) DeleteMembership(ctx context.Context, id uuid.UUID) (Membership, error) {
	return scanMembership(q.db.QueryRow(ctx, deleteMembership, id))
}

const listPendingInvitations = `-- name: ListPendingInvitations :many
SELECT m.id, m.user_id, m.organization_id, m.role, m.status, m.created_at,
       o.id, o.name, o.created_at
FROM memberships m
JOIN organizations o ON o.id = m.organization_id
WHERE m.user_id = $1 AND m.status = 'PENDING'
ORDER BY m.created_at DESC`

type ListPendingInvitationsRow struct {
	Membership   Membership
	Organization Organization
}

func (q *Queries) ListPendingInvitations(ctx context.Context, userID uuid.UUID) ([]ListPendingInvitationsRow, error) {
	rows, err := q.db.Query(ctx, listPendingInvitations, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPendingInvitationsRow
	for rows.Next() {
		var i ListPendingInvitationsRow
		if err := rows.Scan(
			&i.Membership.ID, &i.Membership.UserID, &i.Membership.OrganizationID,
			&i.Membership.Role, &i.Membership.Status, &i.Membership.CreatedAt,
			&i.Organization.ID, &i.Organization.Name, &i.Organization.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
