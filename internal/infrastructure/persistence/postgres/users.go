package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type userRepo struct{ *repos }

func toUser(u db.User) *domain.User {
	return &domain.User{
		ID:           domain.NewUserID(u.ID),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID.UUID == (uuid.UUID{}) {
		u.ID = domain.NewUserID(uuid.New())
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateUser(ctx, db.CreateUserParams{
			ID:           u.ID.UUID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			FullName:     u.FullName,
			IsActive:     u.IsActive,
			Role:         string(u.Role),
		})
		if err != nil {
			return translate(ctx, err)
		}
		*u = *toUser(row)
		return recordMutation(ctx, q, domain.AuditInsert, domain.EntityUser, u.ID.String(), nil, u)
	})
}

func (r userRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := r.q.GetUserByID(ctx, id.UUID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toUser(u), nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return toUser(u), nil
}

func (r userRepo) Update(ctx context.Context, u *domain.User) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		before, err := q.GetUserForUpdate(ctx, u.ID.UUID)
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrUserNotFound
			}
			return err
		}
		after, err := q.UpdateUser(ctx, db.UpdateUserParams{
			ID:           u.ID.UUID,
			FullName:     u.FullName,
			PasswordHash: u.PasswordHash,
			IsActive:     u.IsActive,
		})
		if err != nil {
			return translate(ctx, err)
		}
		*u = *toUser(after)
		return recordMutation(ctx, q, domain.AuditUpdate, domain.EntityUser, u.ID.String(), toUser(before), u)
	})
}

func (r userRepo) Delete(ctx context.Context, id domain.UserID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.DeleteUser(ctx, id.UUID)
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrUserNotFound
			}
			return translate(ctx, err)
		}
		return recordMutation(ctx, q, domain.AuditDelete, domain.EntityUser, id.String(), toUser(row), nil)
	})
}

func (r userRepo) ListInactive(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, false)
}

func (r userRepo) ListActive(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx, true)
}

func (r userRepo) list(ctx context.Context, active bool) ([]*domain.User, error) {
	rows, err := r.q.ListUsersByActive(ctx, active)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, toUser(u))
	}
	return out, nil
}
