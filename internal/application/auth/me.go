package auth

import (
	"context"
	"strings"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// GetMe returns the caller's profile.
type GetMe struct {
	users ports.UserRepository
}

func NewGetMe(users ports.UserRepository) *GetMe {
	return &GetMe{users: users}
}

func (uc *GetMe) Execute(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return user, nil
}

type UpdateMeInput struct {
	UserID   domain.UserID
	FullName string
}

// UpdateMe changes the caller's display name.
type UpdateMe struct {
	users ports.UserRepository
}

func NewUpdateMe(users ports.UserRepository) *UpdateMe {
	return &UpdateMe{users: users}
}

func (uc *UpdateMe) Execute(ctx context.Context, input UpdateMeInput) (*domain.User, error) {
	name := strings.TrimSpace(input.FullName)
	if name == "" || len(name) > 100 {
		return nil, domerrors.Validation([]domerrors.FieldIssue{{Field: "fullName", Message: "must be between 1 and 100 characters"}})
	}
	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	user.FullName = name
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
