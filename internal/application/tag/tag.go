// Package tag implements organization tags and their attachment to tasks.
package tag

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const (
	MaxNameLength  = 20
	MaxColorLength = 20
)

type CreateTagInput struct {
	OrganizationID domain.OrganizationID
	Name           string
	Color          string
}

type CreateTag struct {
	store ports.Store
}

func NewCreateTag(store ports.Store) *CreateTag {
	return &CreateTag{store: store}
}

func (uc *CreateTag) Execute(ctx context.Context, input CreateTagInput) (*domain.Tag, error) {
	name := strings.TrimSpace(input.Name)
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = domain.DefaultTagColor
	}
	var issues []domerrors.FieldIssue
	if name == "" || len(name) > MaxNameLength {
		issues = append(issues, domerrors.FieldIssue{Field: "name", Message: "must be between 1 and 20 characters"})
	}
	if len(color) > MaxColorLength {
		issues = append(issues, domerrors.FieldIssue{Field: "color", Message: "must be at most 20 characters"})
	}
	if len(issues) > 0 {
		return nil, domerrors.Validation(issues)
	}
	t := &domain.Tag{ID: uuid.New(), OrganizationID: input.OrganizationID, Name: name, Color: color}
	if err := uc.store.Tags().Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type ListTags struct {
	tags ports.TagRepository
}

func NewListTags(tags ports.TagRepository) *ListTags {
	return &ListTags{tags: tags}
}

func (uc *ListTags) Execute(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Tag, error) {
	out, err := uc.tags.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Tag{}
	}
	return out, nil
}

type TaskTagInput struct {
	task.Ref
	TagID uuid.UUID
}

// AttachTag links a tag to a task of the same organization. Attaching twice
// is a no-op.
type AttachTag struct {
	store ports.Store
}

func NewAttachTag(store ports.Store) *AttachTag {
	return &AttachTag{store: store}
}

func (uc *AttachTag) Execute(ctx context.Context, input TaskTagInput) (*domain.Task, error) {
	var out *domain.Task
	err := uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		if _, err := task.Locate(ctx, r, input.Ref); err != nil {
			return err
		}
		if err := sameOrgTag(ctx, r, input); err != nil {
			return err
		}
		if err := r.Tags().Attach(ctx, input.TaskID, input.TagID); err != nil {
			return err
		}
		var err error
		out, err = task.Locate(ctx, r, input.Ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DetachTag removes a tag from a task.
type DetachTag struct {
	store ports.Store
}

func NewDetachTag(store ports.Store) *DetachTag {
	return &DetachTag{store: store}
}

func (uc *DetachTag) Execute(ctx context.Context, input TaskTagInput) error {
	return uc.store.WithinTx(ctx, func(r ports.Repositories) error {
		if _, err := task.Locate(ctx, r, input.Ref); err != nil {
			return err
		}
		if err := sameOrgTag(ctx, r, input); err != nil {
			return err
		}
		return r.Tags().Detach(ctx, input.TaskID, input.TagID)
	})
}

// sameOrgTag fails ErrTagNotFound for an unknown tag and ErrTagOrgMismatch
// for a tag of another organization.
func sameOrgTag(ctx context.Context, r ports.Repositories, input TaskTagInput) error {
	t, err := r.Tags().GetByID(ctx, input.TagID)
	if err != nil {
		return err
	}
	if t == nil {
		return domerrors.ErrTagNotFound
	}
	if t.OrganizationID != input.OrganizationID {
		return domerrors.ErrTagOrgMismatch
	}
	return nil
}
