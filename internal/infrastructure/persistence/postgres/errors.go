package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintErrors names the domain error each schema constraint stands for.
var constraintErrors = map[string]error{
	"users_email_key":                  domerrors.ErrUserExists,
	"organizations_name_key":           domerrors.ErrOrganizationExists,
	"memberships_user_org_key":         domerrors.ErrAlreadyMember,
	"memberships_user_id_fkey":         domerrors.ErrUserNotFound,
	"memberships_organization_id_fkey": domerrors.ErrOrganizationNotFound,
	"projects_org_key_key":             domerrors.ErrProjectKeyInUse,
	"projects_organization_id_fkey":    domerrors.ErrOrganizationNotFound,
	"tasks_project_key_key":            domerrors.ErrTaskExists,
	"tasks_project_number_key":         domerrors.ErrTaskExists,
	"tasks_project_id_fkey":            domerrors.ErrProjectNotFound,
	"tasks_assignee_id_fkey":           domerrors.ErrReferenceMissing,
	"comments_task_id_fkey":            domerrors.ErrTaskNotFound,
	"comments_author_id_fkey":          domerrors.ErrReferenceMissing,
	"tags_org_name_key":                domerrors.ErrTagExists,
	"tags_organization_id_fkey":        domerrors.ErrOrganizationNotFound,
	"task_tags_task_id_fkey":           domerrors.ErrTaskNotFound,
	"task_tags_tag_id_fkey":            domerrors.ErrTagNotFound,
}

// translate maps integrity violations onto the domain taxonomy and leaves
// every other error untouched. Constraint names stay in the log; clients
// only see the domain message.
func translate(ctx context.Context, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}
	var mapped error
	switch pgErr.Code {
	case codeUniqueViolation:
		mapped = domerrors.ErrDuplicateValue
	case codeForeignKeyViolation:
		mapped = domerrors.ErrReferenceMissing
	default:
		return err
	}
	zerolog.Ctx(ctx).Warn().
		Str("constraint", pgErr.ConstraintName).
		Str("table", pgErr.TableName).
		Str("pg_code", pgErr.Code).
		Msg("unmapped constraint violation")
	return mapped
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
