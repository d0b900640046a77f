package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

// Repository getters return (nil, nil) when no row matches unless noted.
// Every write on a tracked entity records its audit entry in the same
// transaction as the write.

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update writes full name, password hash and activation flag.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id domain.UserID) error
	ListInactive(ctx context.Context) ([]*domain.User, error)
	ListActive(ctx context.Context) ([]*domain.User, error)
}

// OrganizationRepository persists organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error)
	GetByName(ctx context.Context, name string) (*domain.Organization, error)
	// ListForUser returns organizations where the user's membership is ACCEPTED.
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Organization, error)
}

// MembershipRepository persists user/organization memberships.
type MembershipRepository interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error)
	Get(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) (*domain.Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPendingForUser(ctx context.Context, userID domain.UserID) ([]*domain.Invitation, error)
}

// ProjectRepository persists projects and owns the task-number counter.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, error)
	GetByKey(ctx context.Context, orgID domain.OrganizationID, key string) (*domain.Project, error)
	List(ctx context.Context, orgID domain.OrganizationID, page domain.Page) ([]*domain.Project, int, error)
	// Update writes name and description.
	Update(ctx context.Context, p *domain.Project) error
	// ReserveTaskNumber locks the project row, increments its counter and
	// returns the project with the reserved number. Must run inside a
	// transaction; fails ErrProjectNotFound when the project is not in orgID.
	ReserveTaskNumber(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) (*domain.Project, int, error)
	// Delete removes the project row only; callers delete its tasks first.
	Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ProjectID) error
}

// TaskFilter selects a page of a project's tasks.
type TaskFilter struct {
	ProjectID domain.ProjectID
	Status    domain.TaskStatus
	Page      domain.Page
}

// TaskRepository persists tasks. Reads include the task's tags.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error)
	// GetForUpdate is GetByID holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error)
	// List orders by created_at DESC, task_number DESC.
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, int, error)
	// Update writes title, description, assignee, order and status.
	Update(ctx context.Context, t *domain.Task) error
	ListIDs(ctx context.Context, projectID domain.ProjectID) ([]domain.TaskID, error)
	// Delete fails ErrTaskNotFound when no row matches.
	Delete(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) error
	// ListOpenAssignedTo returns TODO, IN_PROGRESS and REVIEW tasks of a user.
	ListOpenAssignedTo(ctx context.Context, userID domain.UserID) ([]*domain.Task, error)
}

// CommentRepository persists task comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, taskID domain.TaskID, id uuid.UUID) (*domain.Comment, error)
	// ListByTask orders newest first.
	ListByTask(ctx context.Context, taskID domain.TaskID) ([]*domain.CommentWithAuthor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID domain.TaskID) error
}

// TagRepository persists organization tags and task/tag links.
type TagRepository interface {
	Create(ctx context.Context, t *domain.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	List(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Tag, error)
	// Attach is idempotent.
	Attach(ctx context.Context, taskID domain.TaskID, tagID uuid.UUID) error
	Detach(ctx context.Context, taskID domain.TaskID, tagID uuid.UUID) error
	DetachAll(ctx context.Context, taskID domain.TaskID) error
}

// AuditLogRepository reads the audit trail. Writes happen inside the other
// repositories.
type AuditLogRepository interface {
	List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditLog, int, error)
}

// Repositories is the set of repositories bound to one connection or
// transaction.
type Repositories interface {
	Users() UserRepository
	Organizations() OrganizationRepository
	Memberships() MembershipRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	Comments() CommentRepository
	Tags() TagRepository
	AuditLogs() AuditLogRepository
}

// Store is the top-level persistence handle.
type Store interface {
	Repositories
	// WithinTx runs fn with repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
