// Package postgres implements the repository ports on PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kolevkaloyan/jira-clone/internal/application/audit"
	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

var errNotInTx = errors.New("postgres: operation must run inside a transaction")

// auditRows counts audit inserts. Rows of a rolled back transaction are
// counted too.
var auditRows = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jira_audit_rows_total",
		Help: "Audit log rows written by entity and action",
	},
	[]string{"entity", "action"},
)

// Store implements ports.Store on a connection pool.
type Store struct {
	*repos
}

var _ ports.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repos: &repos{q: db.New(pool), pool: pool}}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ports.Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&repos{q: s.q.WithTx(tx), pool: s.pool, inTx: true})
	})
}

// repos binds repositories to the pool or, when inTx, to one transaction.
type repos struct {
	q    *db.Queries
	pool *pgxpool.Pool
	inTx bool
}

func (r *repos) Users() ports.UserRepository                 { return userRepo{r} }
func (r *repos) Organizations() ports.OrganizationRepository { return orgRepo{r} }
func (r *repos) Memberships() ports.MembershipRepository     { return membershipRepo{r} }
func (r *repos) Projects() ports.ProjectRepository           { return projectRepo{r} }
func (r *repos) Tasks() ports.TaskRepository                 { return taskRepo{r} }
func (r *repos) Comments() ports.CommentRepository           { return commentRepo{r} }
func (r *repos) Tags() ports.TagRepository                   { return tagRepo{r} }
func (r *repos) AuditLogs() ports.AuditLogRepository         { return auditRepo{r} }

// atomic runs fn on the current transaction, or on a fresh one when the
// repositories are bound to the pool, so a write and its audit row commit
// together.
func (r *repos) atomic(ctx context.Context, fn func(q *db.Queries) error) error {
	if r.inTx {
		return fn(r.q)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(r.q.WithTx(tx))
	})
}

// recordMutation appends the audit row for one write.
func recordMutation(ctx context.Context, q *db.Queries, action domain.AuditAction, entity, id string, before, after any) error {
	e, err := audit.NewEntry(ctx, action, entity, id, before, after)
	if err != nil {
		return err
	}
	row := db.AuditLog{
		ID:         e.ID,
		UserID:     db.UUIDParam(e.UserID),
		RequestID:  e.RequestID,
		Action:     string(e.Action),
		EntityName: e.EntityName,
		EntityID:   e.EntityID,
		CreatedAt:  e.CreatedAt,
	}
	if row.Before, err = jsonOrNull(e.Before); err != nil {
		return err
	}
	if row.After, err = jsonOrNull(e.After); err != nil {
		return err
	}
	if e.Diff != nil {
		if row.Diff, err = json.Marshal(e.Diff); err != nil {
			return err
		}
	}
	if err := q.InsertAuditLog(ctx, row); err != nil {
		return err
	}
	auditRows.WithLabelValues(e.EntityName, row.Action).Inc()
	return nil
}

func jsonOrNull(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
