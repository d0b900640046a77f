// Package memory is an in-memory transactional implementation of the
// repository ports. Transactions run on a cloned state that replaces the
// live state on commit; a single mutex serializes writers, which also
// stands in for row locks.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/audit"
	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

var errNotInTx = errors.New("memory: operation must run inside a transaction")

type row[T any] struct {
	v   T
	seq int64
}

type state struct {
	seq         int64
	users       map[uuid.UUID]row[domain.User]
	orgs        map[uuid.UUID]row[domain.Organization]
	memberships map[uuid.UUID]row[domain.Membership]
	projects    map[uuid.UUID]row[domain.Project]
	tasks       map[uuid.UUID]row[domain.Task]
	comments    map[uuid.UUID]row[domain.Comment]
	tags        map[uuid.UUID]row[domain.Tag]
	taskTags    map[uuid.UUID]map[uuid.UUID]struct{}
	audit       []domain.AuditLog
}

func newState() *state {
	return &state{
		users:       map[uuid.UUID]row[domain.User]{},
		orgs:        map[uuid.UUID]row[domain.Organization]{},
		memberships: map[uuid.UUID]row[domain.Membership]{},
		projects:    map[uuid.UUID]row[domain.Project]{},
		tasks:       map[uuid.UUID]row[domain.Task]{},
		comments:    map[uuid.UUID]row[domain.Comment]{},
		tags:        map[uuid.UUID]row[domain.Tag]{},
		taskTags:    map[uuid.UUID]map[uuid.UUID]struct{}{},
	}
}

func cloneMap[T any](m map[uuid.UUID]row[T]) map[uuid.UUID]row[T] {
	out := make(map[uuid.UUID]row[T], len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		users:       cloneMap(s.users),
		orgs:        cloneMap(s.orgs),
		memberships: cloneMap(s.memberships),
		projects:    cloneMap(s.projects),
		tasks:       cloneMap(s.tasks),
		comments:    cloneMap(s.comments),
		tags:        cloneMap(s.tags),
		taskTags:    make(map[uuid.UUID]map[uuid.UUID]struct{}, len(s.taskTags)),
		audit:       append([]domain.AuditLog(nil), s.audit...),
	}
	for k, set := range s.taskTags {
		cs := make(map[uuid.UUID]struct{}, len(set))
		for id := range set {
			cs[id] = struct{}{}
		}
		c.taskTags[k] = cs
	}
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store implements ports.Store.
type Store struct {
	mu       sync.Mutex
	state    *state
	auditErr error
}

var _ ports.Store = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// FailAudits makes every subsequent audit write fail with err. Pass nil to
// restore normal behavior.
func (s *Store) FailAudits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// AuditTrail returns a copy of every recorded audit entry in write order.
func (s *Store) AuditTrail() []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditLog(nil), s.state.audit...)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&repos{store: s, tx: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) root() *repos { return &repos{store: s} }

func (s *Store) Users() ports.UserRepository                 { return userRepo{s.root()} }
func (s *Store) Organizations() ports.OrganizationRepository { return orgRepo{s.root()} }
func (s *Store) Memberships() ports.MembershipRepository     { return membershipRepo{s.root()} }
func (s *Store) Projects() ports.ProjectRepository           { return projectRepo{s.root()} }
func (s *Store) Tasks() ports.TaskRepository                 { return taskRepo{s.root()} }
func (s *Store) Comments() ports.CommentRepository           { return commentRepo{s.root()} }
func (s *Store) Tags() ports.TagRepository                   { return tagRepo{s.root()} }
func (s *Store) AuditLogs() ports.AuditLogRepository         { return auditRepo{s.root()} }

// repos binds repositories either to the live state (tx == nil, locking per
// call) or to a transaction's working copy.
type repos struct {
	store *Store
	tx    *state
}

func (r *repos) Users() ports.UserRepository                 { return userRepo{r} }
func (r *repos) Organizations() ports.OrganizationRepository { return orgRepo{r} }
func (r *repos) Memberships() ports.MembershipRepository     { return membershipRepo{r} }
func (r *repos) Projects() ports.ProjectRepository           { return projectRepo{r} }
func (r *repos) Tasks() ports.TaskRepository                 { return taskRepo{r} }
func (r *repos) Comments() ports.CommentRepository           { return commentRepo{r} }
func (r *repos) Tags() ports.TagRepository                   { return tagRepo{r} }
func (r *repos) AuditLogs() ports.AuditLogRepository         { return auditRepo{r} }

func (r *repos) begin() (*state, func()) {
	if r.tx != nil {
		return r.tx, func() {}
	}
	r.store.mu.Lock()
	return r.store.state, r.store.mu.Unlock
}

// entry builds the audit record before any state is touched so a failure
// leaves the state unchanged.
func (r *repos) entry(ctx context.Context, action domain.AuditAction, entity, id string, before, after any) (*domain.AuditLog, error) {
	if r.store.auditErr != nil {
		return nil, r.store.auditErr
	}
	return audit.NewEntry(ctx, action, entity, id, before, after)
}

func (s *state) appendAudit(e *domain.AuditLog) {
	s.audit = append(s.audit, *e)
}

// sortedRows returns the values of m ordered by seq descending (newest first).
func sortedRows[T any](m map[uuid.UUID]row[T], keep func(T) bool) []row[T] {
	out := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.v) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq > out[j].seq })
	return out
}

func paginate[T any](items []T, p domain.Page) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
