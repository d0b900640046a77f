package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type taskRepo struct{ *repos }

func (r taskRepo) Create(ctx context.Context, t *domain.Task) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.projects[t.ProjectID.UUID]; !ok {
		return domerrors.ErrProjectNotFound
	}
	if t.AssigneeID != nil {
		if _, ok := st.users[t.AssigneeID.UUID]; !ok {
			return domerrors.ErrReferenceMissing
		}
	}
	for _, ex := range st.tasks {
		if ex.v.ProjectID == t.ProjectID && ex.v.Key == t.Key {
			return domerrors.ErrTaskExists
		}
	}
	stored := *t
	stored.Tags = nil
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityTask, t.ID.String(), nil, &stored)
	if err != nil {
		return err
	}
	st.tasks[t.ID.UUID] = row[domain.Task]{v: stored, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r taskRepo) GetByID(_ context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error) {
	st, done := r.begin()
	defer done()
	return st.task(projectID, id), nil
}

// GetForUpdate needs no extra locking: writers are already serialized.
func (r taskRepo) GetForUpdate(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error) {
	return r.GetByID(ctx, projectID, id)
}

func (r taskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, int, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.tasks, func(t domain.Task) bool {
		return t.ProjectID == f.ProjectID && (f.Status == "" || t.Status == f.Status)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].v, rows[j].v
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TaskNumber > b.TaskNumber
	})
	out := make([]*domain.Task, 0, len(rows))
	for _, ex := range paginate(rows, f.Page) {
		out = append(out, st.task(f.ProjectID, ex.v.ID))
	}
	return out, len(rows), nil
}

func (r taskRepo) Update(ctx context.Context, t *domain.Task) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.tasks[t.ID.UUID]
	if !ok || ex.v.ProjectID != t.ProjectID {
		return domerrors.ErrTaskNotFound
	}
	if t.AssigneeID != nil {
		if _, ok := st.users[t.AssigneeID.UUID]; !ok {
			return domerrors.ErrReferenceMissing
		}
	}
	after := ex.v
	after.Title = t.Title
	after.Description = t.Description
	after.AssigneeID = t.AssigneeID
	after.Order = t.Order
	after.Status = t.Status
	after.UpdatedAt = time.Now().UTC()
	e, err := r.entry(ctx, domain.AuditUpdate, domain.EntityTask, t.ID.String(), &ex.v, &after)
	if err != nil {
		return err
	}
	ex.v = after
	st.tasks[t.ID.UUID] = ex
	st.appendAudit(e)
	*t = *st.task(t.ProjectID, t.ID)
	return nil
}

func (r taskRepo) ListIDs(_ context.Context, projectID domain.ProjectID) ([]domain.TaskID, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.tasks, func(t domain.Task) bool { return t.ProjectID == projectID })
	ids := make([]domain.TaskID, 0, len(rows))
	for _, ex := range rows {
		ids = append(ids, ex.v.ID)
	}
	return ids, nil
}

func (r taskRepo) Delete(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.tasks[id.UUID]
	if !ok || ex.v.ProjectID != projectID {
		return domerrors.ErrTaskNotFound
	}
	e, err := r.entry(ctx, domain.AuditDelete, domain.EntityTask, id.String(), &ex.v, nil)
	if err != nil {
		return err
	}
	st.dropTask(id.UUID)
	st.appendAudit(e)
	return nil
}

func (r taskRepo) ListOpenAssignedTo(_ context.Context, userID domain.UserID) ([]*domain.Task, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.tasks, func(t domain.Task) bool {
		return t.AssigneeID != nil && *t.AssigneeID == userID && t.Status != domain.StatusDone
	})
	out := make([]*domain.Task, 0, len(rows))
	for _, ex := range rows {
		t := ex.v
		out = append(out, &t)
	}
	return out, nil
}

// task returns a copy of the task with its tags, or nil.
func (s *state) task(projectID domain.ProjectID, id domain.TaskID) *domain.Task {
	ex, ok := s.tasks[id.UUID]
	if !ok || ex.v.ProjectID != projectID {
		return nil
	}
	t := ex.v
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		t.AssigneeID = &a
	}
	t.Tags = []domain.Tag{}
	for tagID := range s.taskTags[id.UUID] {
		if tag, ok := s.tags[tagID]; ok {
			t.Tags = append(t.Tags, tag.v)
		}
	}
	sort.Slice(t.Tags, func(i, j int) bool { return t.Tags[i].Name < t.Tags[j].Name })
	return &t
}

// dropTask removes a task with the rows the schema cascades on delete.
func (s *state) dropTask(id uuid.UUID) {
	delete(s.tasks, id)
	delete(s.taskTags, id)
	for cid, c := range s.comments {
		if c.v.TaskID.UUID == id {
			delete(s.comments, cid)
		}
	}
}
