package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type commentRepo struct{ *repos }

func (r commentRepo) Create(ctx context.Context, c *domain.Comment) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.tasks[c.TaskID.UUID]; !ok {
		return domerrors.ErrTaskNotFound
	}
	if _, ok := st.users[c.AuthorID.UUID]; !ok {
		return domerrors.ErrReferenceMissing
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityComment, c.ID.String(), nil, c)
	if err != nil {
		return err
	}
	st.comments[c.ID] = row[domain.Comment]{v: *c, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r commentRepo) GetByID(_ context.Context, taskID domain.TaskID, id uuid.UUID) (*domain.Comment, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.comments[id]
	if !ok || ex.v.TaskID != taskID {
		return nil, nil
	}
	c := ex.v
	return &c, nil
}

func (r commentRepo) ListByTask(_ context.Context, taskID domain.TaskID) ([]*domain.CommentWithAuthor, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.comments, func(c domain.Comment) bool { return c.TaskID == taskID })
	out := make([]*domain.CommentWithAuthor, 0, len(rows))
	for _, ex := range rows {
		cw := &domain.CommentWithAuthor{Comment: ex.v}
		if u, ok := st.users[ex.v.AuthorID.UUID]; ok {
			cw.AuthorName = u.v.FullName
		}
		out = append(out, cw)
	}
	return out, nil
}

func (r commentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	st, done := r.begin()
	defer done()
	return r.delete(ctx, st, id)
}

func (r commentRepo) DeleteByTask(ctx context.Context, taskID domain.TaskID) error {
	st, done := r.begin()
	defer done()
	for _, ex := range sortedRows(st.comments, func(c domain.Comment) bool { return c.TaskID == taskID }) {
		if err := r.delete(ctx, st, ex.v.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r commentRepo) delete(ctx context.Context, st *state, id uuid.UUID) error {
	ex, ok := st.comments[id]
	if !ok {
		return domerrors.ErrCommentNotFound
	}
	e, err := r.entry(ctx, domain.AuditDelete, domain.EntityComment, id.String(), &ex.v, nil)
	if err != nil {
		return err
	}
	delete(st.comments, id)
	st.appendAudit(e)
	return nil
}

type tagRepo struct{ *repos }

func (r tagRepo) Create(ctx context.Context, t *domain.Tag) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.orgs[t.OrganizationID.UUID]; !ok {
		return domerrors.ErrOrganizationNotFound
	}
	for _, ex := range st.tags {
		if ex.v.OrganizationID == t.OrganizationID && ex.v.Name == t.Name {
			return domerrors.ErrTagExists
		}
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityTag, t.ID.String(), nil, t)
	if err != nil {
		return err
	}
	st.tags[t.ID] = row[domain.Tag]{v: *t, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r tagRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Tag, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.tags[id]
	if !ok {
		return nil, nil
	}
	t := ex.v
	return &t, nil
}

func (r tagRepo) List(_ context.Context, orgID domain.OrganizationID) ([]*domain.Tag, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.tags, func(t domain.Tag) bool { return t.OrganizationID == orgID })
	out := make([]*domain.Tag, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		t := rows[i].v
		out = append(out, &t)
	}
	return out, nil
}

func (r tagRepo) Attach(_ context.Context, taskID domain.TaskID, tagID uuid.UUID) error {
	st, done := r.begin()
	defer done()
	if _, ok := st.tasks[taskID.UUID]; !ok {
		return domerrors.ErrTaskNotFound
	}
	if _, ok := st.tags[tagID]; !ok {
		return domerrors.ErrTagNotFound
	}
	set, ok := st.taskTags[taskID.UUID]
	if !ok {
		set = map[uuid.UUID]struct{}{}
		st.taskTags[taskID.UUID] = set
	}
	set[tagID] = struct{}{}
	return nil
}

func (r tagRepo) Detach(_ context.Context, taskID domain.TaskID, tagID uuid.UUID) error {
	st, done := r.begin()
	defer done()
	delete(st.taskTags[taskID.UUID], tagID)
	return nil
}

func (r tagRepo) DetachAll(_ context.Context, taskID domain.TaskID) error {
	st, done := r.begin()
	defer done()
	delete(st.taskTags, taskID.UUID)
	return nil
}

type auditRepo struct{ *repos }

func (r auditRepo) List(_ context.Context, f domain.AuditFilter) ([]*domain.AuditLog, int, error) {
	st, done := r.begin()
	defer done()
	var matched []*domain.AuditLog
	for i := len(st.audit) - 1; i >= 0; i-- {
		e := st.audit[i]
		if f.EntityName != "" && e.EntityName != f.EntityName {
			continue
		}
		if f.EntityID != "" && e.EntityID != f.EntityID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.UserID != nil && (e.UserID == nil || *e.UserID != *f.UserID) {
			continue
		}
		matched = append(matched, &e)
	}
	return paginate(matched, f.Page), len(matched), nil
}
