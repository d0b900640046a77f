package memory

import (
	"context"
	"strings"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

type userRepo struct{ *repos }

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	st, done := r.begin()
	defer done()
	for _, ex := range st.users {
		if strings.EqualFold(ex.v.Email, u.Email) {
			return domerrors.ErrUserExists
		}
	}
	e, err := r.entry(ctx, domain.AuditInsert, domain.EntityUser, u.ID.String(), nil, u)
	if err != nil {
		return err
	}
	st.users[u.ID.UUID] = row[domain.User]{v: *u, seq: st.next()}
	st.appendAudit(e)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	st, done := r.begin()
	defer done()
	ex, ok := st.users[id.UUID]
	if !ok {
		return nil, nil
	}
	u := ex.v
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	st, done := r.begin()
	defer done()
	for _, ex := range st.users {
		if strings.EqualFold(ex.v.Email, email) {
			u := ex.v
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(ctx context.Context, u *domain.User) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.users[u.ID.UUID]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	after := ex.v
	after.FullName = u.FullName
	after.PasswordHash = u.PasswordHash
	after.IsActive = u.IsActive
	after.UpdatedAt = time.Now().UTC()
	e, err := r.entry(ctx, domain.AuditUpdate, domain.EntityUser, u.ID.String(), &ex.v, &after)
	if err != nil {
		return err
	}
	ex.v = after
	st.users[u.ID.UUID] = ex
	st.appendAudit(e)
	*u = after
	return nil
}

func (r userRepo) Delete(ctx context.Context, id domain.UserID) error {
	st, done := r.begin()
	defer done()
	ex, ok := st.users[id.UUID]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	e, err := r.entry(ctx, domain.AuditDelete, domain.EntityUser, id.String(), &ex.v, nil)
	if err != nil {
		return err
	}
	delete(st.users, id.UUID)
	for mid, m := range st.memberships {
		if m.v.UserID == id {
			delete(st.memberships, mid)
		}
	}
	st.appendAudit(e)
	return nil
}

func (r userRepo) ListInactive(_ context.Context) ([]*domain.User, error) {
	return r.list(false)
}

func (r userRepo) ListActive(_ context.Context) ([]*domain.User, error) {
	return r.list(true)
}

func (r userRepo) list(active bool) ([]*domain.User, error) {
	st, done := r.begin()
	defer done()
	rows := sortedRows(st.users, func(u domain.User) bool { return u.IsActive == active })
	out := make([]*domain.User, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		u := rows[i].v
		out = append(out, &u)
	}
	return out, nil
}
