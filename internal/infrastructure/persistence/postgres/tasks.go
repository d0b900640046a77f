package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/db"
)

type taskRepo struct{ *repos }

func toTask(t db.Task) *domain.Task {
	out := &domain.Task{
		ID:          domain.NewTaskID(t.ID),
		ProjectID:   domain.NewProjectID(t.ProjectID),
		TaskNumber:  int(t.TaskNumber),
		Key:         t.Key,
		Title:       t.Title,
		Description: t.Description,
		Status:      domain.TaskStatus(t.Status),
		Order:       int(t.SortOrder),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if id := db.UUIDValue(t.AssigneeID); id != nil {
		a := domain.NewUserID(*id)
		out.AssigneeID = &a
	}
	return out
}

func assigneeParam(id *domain.UserID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return db.UUIDParam(&id.UUID)
}

func taskRef(projectID domain.ProjectID, id domain.TaskID) db.TaskRef {
	return db.TaskRef{ProjectID: projectID.UUID, ID: id.UUID}
}

// withTags loads the tags of every task in one query.
func withTags(ctx context.Context, q *db.Queries, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, t := range tasks {
		t.Tags = []domain.Tag{}
		ids = append(ids, t.ID.UUID)
		byID[t.ID.UUID] = t
	}
	rows, err := q.ListTagsForTasks(ctx, ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if t, ok := byID[row.TaskID]; ok {
			t.Tags = append(t.Tags, *toTag(row.Tag))
		}
	}
	return nil
}

func (r taskRepo) Create(ctx context.Context, t *domain.Task) error {
	if t.ID.UUID == (uuid.UUID{}) {
		t.ID = domain.NewTaskID(uuid.New())
	}
	if t.Status == "" {
		t.Status = domain.StatusTodo
	}
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.CreateTask(ctx, db.CreateTaskParams{
			ID:          t.ID.UUID,
			ProjectID:   t.ProjectID.UUID,
			TaskNumber:  int32(t.TaskNumber),
			Key:         t.Key,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			AssigneeID:  assigneeParam(t.AssigneeID),
			SortOrder:   int32(t.Order),
		})
		if err != nil {
			return translate(ctx, err)
		}
		stored := toTask(row)
		if err := recordMutation(ctx, q, domain.AuditInsert, domain.EntityTask, t.ID.String(), nil, stored); err != nil {
			return err
		}
		stored.Tags = []domain.Tag{}
		*t = *stored
		return nil
	})
}

func (r taskRepo) GetByID(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error) {
	return r.get(ctx, r.q.GetTaskByID, projectID, id)
}

func (r taskRepo) GetForUpdate(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error) {
	if !r.inTx {
		return nil, errNotInTx
	}
	return r.get(ctx, r.q.LockTask, projectID, id)
}

func (r taskRepo) get(ctx context.Context, query func(context.Context, db.TaskRef) (db.Task, error), projectID domain.ProjectID, id domain.TaskID) (*domain.Task, error) {
	row, err := query(ctx, taskRef(projectID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	t := toTask(row)
	if err := withTags(ctx, r.q, []*domain.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r taskRepo) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int, error) {
	page := f.Page.Normalize()
	total, err := r.q.CountTasks(ctx, db.CountTasksParams{ProjectID: f.ProjectID.UUID, Status: string(f.Status)})
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.ListTasks(ctx, db.ListTasksParams{
		ProjectID: f.ProjectID.UUID,
		Status:    string(f.Status),
		Limit:     int32(page.Limit),
		Offset:    int32(page.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTask(row))
	}
	if err := withTags(ctx, r.q, out); err != nil {
		return nil, 0, err
	}
	return out, int(total), nil
}

func (r taskRepo) Update(ctx context.Context, t *domain.Task) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		before, err := q.LockTask(ctx, taskRef(t.ProjectID, t.ID))
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrTaskNotFound
			}
			return err
		}
		row, err := q.UpdateTask(ctx, db.UpdateTaskParams{
			ProjectID:   t.ProjectID.UUID,
			ID:          t.ID.UUID,
			Title:       t.Title,
			Description: t.Description,
			AssigneeID:  assigneeParam(t.AssigneeID),
			SortOrder:   int32(t.Order),
			Status:      string(t.Status),
		})
		if err != nil {
			return translate(ctx, err)
		}
		after := toTask(row)
		if err := recordMutation(ctx, q, domain.AuditUpdate, domain.EntityTask, t.ID.String(), toTask(before), after); err != nil {
			return err
		}
		if err := withTags(ctx, q, []*domain.Task{after}); err != nil {
			return err
		}
		*t = *after
		return nil
	})
}

func (r taskRepo) ListIDs(ctx context.Context, projectID domain.ProjectID) ([]domain.TaskID, error) {
	rows, err := r.q.ListTaskIDs(ctx, projectID.UUID)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.TaskID, 0, len(rows))
	for _, id := range rows {
		ids = append(ids, domain.NewTaskID(id))
	}
	return ids, nil
}

func (r taskRepo) Delete(ctx context.Context, projectID domain.ProjectID, id domain.TaskID) error {
	return r.atomic(ctx, func(q *db.Queries) error {
		row, err := q.DeleteTask(ctx, taskRef(projectID, id))
		if err != nil {
			if isNoRows(err) {
				return domerrors.ErrTaskNotFound
			}
			return translate(ctx, err)
		}
		return recordMutation(ctx, q, domain.AuditDelete, domain.EntityTask, id.String(), toTask(row), nil)
	})
}

func (r taskRepo) ListOpenAssignedTo(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	rows, err := r.q.ListOpenTasksForAssignee(ctx, userID.UUID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTask(row))
	}
	return out, nil
}
