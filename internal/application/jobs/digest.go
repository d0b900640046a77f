package jobs

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

// Digest lists the open tasks assigned to one user.
type Digest struct {
	User  *domain.User
	Tasks []*domain.Task
}

// DailyDigest collects, for every active user, the TODO, IN_PROGRESS and
// REVIEW tasks assigned to them. Users with nothing open are skipped.
type DailyDigest struct {
	users ports.UserRepository
	tasks ports.TaskRepository
}

func NewDailyDigest(users ports.UserRepository, tasks ports.TaskRepository) *DailyDigest {
	return &DailyDigest{users: users, tasks: tasks}
}

func (j *DailyDigest) Run(ctx context.Context) ([]Digest, error) {
	users, err := j.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var out []Digest
	for _, u := range users {
		open, err := j.tasks.ListOpenAssignedTo(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if len(open) > 0 {
			out = append(out, Digest{User: u, Tasks: open})
		}
	}
	return out, nil
}
