// Package jobs holds periodic maintenance over the data model.
package jobs

import (
	"context"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

// CleanupProvisionalUsers deletes inactive accounts that no live invite
// token refers to anymore. Call periodically (hourly cron).
type CleanupProvisionalUsers struct {
	users   ports.UserRepository
	invites ports.InviteTokenStore
}

func NewCleanupProvisionalUsers(users ports.UserRepository, invites ports.InviteTokenStore) *CleanupProvisionalUsers {
	return &CleanupProvisionalUsers{users: users, invites: invites}
}

// Run returns how many users were deleted. It stops on the first error.
func (j *CleanupProvisionalUsers) Run(ctx context.Context) (deleted int, err error) {
	inactive, err := j.users.ListInactive(ctx)
	if err != nil {
		return 0, err
	}
	if len(inactive) == 0 {
		return 0, nil
	}
	live, err := j.invites.InvitedEmails(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range inactive {
		if _, ok := live[u.Email]; ok {
			continue
		}
		if err := j.users.Delete(ctx, u.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
