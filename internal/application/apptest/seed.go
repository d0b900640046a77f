package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
)

// SeedUser stores an active user.
func SeedUser(t *testing.T, store ports.Store, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: "hashed:password",
		FullName:     email,
		IsActive:     true,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SeedOrg stores an organization owned by owner.
func SeedOrg(t *testing.T, store ports.Store, name string, owner *domain.User) *domain.Organization {
	t.Helper()
	ctx := context.Background()
	org := &domain.Organization{ID: domain.NewOrganizationID(uuid.New()), Name: name, CreatedAt: time.Now().UTC()}
	if err := store.Organizations().Create(ctx, org); err != nil {
		t.Fatalf("seed org %s: %v", name, err)
	}
	if err := store.Memberships().Create(ctx, &domain.Membership{
		ID: uuid.New(), UserID: owner.ID, OrganizationID: org.ID,
		Role: domain.RoleOwner, Status: domain.EnrollmentAccepted, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed owner membership: %v", err)
	}
	return org
}

// SeedProject stores a project with the given key.
func SeedProject(t *testing.T, store ports.Store, org *domain.Organization, key string) *domain.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &domain.Project{
		ID:             domain.NewProjectID(uuid.New()),
		OrganizationID: org.ID,
		Name:           key + " project",
		Key:            key,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.Projects().Create(context.Background(), p); err != nil {
		t.Fatalf("seed project %s: %v", key, err)
	}
	return p
}
