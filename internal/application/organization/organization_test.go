package organization

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/memory"
)

type fixture struct {
	store    *memory.Store
	tokens   *memory.TokenStore
	issuer   *apptest.Issuer
	enqueuer *apptest.Enqueuer
	sessions *auth.SessionIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		tokens:   memory.NewTokenStore(),
		issuer:   apptest.NewIssuer(),
		enqueuer: &apptest.Enqueuer{},
	}
	f.sessions = auth.NewSessionIssuer(f.issuer, f.tokens)
	return f
}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: email, FullName: email, IsActive: true, PasswordHash: "hashed:pw", CreatedAt: now, UpdatedAt: now}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func (f *fixture) org(t *testing.T, name string, owner *domain.User) *domain.Organization {
	t.Helper()
	o, err := NewCreateOrganization(f.store).Execute(context.Background(), CreateOrganizationInput{Name: name, CreatorID: owner.ID})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func (f *fixture) inviter(mode InviteMode) *InviteUser {
	return NewInviteUser(f.store, apptest.Hasher{}, f.issuer, f.tokens, f.enqueuer, mode)
}

func (f *fixture) acceptor() *AcceptInvite {
	return NewAcceptInvite(f.store, apptest.Hasher{}, f.issuer, f.tokens, f.sessions)
}

func TestCreateOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	org := f.org(t, "Acme", u1)

	m, err := f.store.Memberships().Get(ctx, u1.ID, org.ID)
	if err != nil || m == nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if m.Role != domain.RoleOwner || m.Status != domain.EnrollmentAccepted {
		t.Fatalf("membership = %s/%s", m.Role, m.Status)
	}

	_, err = NewCreateOrganization(f.store).Execute(ctx, CreateOrganizationInput{Name: "Acme", CreatorID: u1.ID})
	if !errors.Is(err, domerrors.ErrOrganizationExists) {
		t.Fatalf("duplicate name: %v", err)
	}

	orgs, err := NewListOrganizations(f.store.Organizations()).Execute(ctx, u1.ID)
	if err != nil || len(orgs) != 1 {
		t.Fatalf("ListOrganizations = %v, %v", orgs, err)
	}
}

func TestCreateOrganization_RollsBackWhenMembershipFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := NewCreateOrganization(f.store).Execute(ctx, CreateOrganizationInput{Name: "Ghost", CreatorID: domain.NewUserID(uuid.New())})
	if err == nil {
		t.Fatal("expected failure for unknown creator")
	}
	if o, _ := f.store.Organizations().GetByName(ctx, "Ghost"); o != nil {
		t.Fatal("organization persisted without its owner membership")
	}
}

func TestInviteAcceptRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	org := f.org(t, "Org", owner)

	res, err := f.inviter(InviteModeToken).Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "New@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Token == "" {
		t.Fatal("expected an invite token")
	}
	if len(f.enqueuer.Invites) != 1 || f.enqueuer.Invites[0].Email != "new@x.com" {
		t.Fatalf("invite email jobs = %+v", f.enqueuer.Invites)
	}
	provisional, _ := f.store.Users().GetByEmail(ctx, "new@x.com")
	if provisional == nil || provisional.IsActive {
		t.Fatalf("expected an inactive provisional user, got %+v", provisional)
	}

	accepted, err := f.acceptor().Execute(ctx, AcceptInviteInput{Token: res.Token, Password: "newpassword"})
	if err != nil {
		t.Fatal(err)
	}
	if accepted.Session.AccessToken == "" || !accepted.Session.User.IsActive {
		t.Fatalf("session = %+v", accepted.Session)
	}
	m, _ := f.store.Memberships().Get(ctx, provisional.ID, org.ID)
	if m == nil || m.Status != domain.EnrollmentAccepted || m.Role != domain.RoleMember {
		t.Fatalf("membership = %+v", m)
	}

	_, err = f.acceptor().Execute(ctx, AcceptInviteInput{Token: res.Token})
	if domerrors.KindOf(err) != domerrors.KindUnauthorized {
		t.Fatalf("second accept: %v", err)
	}

	login := auth.NewLogin(f.store.Users(), apptest.Hasher{}, f.sessions)
	if _, err := login.Execute(ctx, auth.LoginInput{Email: "new@x.com", Password: "newpassword"}); err != nil {
		t.Fatalf("activated user cannot log in: %v", err)
	}
}

func TestInviteUser_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	org := f.org(t, "Org", owner)
	inviter := f.inviter(InviteModeToken)

	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "OWNER@x.com"}); !errors.Is(err, domerrors.ErrSelfInvite) {
		t.Errorf("self invite: %v", err)
	}
	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "bad"}); domerrors.KindOf(err) != domerrors.KindValidation {
		t.Errorf("bad email: %v", err)
	}
	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "pal@x.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "pal@x.com"}); !errors.Is(err, domerrors.ErrAlreadyMember) {
		t.Errorf("duplicate invite: %v", err)
	}
	missing := domain.NewOrganizationID(uuid.New())
	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: missing, InviterID: owner.ID, Email: "x@x.com"}); !errors.Is(err, domerrors.ErrOrganizationNotFound) {
		t.Errorf("unknown org: %v", err)
	}
}

func TestInviteUser_EnqueueFailureReleasesInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	org := f.org(t, "Org", owner)
	inviter := f.inviter(InviteModeToken)
	in := InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "new@x.com"}

	f.enqueuer.Err = errors.New("queue down")
	if _, err := inviter.Execute(ctx, in); err == nil {
		t.Fatal("expected the enqueue failure to surface")
	}
	live, err := f.tokens.InvitedEmails(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 0 {
		t.Fatalf("failed invite left live tokens for %v", live)
	}

	f.enqueuer.Err = nil
	res, err := inviter.Execute(ctx, in)
	if err != nil {
		t.Fatalf("retry after a failed enqueue: %v", err)
	}
	if _, err := f.acceptor().Execute(ctx, AcceptInviteInput{Token: res.Token, Password: "newpassword"}); err != nil {
		t.Fatalf("accept retried invite: %v", err)
	}
}

func TestInviteUser_ConcurrentInvitesOfNewEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	orgs := []*domain.Organization{f.org(t, "Alpha", owner), f.org(t, "Beta", owner)}
	inviter := f.inviter(InviteModeToken)

	var wg sync.WaitGroup
	errs := make([]error, len(orgs))
	for i, org := range orgs {
		wg.Add(1)
		go func(i int, org *domain.Organization) {
			defer wg.Done()
			_, errs[i] = inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "new@x.com"})
		}(i, org)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("invite to %s: %v", orgs[i].Name, err)
		}
	}
	if len(f.enqueuer.Invites) != 2 {
		t.Fatalf("invite emails = %d, want 2", len(f.enqueuer.Invites))
	}
}

func TestAcceptInvite_ExpiredAndInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	org := f.org(t, "Org", owner)
	res, err := f.inviter(InviteModeToken).Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "late@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	f.issuer.Expire(res.Token)

	if _, err := f.acceptor().Execute(ctx, AcceptInviteInput{Token: res.Token}); !errors.Is(err, domerrors.ErrInviteExpired) {
		t.Errorf("expired: %v", err)
	}
	if _, err := f.acceptor().Execute(ctx, AcceptInviteInput{Token: "forged"}); !errors.Is(err, domerrors.ErrInviteInvalid) {
		t.Errorf("invalid: %v", err)
	}
}

func TestAcceptInvite_StoreExpiryRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	org := f.org(t, "Org", owner)
	res, err := f.inviter(InviteModeToken).Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "slow@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	f.tokens.Advance(49 * time.Hour)
	if _, err := f.acceptor().Execute(ctx, AcceptInviteInput{Token: res.Token}); !errors.Is(err, domerrors.ErrTokenRevoked) {
		t.Fatalf("err = %v", err)
	}
}

func TestDirectInviteAndRespond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	bob := f.user(t, "bob@x.com")
	carol := f.user(t, "carol@x.com")
	org := f.org(t, "Org", owner)
	inviter := f.inviter(InviteModeDirect)

	if _, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "nobody@x.com"}); !errors.Is(err, domerrors.ErrUserNotFound) {
		t.Fatalf("unknown email in direct mode: %v", err)
	}
	rb, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "bob@x.com"})
	if err != nil {
		t.Fatal(err)
	}
	rc, err := inviter.Execute(ctx, InviteUserInput{OrganizationID: org.ID, InviterID: owner.ID, Email: "carol@x.com"})
	if err != nil {
		t.Fatal(err)
	}

	invs, err := NewListInvitations(f.store.Memberships()).Execute(ctx, bob.ID)
	if err != nil || len(invs) != 1 || invs[0].Organization.Name != "Org" {
		t.Fatalf("invitations = %+v, %v", invs, err)
	}

	respond := NewRespondToInvitation(f.store)
	if _, err := respond.Execute(ctx, RespondToInvitationInput{MembershipID: rb.Membership.ID, UserID: carol.ID, Accept: true}); !errors.Is(err, domerrors.ErrInvitationNotFound) {
		t.Fatalf("responding to someone else's invite: %v", err)
	}
	m, err := respond.Execute(ctx, RespondToInvitationInput{MembershipID: rb.Membership.ID, UserID: bob.ID, Accept: true})
	if err != nil || m.Status != domain.EnrollmentAccepted {
		t.Fatalf("accept = %+v, %v", m, err)
	}
	if _, err := respond.Execute(ctx, RespondToInvitationInput{MembershipID: rb.Membership.ID, UserID: bob.ID, Accept: false}); !errors.Is(err, domerrors.ErrInvitationNotFound) {
		t.Fatalf("responding twice: %v", err)
	}
	if _, err := respond.Execute(ctx, RespondToInvitationInput{MembershipID: rc.Membership.ID, UserID: carol.ID, Accept: false}); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.store.Memberships().Get(ctx, carol.ID, org.ID); got != nil {
		t.Fatal("rejected membership should be deleted")
	}
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@x.com")
	member := f.user(t, "member@x.com")
	stranger := f.user(t, "stranger@x.com")
	org := f.org(t, "Org", owner)
	if err := f.store.Memberships().Create(ctx, &domain.Membership{
		ID: uuid.New(), UserID: member.ID, OrganizationID: org.ID, Role: domain.RoleMember, Status: domain.EnrollmentAccepted,
	}); err != nil {
		t.Fatal(err)
	}
	authz := NewAuthorize(f.store.Memberships())

	tests := []struct {
		name  string
		user  domain.UserID
		roles []domain.Role
		want  error
	}{
		{"owner manages", owner.ID, ManagerRoles, nil},
		{"member reads", member.ID, nil, nil},
		{"member cannot manage", member.ID, ManagerRoles, domerrors.ErrInsufficientRole},
		{"stranger", stranger.ID, nil, domerrors.ErrNotMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authz.Execute(ctx, AuthorizeInput{OrganizationID: org.ID, UserID: tt.user, Roles: tt.roles})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
