package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kolevkaloyan/jira-clone/internal/application/apptest"
	"github.com/kolevkaloyan/jira-clone/internal/application/audit"
	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
	"github.com/kolevkaloyan/jira-clone/internal/application/comment"
	"github.com/kolevkaloyan/jira-clone/internal/application/organization"
	"github.com/kolevkaloyan/jira-clone/internal/application/project"
	"github.com/kolevkaloyan/jira-clone/internal/application/tag"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/handlers"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/persistence/memory"
)

type testEnv struct {
	t        *testing.T
	store    *memory.Store
	tokens   *memory.TokenStore
	issuer   *apptest.Issuer
	enqueuer *apptest.Enqueuer
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	tokens := memory.NewTokenStore()
	issuer := apptest.NewIssuer()
	enqueuer := &apptest.Enqueuer{}
	hasher := apptest.Hasher{}

	sessions := auth.NewSessionIssuer(issuer, tokens)
	createTask := task.NewCreateTask(store)
	deleteTask := task.NewDeleteTask(store)

	authHandler := handlers.NewAuthHandler(
		auth.NewSignup(store.Users(), hasher, sessions),
		auth.NewLogin(store.Users(), hasher, sessions),
		auth.NewRefresh(store.Users(), issuer, tokens, sessions),
		auth.NewLogout(tokens),
		handlers.CookieConfig{Secure: true, MaxAge: issuer.RefreshTTL()},
	)
	router := NewRouter(RouterConfig{
		AuthHandler:  authHandler,
		UsersHandler: handlers.NewUsersHandler(auth.NewGetMe(store.Users()), auth.NewUpdateMe(store.Users())),
		OrganizationsHandler: handlers.NewOrganizationsHandler(
			organization.NewCreateOrganization(store),
			organization.NewListOrganizations(store.Organizations()),
			organization.NewInviteUser(store, hasher, issuer, tokens, enqueuer, organization.InviteModeToken),
			organization.NewAcceptInvite(store, hasher, issuer, tokens, sessions),
			organization.NewListInvitations(store.Memberships()),
			organization.NewRespondToInvitation(store),
			authHandler,
		),
		ProjectsHandler: handlers.NewProjectsHandler(
			project.NewCreateProject(store, createTask),
			project.NewGetProject(store),
			project.NewListProjects(store.Projects()),
			project.NewUpdateProject(store),
			project.NewDeleteProject(store, deleteTask),
		),
		TasksHandler: handlers.NewTasksHandler(
			createTask,
			task.NewGetTask(store),
			task.NewListTasks(store),
			task.NewUpdateTask(store),
			task.NewTransitionStatus(store),
			deleteTask,
		),
		CommentsHandler: handlers.NewCommentsHandler(
			comment.NewAddComment(store),
			comment.NewListComments(store),
			comment.NewDeleteComment(store),
		),
		TagsHandler: handlers.NewTagsHandler(
			tag.NewCreateTag(store),
			tag.NewListTags(store.Tags()),
			tag.NewAttachTag(store),
			tag.NewDetachTag(store),
		),
		AuditLogHandler: handlers.NewAuditLogHandler(audit.NewListAuditLogs(store.AuditLogs())),
		RequireJWT:      middleware.NewAuthValidator(issuer).Handler,
		Membership:      middleware.NewMembership(organization.NewAuthorize(store.Memberships())),
		Log:             zerolog.Nop(),
	})
	return &testEnv{t: t, store: store, tokens: tokens, issuer: issuer, enqueuer: enqueuer, router: router}
}

func (e *testEnv) token(u *domain.User) string {
	tok, _ := e.issuer.IssueAccessToken(u.ID.String())
	return tok
}

type request struct {
	method  string
	path    string
	token   string
	body    interface{}
	cookies []*http.Cookie
}

func (e *testEnv) do(req request) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	if req.body != nil {
		if err := json.NewEncoder(&body).Encode(req.body); err != nil {
			e.t.Fatal(err)
		}
	}
	r := httptest.NewRequest(req.method, BasePath+req.path, &body)
	if req.body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, data interface{}) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	var env envelope
	if rec.Body.Len() == 0 {
		return env
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == handlers.RefreshCookieName {
			return c
		}
	}
	t.Fatal("no refresh cookie set")
	return nil
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(request{method: http.MethodPost, path: "/auth/signup", body: map[string]string{
		"email": "Ada@Example.com", "password": "correct-horse", "fullName": "Ada Lovelace",
	}})
	var session struct {
		AccessToken string      `json:"accessToken"`
		User        domain.User `json:"user"`
	}
	expect(t, rec, http.StatusCreated, &session)
	if session.AccessToken == "" || session.User.Email != "ada@example.com" {
		t.Fatalf("session = %+v", session)
	}
	cookie := refreshCookie(t, rec)
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie flags = %+v", cookie)
	}
	if strings.Contains(rec.Body.String(), cookie.Value) {
		t.Error("refresh token leaked into body")
	}

	rec = e.do(request{method: http.MethodPost, path: "/auth/signup", body: map[string]string{
		"email": "ada@example.com", "password": "another-pass", "fullName": "Ada",
	}})
	expect(t, rec, http.StatusConflict, nil)

	rec = e.do(request{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}})
	if env := expect(t, rec, http.StatusUnauthorized, nil); env.Message != "invalid email or password" {
		t.Errorf("message = %q", env.Message)
	}

	rec = e.do(request{method: http.MethodPost, path: "/auth/refreshTokens", cookies: []*http.Cookie{cookie}})
	expect(t, rec, http.StatusOK, &session)
	rotated := refreshCookie(t, rec)
	if rotated.Value == cookie.Value {
		t.Fatal("refresh token not rotated")
	}

	rec = e.do(request{method: http.MethodPost, path: "/auth/refreshTokens", cookies: []*http.Cookie{cookie}})
	expect(t, rec, http.StatusUnauthorized, nil)

	rec = e.do(request{method: http.MethodPost, path: "/auth/logout", token: session.AccessToken, cookies: []*http.Cookie{rotated}})
	expect(t, rec, http.StatusNoContent, nil)
	if c := refreshCookie(t, rec); c.MaxAge >= 0 {
		t.Errorf("logout cookie MaxAge = %d", c.MaxAge)
	}
	rec = e.do(request{method: http.MethodPost, path: "/auth/refreshTokens", cookies: []*http.Cookie{rotated}})
	expect(t, rec, http.StatusUnauthorized, nil)
}

func TestValidationReportsEveryField(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(request{method: http.MethodPost, path: "/auth/signup", body: map[string]string{"password": "short"}})
	env := expect(t, rec, http.StatusBadRequest, nil)
	if env.Status != "error" || env.Code != "validation_error" {
		t.Fatalf("envelope = %+v", env)
	}
	fields := map[string]bool{}
	for _, f := range env.Errors {
		fields[f.Field] = true
	}
	for _, want := range []string{"email", "password", "fullName"} {
		if !fields[want] {
			t.Errorf("missing issue for %q in %+v", want, env.Errors)
		}
	}

	rec = e.do(request{method: http.MethodPost, path: "/auth/login"})
	expect(t, rec, http.StatusBadRequest, nil)
}

func TestUsersMe(t *testing.T) {
	e := newTestEnv(t)
	u := apptest.SeedUser(t, e.store, "grace@example.com")

	expect(t, e.do(request{method: http.MethodGet, path: "/users/me"}), http.StatusUnauthorized, nil)

	var got domain.User
	expect(t, e.do(request{method: http.MethodPatch, path: "/users/me", token: e.token(u), body: map[string]string{"fullName": "Grace Hopper"}}), http.StatusOK, &got)
	expect(t, e.do(request{method: http.MethodGet, path: "/users/me", token: e.token(u)}), http.StatusOK, &got)
	if got.FullName != "Grace Hopper" {
		t.Errorf("fullName = %q", got.FullName)
	}
	if strings.Contains(e.do(request{method: http.MethodGet, path: "/users/me", token: e.token(u)}).Body.String(), "hashed:") {
		t.Error("password hash exposed")
	}
}

func addMember(t *testing.T, e *testEnv, org *domain.Organization, u *domain.User, role domain.Role) {
	t.Helper()
	if err := e.store.Memberships().Create(context.Background(), &domain.Membership{
		ID: uuid.New(), UserID: u.ID, OrganizationID: org.ID,
		Role: role, Status: domain.EnrollmentAccepted, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}
}

func TestProjectAndTaskLifecycle(t *testing.T) {
	e := newTestEnv(t)
	owner := apptest.SeedUser(t, e.store, "owner@example.com")
	member := apptest.SeedUser(t, e.store, "member@example.com")
	outsider := apptest.SeedUser(t, e.store, "outsider@example.com")
	org := apptest.SeedOrg(t, e.store, "acme", owner)
	addMember(t, e, org, member, domain.RoleMember)
	base := "/organization/" + org.ID.String() + "/project"

	expect(t, e.do(request{method: http.MethodPost, path: base, token: e.token(member), body: map[string]string{"name": "Backend", "key": "be"}}), http.StatusForbidden, nil)

	var created struct {
		domain.Project
		Tasks []domain.Task `json:"tasks"`
	}
	expect(t, e.do(request{method: http.MethodPost, path: base, token: e.token(owner), body: map[string]interface{}{
		"name": "Backend", "key": " be ",
		"initialTasks": []map[string]string{{"title": "Set up CI"}},
	}}), http.StatusCreated, &created)
	if created.Key != "BE" || len(created.Tasks) != 1 || created.Tasks[0].Key != "BE-1" {
		t.Fatalf("created = %+v", created)
	}

	expect(t, e.do(request{method: http.MethodPost, path: base, token: e.token(owner), body: map[string]string{"name": "Other", "key": "BE"}}), http.StatusConflict, nil)

	tasks := base + "/" + created.ID.String() + "/task"
	expect(t, e.do(request{method: http.MethodGet, path: tasks, token: e.token(outsider)}), http.StatusForbidden, nil)

	var tk domain.Task
	expect(t, e.do(request{method: http.MethodPost, path: tasks, token: e.token(member), body: map[string]string{"title": "Write API"}}), http.StatusCreated, &tk)
	if tk.Key != "BE-2" || tk.Status != domain.StatusTodo {
		t.Fatalf("task = %+v", tk)
	}

	expect(t, e.do(request{method: http.MethodPost, path: tasks, token: e.token(member), body: map[string]string{"title": "Born done", "status": "DONE"}}), http.StatusBadRequest, nil)

	taskPath := tasks + "/" + tk.ID.String()
	env := expect(t, e.do(request{method: http.MethodPatch, path: taskPath + "/transition", token: e.token(member), body: map[string]string{"status": "DONE"}}), http.StatusBadRequest, nil)
	if env.Code != "invalid_transition" || !strings.Contains(env.Message, "TODO") || !strings.Contains(env.Message, "DONE") {
		t.Fatalf("envelope = %+v", env)
	}
	expect(t, e.do(request{method: http.MethodPatch, path: taskPath + "/transition", token: e.token(member), body: map[string]string{"status": "IN_PROGRESS"}}), http.StatusOK, &tk)
	if tk.Status != domain.StatusInProgress {
		t.Fatalf("status = %s", tk.Status)
	}

	expect(t, e.do(request{method: http.MethodPatch, path: taskPath, token: e.token(member), body: map[string]interface{}{"assigneeId": member.ID.String(), "order": 3}}), http.StatusOK, &tk)
	if tk.AssigneeID == nil || *tk.AssigneeID != member.ID || tk.Order != 3 {
		t.Fatalf("task = %+v", tk)
	}
	expect(t, e.do(request{method: http.MethodPatch, path: taskPath, token: e.token(member), body: map[string]interface{}{"assigneeId": nil}}), http.StatusOK, &tk)
	if tk.AssigneeID != nil {
		t.Fatal("assignee not cleared")
	}

	var page domain.PageResult[domain.Task]
	expect(t, e.do(request{method: http.MethodGet, path: tasks + "?status=IN_PROGRESS&limit=5", token: e.token(member)}), http.StatusOK, &page)
	if page.Pagination.Total != 1 || page.Pagination.Limit != 5 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	expect(t, e.do(request{method: http.MethodGet, path: tasks + "?limit=500", token: e.token(member)}), http.StatusBadRequest, nil)
	expect(t, e.do(request{method: http.MethodGet, path: tasks + "?status=BLOCKED", token: e.token(member)}), http.StatusBadRequest, nil)

	expect(t, e.do(request{method: http.MethodDelete, path: taskPath, token: e.token(member)}), http.StatusNoContent, nil)
	expect(t, e.do(request{method: http.MethodGet, path: taskPath, token: e.token(member)}), http.StatusNotFound, nil)
	expect(t, e.do(request{method: http.MethodGet, path: tasks + "/not-a-uuid", token: e.token(member)}), http.StatusNotFound, nil)

	var p domain.Project
	expect(t, e.do(request{method: http.MethodPatch, path: base + "/" + created.ID.String(), token: e.token(owner), body: map[string]string{"description": "services"}}), http.StatusOK, &p)
	if p.Description != "services" || p.Key != "BE" {
		t.Fatalf("project = %+v", p)
	}
	expect(t, e.do(request{method: http.MethodDelete, path: base + "/" + created.ID.String(), token: e.token(owner)}), http.StatusNoContent, nil)
	expect(t, e.do(request{method: http.MethodGet, path: base + "/" + created.ID.String(), token: e.token(owner)}), http.StatusNotFound, nil)
}

func TestCommentsAndTags(t *testing.T) {
	e := newTestEnv(t)
	owner := apptest.SeedUser(t, e.store, "owner@example.com")
	member := apptest.SeedUser(t, e.store, "member@example.com")
	org := apptest.SeedOrg(t, e.store, "acme", owner)
	addMember(t, e, org, member, domain.RoleMember)
	p := apptest.SeedProject(t, e.store, org, "WEB")
	orgPath := "/organization/" + org.ID.String()
	tasks := orgPath + "/project/" + p.ID.String() + "/task"

	var tk domain.Task
	expect(t, e.do(request{method: http.MethodPost, path: tasks, token: e.token(owner), body: map[string]string{"title": "Landing page"}}), http.StatusCreated, &tk)
	taskPath := tasks + "/" + tk.ID.String()

	var c domain.Comment
	expect(t, e.do(request{method: http.MethodPost, path: taskPath + "/comment", token: e.token(owner), body: map[string]string{"content": "first draft is up"}}), http.StatusCreated, &c)
	var comments []domain.CommentWithAuthor
	expect(t, e.do(request{method: http.MethodGet, path: taskPath + "/comment", token: e.token(member)}), http.StatusOK, &comments)
	if len(comments) != 1 || comments[0].AuthorName != "owner@example.com" {
		t.Fatalf("comments = %+v", comments)
	}
	expect(t, e.do(request{method: http.MethodDelete, path: taskPath + "/comment/" + c.ID.String(), token: e.token(member)}), http.StatusForbidden, nil)
	expect(t, e.do(request{method: http.MethodDelete, path: taskPath + "/comment/" + c.ID.String(), token: e.token(owner)}), http.StatusNoContent, nil)

	var tg domain.Tag
	expect(t, e.do(request{method: http.MethodPost, path: orgPath + "/tag", token: e.token(member), body: map[string]string{"name": "bug"}}), http.StatusCreated, &tg)
	if tg.Color != domain.DefaultTagColor {
		t.Errorf("color = %q", tg.Color)
	}
	expect(t, e.do(request{method: http.MethodPost, path: orgPath + "/tag", token: e.token(member), body: map[string]string{"name": "bug"}}), http.StatusConflict, nil)

	expect(t, e.do(request{method: http.MethodPost, path: taskPath + "/tag/" + tg.ID.String(), token: e.token(member)}), http.StatusOK, &tk)
	expect(t, e.do(request{method: http.MethodPost, path: taskPath + "/tag/" + tg.ID.String(), token: e.token(member)}), http.StatusOK, &tk)
	if len(tk.Tags) != 1 || tk.Tags[0].Name != "bug" {
		t.Fatalf("tags = %+v", tk.Tags)
	}
	expect(t, e.do(request{method: http.MethodDelete, path: taskPath + "/tag/" + tg.ID.String(), token: e.token(member)}), http.StatusNoContent, nil)
	var detached map[string]any
	expect(t, e.do(request{method: http.MethodGet, path: taskPath, token: e.token(member)}), http.StatusOK, &detached)
	tags, ok := detached["tags"].([]any)
	if !ok || len(tags) != 0 {
		t.Fatalf("tags after detach = %#v, want empty list", detached["tags"])
	}

	var listed struct {
		Items []map[string]any `json:"items"`
	}
	expect(t, e.do(request{method: http.MethodGet, path: tasks, token: e.token(member)}), http.StatusOK, &listed)
	if len(listed.Items) != 1 {
		t.Fatalf("items = %+v", listed.Items)
	}
	if _, ok := listed.Items[0]["tags"].([]any); !ok {
		t.Fatalf("list item tags = %#v, want a list", listed.Items[0]["tags"])
	}
}

func TestInviteAndAccept(t *testing.T) {
	e := newTestEnv(t)
	owner := apptest.SeedUser(t, e.store, "owner@example.com")
	member := apptest.SeedUser(t, e.store, "member@example.com")
	org := apptest.SeedOrg(t, e.store, "acme", owner)
	addMember(t, e, org, member, domain.RoleMember)
	invitePath := "/organization/" + org.ID.String() + "/invite"

	expect(t, e.do(request{method: http.MethodPost, path: invitePath, token: e.token(member), body: map[string]string{"email": "new@example.com"}}), http.StatusForbidden, nil)
	expect(t, e.do(request{method: http.MethodPost, path: invitePath, token: e.token(owner), body: map[string]string{"email": "owner@example.com"}}), http.StatusBadRequest, nil)

	var invite struct {
		Token string `json:"token"`
	}
	expect(t, e.do(request{method: http.MethodPost, path: invitePath, token: e.token(owner), body: map[string]string{"email": "New@Example.com"}}), http.StatusCreated, &invite)
	if invite.Token == "" || len(e.enqueuer.Invites) != 1 {
		t.Fatalf("token=%q invites=%+v", invite.Token, e.enqueuer.Invites)
	}
	expect(t, e.do(request{method: http.MethodPost, path: invitePath, token: e.token(owner), body: map[string]string{"email": "new@example.com"}}), http.StatusConflict, nil)

	acceptPath := "/organization/accept-invite/" + invite.Token
	var accepted struct {
		AccessToken string            `json:"accessToken"`
		User        domain.User       `json:"user"`
		Membership  domain.Membership `json:"membership"`
	}
	rec := e.do(request{method: http.MethodPost, path: acceptPath, body: map[string]string{"password": "brand-new-pass", "fullName": "New Person"}})
	expect(t, rec, http.StatusOK, &accepted)
	refreshCookie(t, rec)
	if !accepted.User.IsActive || accepted.Membership.Role != domain.RoleMember || accepted.Membership.Status != domain.EnrollmentAccepted {
		t.Fatalf("accepted = %+v", accepted)
	}
	expect(t, e.do(request{method: http.MethodPost, path: acceptPath}), http.StatusUnauthorized, nil)

	var orgs []domain.Organization
	expect(t, e.do(request{method: http.MethodGet, path: "/organization", token: accepted.AccessToken}), http.StatusOK, &orgs)
	if len(orgs) != 1 || orgs[0].ID != org.ID {
		t.Fatalf("orgs = %+v", orgs)
	}

	expect(t, e.do(request{method: http.MethodPost, path: "/auth/login", body: map[string]string{"email": "new@example.com", "password": "brand-new-pass"}}), http.StatusOK, nil)
}

func TestOrganizationsAndAuditLog(t *testing.T) {
	e := newTestEnv(t)
	u := apptest.SeedUser(t, e.store, "founder@example.com")

	var org domain.Organization
	expect(t, e.do(request{method: http.MethodPost, path: "/organization", token: e.token(u), body: map[string]string{"name": "Initech"}}), http.StatusCreated, &org)
	expect(t, e.do(request{method: http.MethodPost, path: "/organization", token: e.token(u), body: map[string]string{"name": "Initech"}}), http.StatusConflict, nil)

	var invitations []domain.Invitation
	expect(t, e.do(request{method: http.MethodGet, path: "/organization/invitations", token: e.token(u)}), http.StatusOK, &invitations)
	if len(invitations) != 0 {
		t.Fatalf("invitations = %+v", invitations)
	}

	var logs domain.PageResult[domain.AuditLog]
	expect(t, e.do(request{method: http.MethodGet, path: "/audit-log?entityName=Organization&entityId=" + org.ID.String(), token: e.token(u)}), http.StatusOK, &logs)
	if logs.Pagination.Total != 1 || logs.Items[0].Action != domain.AuditInsert {
		t.Fatalf("logs = %+v", logs)
	}
	if logs.Items[0].UserID == nil || *logs.Items[0].UserID != u.ID.UUID {
		t.Errorf("audit actor = %v, want %s", logs.Items[0].UserID, u.ID)
	}
	expect(t, e.do(request{method: http.MethodGet, path: "/audit-log?action=TRUNCATE", token: e.token(u)}), http.StatusBadRequest, nil)
	expect(t, e.do(request{method: http.MethodGet, path: "/audit-log?userId=nope", token: e.token(u)}), http.StatusBadRequest, nil)
	expect(t, e.do(request{method: http.MethodGet, path: "/audit-log"}), http.StatusUnauthorized, nil)
}

func TestRespondToInvitation(t *testing.T) {
	e := newTestEnv(t)
	owner := apptest.SeedUser(t, e.store, "owner@example.com")
	invitee := apptest.SeedUser(t, e.store, "invitee@example.com")
	org := apptest.SeedOrg(t, e.store, "acme", owner)
	pending := &domain.Membership{
		ID: uuid.New(), UserID: invitee.ID, OrganizationID: org.ID,
		Role: domain.RoleMember, Status: domain.EnrollmentPending, CreatedAt: time.Now().UTC(),
	}
	if err := e.store.Memberships().Create(context.Background(), pending); err != nil {
		t.Fatal(err)
	}
	path := "/organization/invitations/" + pending.ID.String()

	expect(t, e.do(request{method: http.MethodPatch, path: path, token: e.token(owner), body: map[string]string{"status": "ACCEPTED"}}), http.StatusNotFound, nil)
	expect(t, e.do(request{method: http.MethodPatch, path: path, token: e.token(invitee), body: map[string]string{"status": "MAYBE"}}), http.StatusBadRequest, nil)

	var m domain.Membership
	expect(t, e.do(request{method: http.MethodPatch, path: path, token: e.token(invitee), body: map[string]string{"status": "ACCEPTED"}}), http.StatusOK, &m)
	if m.Status != domain.EnrollmentAccepted {
		t.Fatalf("membership = %+v", m)
	}
	expect(t, e.do(request{method: http.MethodGet, path: "/organization/" + org.ID.String() + "/tag", token: e.token(invitee)}), http.StatusOK, nil)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	e := newTestEnv(t)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	env := expect(t, e.do(request{method: http.MethodGet, path: "/nowhere"}), http.StatusNotFound, nil)
	if env.Status != "error" {
		t.Errorf("envelope = %+v", env)
	}
}
