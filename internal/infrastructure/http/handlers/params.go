package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/requestctx"
	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// uuidParam parses a chi URL parameter. A malformed id cannot name an
// existing row, so it fails with notFound.
func uuidParam(r *http.Request, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func orgIDParam(r *http.Request) (domain.OrganizationID, error) {
	id, err := uuidParam(r, "orgId", domerrors.ErrOrganizationNotFound)
	return domain.NewOrganizationID(id), err
}

func projectParams(r *http.Request) (domain.OrganizationID, domain.ProjectID, error) {
	orgID, err := orgIDParam(r)
	if err != nil {
		return orgID, domain.ProjectID{}, err
	}
	id, err := uuidParam(r, "projectId", domerrors.ErrProjectNotFound)
	return orgID, domain.NewProjectID(id), err
}

func taskRef(r *http.Request) (task.Ref, error) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		return task.Ref{}, err
	}
	id, err := uuidParam(r, "taskId", domerrors.ErrTaskNotFound)
	if err != nil {
		return task.Ref{}, err
	}
	return task.Ref{OrganizationID: orgID, ProjectID: projectID, TaskID: domain.NewTaskID(id)}, nil
}

func actorID(r *http.Request) (domain.UserID, error) {
	id, ok := requestctx.UserID(r.Context())
	if !ok {
		return domain.UserID{}, domerrors.ErrMissingActor
	}
	return domain.NewUserID(id), nil
}

type pageQuery struct {
	Page  int `json:"page" validate:"gte=1"`
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}

// pageParam reads ?page=&limit=, defaulting to page 1 of 10.
func pageParam(r *http.Request) (domain.Page, error) {
	q := pageQuery{Page: 1, Limit: domain.DefaultPageLimit}
	var issues []domerrors.FieldIssue
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		name, dst := p.name, p.dst
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, domerrors.FieldIssue{Field: name, Message: "must be an integer"})
			continue
		}
		*dst = n
	}
	if len(issues) > 0 {
		return domain.Page{}, domerrors.Validation(issues)
	}
	if err := validateStruct(&q); err != nil {
		return domain.Page{}, err
	}
	return domain.Page{Page: q.Page, Limit: q.Limit}, nil
}
