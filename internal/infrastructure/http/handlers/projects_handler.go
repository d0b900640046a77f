package handlers

import (
	"net/http"

	"github.com/kolevkaloyan/jira-clone/internal/application/project"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
)

// ProjectsHandler handles /organization/{orgId}/project.
type ProjectsHandler struct {
	create *project.CreateProject
	get    *project.GetProject
	list   *project.ListProjects
	update *project.UpdateProject
	delete *project.DeleteProject
}

func NewProjectsHandler(create *project.CreateProject, get *project.GetProject, list *project.ListProjects, update *project.UpdateProject, del *project.DeleteProject) *ProjectsHandler {
	return &ProjectsHandler{create: create, get: get, list: list, update: update, delete: del}
}

type createProjectBody struct {
	Name         string           `json:"name" validate:"required,max=50"`
	Key          string           `json:"key" validate:"required,max=10"`
	Description  string           `json:"description" validate:"max=255"`
	InitialTasks []createTaskBody `json:"initialTasks" validate:"max=50,dive"`
}

// projectWithTasks is the created project with its initial tasks inlined.
type projectWithTasks struct {
	*domain.Project
	Tasks []*domain.Task `json:"tasks"`
}

// Create creates a project, optionally with initial tasks in the same
// transaction.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body createProjectBody
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	in := project.CreateProjectInput{
		OrganizationID: orgID,
		Name:           body.Name,
		Key:            body.Key,
		Description:    body.Description,
	}
	for _, t := range body.InitialTasks {
		tin, err := t.input()
		if err != nil {
			writeErr(w, r, err)
			return
		}
		in.InitialTasks = append(in.InitialTasks, tin)
	}
	result, err := h.create.Execute(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.RecordTaskCreated(len(result.Tasks))
	writeJSON(w, http.StatusCreated, projectWithTasks{Project: result.Project, Tasks: result.Tasks})
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	result, err := h.list.Execute(r.Context(), orgID, page)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := h.get.Execute(r.Context(), orgID, projectID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update changes name and/or description. The key is immutable.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,max=50"`
		Description *string `json:"description" validate:"omitempty,max=255"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := h.update.Execute(r.Context(), project.UpdateProjectInput{
		OrganizationID: orgID,
		ProjectID:      projectID,
		Name:           body.Name,
		Description:    body.Description,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes the project with its tasks, comments and tag links.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.delete.Execute(r.Context(), orgID, projectID); err != nil {
		writeErr(w, r, err)
		return
	}
	writeNoContent(w)
}
