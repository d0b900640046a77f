package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/task"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
)

// TasksHandler handles /organization/{orgId}/project/{projectId}/task.
type TasksHandler struct {
	create     *task.CreateTask
	get        *task.GetTask
	list       *task.ListTasks
	update     *task.UpdateTask
	transition *task.TransitionStatus
	delete     *task.DeleteTask
}

func NewTasksHandler(create *task.CreateTask, get *task.GetTask, list *task.ListTasks, update *task.UpdateTask, transition *task.TransitionStatus, del *task.DeleteTask) *TasksHandler {
	return &TasksHandler{create: create, get: get, list: list, update: update, transition: transition, delete: del}
}

type createTaskBody struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Status      string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	AssigneeID  string `json:"assigneeId" validate:"omitempty,uuid"`
	Order       int    `json:"order" validate:"gte=0"`
}

func (b createTaskBody) input() (task.CreateTaskInput, error) {
	in := task.CreateTaskInput{
		Title:       b.Title,
		Description: b.Description,
		Status:      domain.TaskStatus(b.Status),
		Order:       b.Order,
	}
	if b.AssigneeID != "" {
		id, err := uuid.Parse(b.AssigneeID)
		if err != nil {
			return in, domerrors.Validation([]domerrors.FieldIssue{{Field: "assigneeId", Message: "must be a valid UUID"}})
		}
		assignee := domain.NewUserID(id)
		in.AssigneeID = &assignee
	}
	return in, nil
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body createTaskBody
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	in, err := body.input()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	in.OrganizationID = orgID
	in.ProjectID = projectID
	t, err := h.create.Execute(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.RecordTaskCreated(1)
	writeJSON(w, http.StatusCreated, t)
}

// List pages through a project's tasks, optionally filtered by ?status=.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, projectID, err := projectParams(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	result, err := h.list.Execute(r.Context(), task.ListTasksInput{
		OrganizationID: orgID,
		ProjectID:      projectID,
		Page:           page,
		Status:         r.URL.Query().Get("status"),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.get.Execute(r.Context(), ref)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// nullableUUID tells an absent field from an explicit null.
type nullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *nullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// Update patches title, description, assignee (null unassigns) and order.
// A status goes through the workflow like Transition.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Title       *string      `json:"title" validate:"omitempty,max=255"`
		Description *string      `json:"description" validate:"omitempty,max=5000"`
		AssigneeID  nullableUUID `json:"assigneeId"`
		Order       *int         `json:"order" validate:"omitempty,gte=0"`
		Status      *string      `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	in := task.UpdateTaskInput{
		Ref:         ref,
		Title:       body.Title,
		Description: body.Description,
		Order:       body.Order,
	}
	if body.AssigneeID.Set {
		if body.AssigneeID.Value == nil {
			in.ClearAssignee = true
		} else {
			assignee := domain.NewUserID(*body.AssigneeID.Value)
			in.AssigneeID = &assignee
		}
	}
	if body.Status != nil {
		st := domain.TaskStatus(*body.Status)
		in.Status = &st
	}
	t, err := h.update.Execute(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Transition moves the task along the status workflow.
func (h *TasksHandler) Transition(w http.ResponseWriter, r *http.Request) {
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required,oneof=TODO IN_PROGRESS REVIEW DONE"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.transition.Execute(r.Context(), task.TransitionStatusInput{Ref: ref, Status: domain.TaskStatus(body.Status)})
	if err != nil {
		middleware.RecordTransition(body.Status, false)
		writeErr(w, r, err)
		return
	}
	middleware.RecordTransition(body.Status, true)
	writeJSON(w, http.StatusOK, t)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.delete.Execute(r.Context(), ref); err != nil {
		writeErr(w, r, err)
		return
	}
	writeNoContent(w)
}
