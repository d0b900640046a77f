package handlers

import (
	"net/http"

	"github.com/kolevkaloyan/jira-clone/internal/application/comment"
	"github.com/kolevkaloyan/jira-clone/internal/application/tag"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// CommentsHandler handles .../task/{taskId}/comment.
type CommentsHandler struct {
	add    *comment.AddComment
	list   *comment.ListComments
	delete *comment.DeleteComment
}

func NewCommentsHandler(add *comment.AddComment, list *comment.ListComments, del *comment.DeleteComment) *CommentsHandler {
	return &CommentsHandler{add: add, list: list, delete: del}
}

func (h *CommentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Content string `json:"content" validate:"required,max=2000"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	c, err := h.add.Execute(r.Context(), comment.AddCommentInput{Ref: ref, AuthorID: userID, Content: body.Content})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List returns the task's comments newest first with author names.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	comments, err := h.list.Execute(r.Context(), ref)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if comments == nil {
		comments = []*domain.CommentWithAuthor{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Delete removes a comment; only its author may.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	commentID, err := uuidParam(r, "commentId", domerrors.ErrCommentNotFound)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.delete.Execute(r.Context(), comment.DeleteCommentInput{Ref: ref, CommentID: commentID, UserID: userID}); err != nil {
		writeErr(w, r, err)
		return
	}
	writeNoContent(w)
}

// TagsHandler handles /organization/{orgId}/tag and task tag links.
type TagsHandler struct {
	create *tag.CreateTag
	list   *tag.ListTags
	attach *tag.AttachTag
	detach *tag.DetachTag
}

func NewTagsHandler(create *tag.CreateTag, list *tag.ListTags, attach *tag.AttachTag, detach *tag.DetachTag) *TagsHandler {
	return &TagsHandler{create: create, list: list, attach: attach, detach: detach}
}

func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body struct {
		Name  string `json:"name" validate:"required,max=20"`
		Color string `json:"color" validate:"max=20"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.create.Execute(r.Context(), tag.CreateTagInput{OrganizationID: orgID, Name: body.Name, Color: body.Color})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	tags, err := h.list.Execute(r.Context(), orgID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TagsHandler) taskTag(r *http.Request) (tag.TaskTagInput, error) {
	ref, err := taskRef(r)
	if err != nil {
		return tag.TaskTagInput{}, err
	}
	tagID, err := uuidParam(r, "tagId", domerrors.ErrTagNotFound)
	if err != nil {
		return tag.TaskTagInput{}, err
	}
	return tag.TaskTagInput{Ref: ref, TagID: tagID}, nil
}

// Attach links the tag and returns the task with its tags.
func (h *TagsHandler) Attach(w http.ResponseWriter, r *http.Request) {
	in, err := h.taskTag(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.attach.Execute(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TagsHandler) Detach(w http.ResponseWriter, r *http.Request) {
	in, err := h.taskTag(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.detach.Execute(r.Context(), in); err != nil {
		writeErr(w, r, err)
		return
	}
	writeNoContent(w)
}
