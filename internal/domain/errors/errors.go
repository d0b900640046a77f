package errors

import (
	"errors"
	"strings"
)

// Kind is the error category handlers map to an HTTP status.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindTooManyRequests   Kind = "too_many_requests"
	KindInternal          Kind = "internal"
)

// FieldIssue is one failing input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a categorized domain error. Sentinels below are *Error values;
// wrap them with fmt.Errorf("%w: ...") to add context.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldIssue
}

func (e *Error) Error() string { return e.Message }

// New returns a new categorized error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation aggregates every failing field into one error.
func Validation(fields []FieldIssue) *Error {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return &Error{Kind: KindValidation, Message: "validation failed: " + strings.Join(msgs, "; "), Fields: fields}
}

// KindOf returns the category of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// FieldsOf returns per-field issues for validation errors.
func FieldsOf(err error) []FieldIssue {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrInvalidInput       = New(KindValidation, "invalid input")
	ErrUserExists         = New(KindConflict, "user already exists")
	ErrInvalidCredentials = New(KindUnauthorized, "invalid email or password")
	ErrUserNotFound       = New(KindNotFound, "user not found")
	ErrInvalidToken       = New(KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked       = New(KindUnauthorized, "token already used or revoked")
	ErrInviteExpired      = New(KindUnauthorized, "invite token expired")
	ErrInviteInvalid      = New(KindUnauthorized, "invite token invalid")
	ErrMissingActor       = New(KindUnauthorized, "you are not logged in")
	ErrAccountLocked      = New(KindTooManyRequests, "too many failed logins, try again later")

	ErrOrganizationExists   = New(KindConflict, "organization already exists")
	ErrOrganizationNotFound = New(KindNotFound, "organization not found")
	ErrNotMember            = New(KindForbidden, "you do not have access to this organization")
	ErrInsufficientRole     = New(KindForbidden, "your role does not allow this action")
	ErrAlreadyMember        = New(KindConflict, "user is already a member or has a pending invite")
	ErrSelfInvite           = New(KindValidation, "you cannot invite yourself")
	ErrInvitationNotFound   = New(KindNotFound, "invitation not found")

	ErrProjectNotFound   = New(KindNotFound, "project not found")
	ErrProjectKeyInUse   = New(KindConflict, "project key is already in use in this organization")
	ErrInvalidProjectKey = New(KindValidation, "project key must be 2-10 uppercase letters or digits")

	ErrTaskNotFound      = New(KindNotFound, "task not found")
	ErrTaskExists        = New(KindConflict, "task key already exists in this project")
	ErrInvalidTransition = New(KindInvalidTransition, "invalid status transition")
	ErrInvalidStatus     = New(KindValidation, "unknown task status")

	ErrCommentNotFound  = New(KindNotFound, "comment not found")
	ErrNotCommentAuthor = New(KindForbidden, "you can only delete your own comments")

	ErrTagNotFound      = New(KindNotFound, "tag not found")
	ErrTagExists        = New(KindConflict, "tag already exists in this organization")
	ErrTagOrgMismatch   = New(KindValidation, "tag does not belong to this organization")
	ErrDuplicateValue   = New(KindConflict, "duplicate field value entered")
	ErrReferenceMissing = New(KindNotFound, "referenced entity does not exist")
)
