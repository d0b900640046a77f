// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// API error codes returned in the "code" field for stable client handling.
const (
	ErrCodeValidation        = "validation_error"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeNotFound          = "not_found"
	ErrCodeConflict          = "conflict"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeRateLimited       = "rate_limited"
	ErrCodeInternal          = "internal_error"
)

type success struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type failure struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Errors  []domerrors.FieldIssue `json:"errors,omitempty"`
}

// JSON writes {"status":"success","data":...}.
func JSON(w http.ResponseWriter, code int, data interface{}) {
	write(w, code, success{Status: "success", Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err onto its HTTP status and writes the failure envelope.
// Internal errors are logged with the request's logger and never exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := domerrors.KindOf(err)
	status := StatusOf(kind)
	log := zerolog.Ctx(r.Context())
	if kind == domerrors.KindInternal {
		log.Error().Err(err).Msg("request failed")
		Fail(w, status, ErrCodeInternal, "internal server error")
		return
	}
	log.Debug().Err(err).Str("kind", string(kind)).Msg("request rejected")
	write(w, status, failure{
		Status:  statusWord(status),
		Code:    codeOf(kind),
		Message: err.Error(),
		Errors:  domerrors.FieldsOf(err),
	})
}

// Fail writes a failure envelope with an explicit status and code.
func Fail(w http.ResponseWriter, status int, code, message string) {
	write(w, status, failure{Status: statusWord(status), Code: code, Message: message})
}

// StatusOf returns the HTTP status of an error category.
func StatusOf(kind domerrors.Kind) int {
	switch kind {
	case domerrors.KindValidation, domerrors.KindInvalidTransition:
		return http.StatusBadRequest
	case domerrors.KindUnauthorized:
		return http.StatusUnauthorized
	case domerrors.KindForbidden:
		return http.StatusForbidden
	case domerrors.KindNotFound:
		return http.StatusNotFound
	case domerrors.KindConflict:
		return http.StatusConflict
	case domerrors.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func codeOf(kind domerrors.Kind) string {
	switch kind {
	case domerrors.KindValidation:
		return ErrCodeValidation
	case domerrors.KindUnauthorized:
		return ErrCodeUnauthorized
	case domerrors.KindForbidden:
		return ErrCodeForbidden
	case domerrors.KindNotFound:
		return ErrCodeNotFound
	case domerrors.KindConflict:
		return ErrCodeConflict
	case domerrors.KindInvalidTransition:
		return ErrCodeInvalidTransition
	case domerrors.KindTooManyRequests:
		return ErrCodeRateLimited
	default:
		return ErrCodeInternal
	}
}

// statusWord is "fail" for server faults and "error" for client errors.
func statusWord(status int) string {
	if status >= http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

func write(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
