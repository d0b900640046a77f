package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// Validation limits.
const (
	MaxBodyBytes    = 1 << 20
	MaxRefreshToken = 1024
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it. Every failing field is
// reported, not just the first. An empty body is accepted when optional is
// set and leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			return domerrors.Validation([]domerrors.FieldIssue{{Field: "body", Message: bodyMessage(err)}})
		}
	}
	return validateStruct(dst)
}

func bodyMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "is required"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &maxErr):
		return "is too large"
	default:
		return "must be valid JSON"
	}
}

// validateStruct runs the validate tags of v and converts failures to a
// domain validation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domerrors.Validation([]domerrors.FieldIssue{{Field: "body", Message: err.Error()}})
	}
	issues := make([]domerrors.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, domerrors.FieldIssue{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return domerrors.Validation(issues)
}

// fieldPath drops the root struct name: "initialTasks[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "min", "gte":
		return "must be at least " + fe.Param() + unit
	case "max", "lte":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// TruncateRefreshToken truncates token to MaxRefreshToken.
func TruncateRefreshToken(tok string) string {
	if len(tok) > MaxRefreshToken {
		return tok[:MaxRefreshToken]
	}
	return tok
}
