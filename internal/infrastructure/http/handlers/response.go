package handlers

import (
	"net/http"

	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/response"
)

// writeErr maps err onto the failure envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	response.Error(w, r, err)
}

// writeJSON wraps v in the success envelope.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	response.JSON(w, code, v)
}

func writeNoContent(w http.ResponseWriter) {
	response.NoContent(w)
}
