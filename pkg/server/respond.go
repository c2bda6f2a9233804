package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/bstlayout/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err's code to a status. Errors without a code are
// reported as INTERNAL_ERROR and their text is not exposed.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		writeErrorStatus(w, http.StatusInternalServerError,
			errors.New(errors.ErrCodeInternal, "internal error"))
		return
	}
	writeErrorStatus(w, errors.HTTPStatus(code), err)
}

func writeErrorStatus(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: errors.UserMessage(err),
		Details: errors.DetailsOf(err),
	}})
}
