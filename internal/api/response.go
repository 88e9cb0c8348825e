package api

import (
	"encoding/json"
	"io"
	"net/http"

	"legal-workers/internal/common/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err to its HTTP status. Internal details are not echoed.
func writeError(w http.ResponseWriter, err error) {
	stdErr, ok := errors.As(err)
	if !ok {
		stdErr = errors.NewInternalError(err)
	}
	status := errors.HTTPStatus(stdErr.Code)

	body := errorBody{Code: string(stdErr.Code), Message: stdErr.Message}
	if status < http.StatusInternalServerError {
		body.Details = stdErr.Details
	}
	writeJSON(w, status, body)
}

func writeNotEnabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotImplemented, errorBody{
		Code:    "NOT_ENABLED",
		Message: "This operation is not enabled on this deployment",
	})
}

// decodeBody reads a JSON object of at most 1 MiB. An empty body leaves
// target untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(target); err != nil && err != io.EOF {
		return errors.NewInputValidationError("invalid JSON body: " + err.Error())
	}
	return nil
}
