package common

import (
	"encoding/json"
	"net/http"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/logging"
)

// Meta carries the outcome of a request
type Meta struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// APIResponse is the uniform envelope for every endpoint
type APIResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, APIResponse{
		Data: data,
		Meta: Meta{Success: true, Errors: []string{}},
	})
}

// RespondError sends a standardized JSON error response. AppErrors keep their
// status and codes; anything else is logged and reported as GENERAL_UNKNOWN.
func RespondError(w http.ResponseWriter, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		logging.Error("Unhandled error", "error", err)
		appErr = NewAppError(http.StatusInternalServerError, constants.ErrGeneralUnknown)
	}

	writeJSON(w, appErr.Status, APIResponse{
		Data: nil,
		Meta: Meta{Success: false, Errors: appErr.Codes},
	})
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
