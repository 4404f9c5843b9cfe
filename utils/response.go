package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response body: %v", err)
	}
}

// WriteError maps err onto the apperrors taxonomy. Only internal failures
// expose the underlying cause in the "error" field.
func WriteError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	resp := ErrorResponse{Message: "Server Error"}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		if kind == apperrors.Internal && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
	} else {
		resp.Error = err.Error()
	}

	if kind == apperrors.Internal {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
	}
	WriteJSON(w, kind.StatusCode(), resp)
}

// WriteMessage writes {"message": msg} plus any extra fields.
func WriteMessage(w http.ResponseWriter, status int, msg string, extra map[string]any) {
	body := map[string]any{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, status, body)
}
