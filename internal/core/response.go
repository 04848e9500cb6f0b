package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"fesmock/internal/types"
)

// maxRequestBodySize is the maximum allowed size of a request body (1 MB).
const maxRequestBodySize = 1 << 20 // 1 MB

// Fallback statuses used when the server has no configuration.
const (
	defaultFallbackErrorStatus   = http.StatusBadRequest
	defaultFallbackGenericStatus = http.StatusInternalServerError
)

// APIErrorResponse is the envelope for all error responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned to clients.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// JSON writes a JSON response with the given status code and data.
// If marshalling fails, it falls back to a 500 error response.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fallback := APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(types.ErrCodeInternalUnexpected),
				Message:   "failed to marshal response",
				RequestID: types.GetRequestID(r.Context()),
			},
		}
		_ = json.NewEncoder(w).Encode(fallback)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes an error response to the client. It inspects the error chain:
//   - A *types.AppError is rendered with its code and message. Its status is
//     used when it has one; otherwise the configured fallback for client or
//     generic errors applies.
//   - Any other error is a 500 with code "internal_unexpected_error". Its
//     message is not exposed.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	requestID := types.GetRequestID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		JSON(w, r, s.statusFor(appErr), APIErrorResponse{
			Error: ErrorDetail{
				Code:      string(appErr.Code),
				Message:   appErr.Message,
				RequestID: requestID,
			},
		})
		return
	}

	s.Logger.ErrorContext(r.Context(), "unexpected handler error", "error", err, "request_id", requestID)
	JSON(w, r, http.StatusInternalServerError, APIErrorResponse{
		Error: ErrorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "an unexpected error occurred",
			RequestID: requestID,
		},
	})
}

func (s *Server) statusFor(appErr *types.AppError) int {
	if status := appErr.HTTPStatus(); status != types.StatusUnspecified {
		return status
	}

	fallback, generic := defaultFallbackErrorStatus, defaultFallbackGenericStatus
	if s.Config != nil {
		if s.Config.Server.FallbackErrorStatus != 0 {
			fallback = s.Config.Server.FallbackErrorStatus
		}
		if s.Config.Server.FallbackGenericStatus != 0 {
			generic = s.Config.Server.FallbackGenericStatus
		}
	}
	if appErr.IsGeneric() {
		return generic
	}
	return fallback
}
