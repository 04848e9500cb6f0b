package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fesmock/internal/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var body APIErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body.Error
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(w, r, http.StatusOK, map[string]string{"replyToken": "abc"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
	if got := w.Body.String(); got != `{"replyToken":"abc"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestJSON_EmptyObject(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	JSON(w, r, http.StatusOK, struct{}{})

	if got := w.Body.String(); got != `{}` {
		t.Errorf("expected {}, got %s", got)
	}
}

func TestJSON_MarshalFailure(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(types.WithRequestID(r.Context(), "req-1"))

	JSON(w, r, http.StatusOK, map[string]any{"bad": make(chan int)})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	detail := decodeError(t, w)
	if detail.Code != string(types.ErrCodeInternalUnexpected) {
		t.Errorf("expected code %s, got %s", types.ErrCodeInternalUnexpected, detail.Code)
	}
	if detail.RequestID != "req-1" {
		t.Errorf("expected request_id req-1, got %q", detail.RequestID)
	}
}

func TestError_StatusResolution(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   types.ErrorCode
	}{
		{
			name:       "explicit 404",
			err:        types.NewHTTPError(http.StatusNotFound, "Not Found"),
			wantStatus: http.StatusNotFound,
			wantCode:   types.ErrCodeNotFoundRoute,
		},
		{
			name:       "explicit 401",
			err:        types.NewHTTPError(http.StatusUnauthorized, "token not issued"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   types.ErrCodeAuthTokenNotIssued,
		},
		{
			name:       "code mapped 404",
			err:        types.NewAppError(types.ErrCodeNotFoundService, "Not found", nil),
			wantStatus: http.StatusNotFound,
			wantCode:   types.ErrCodeNotFoundService,
		},
		{
			name:       "client error uses fallback",
			err:        types.NewClientError("Not running any FES here"),
			wantStatus: http.StatusBadRequest,
			wantCode:   types.ErrCodeClientUnexpected,
		},
		{
			name:       "generic error uses generic fallback",
			err:        types.NewAppError(types.ErrCodeGenericAuthMissing, "missing token", nil),
			wantStatus: http.StatusInternalServerError,
			wantCode:   types.ErrCodeGenericAuthMissing,
		},
		{
			name:       "wrapped app error",
			err:        fmt.Errorf("handler: %w", types.NewHTTPError(http.StatusNotFound, "Not Found")),
			wantStatus: http.StatusNotFound,
			wantCode:   types.ErrCodeNotFoundRoute,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   types.ErrCodeInternalUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServerForMiddleware(t)
			srv.Config = testConfig()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			srv.Error(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if detail := decodeError(t, w); detail.Code != string(tt.wantCode) {
				t.Errorf("expected code %s, got %s", tt.wantCode, detail.Code)
			}
		})
	}
}

func TestError_ConfiguredFallbacks(t *testing.T) {
	srv := newTestServerForMiddleware(t)
	srv.Config = testConfig()
	srv.Config.Server.FallbackErrorStatus = http.StatusConflict
	srv.Config.Server.FallbackGenericStatus = http.StatusBadGateway

	w := httptest.NewRecorder()
	srv.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), types.NewClientError("nope"))
	if w.Code != http.StatusConflict {
		t.Errorf("expected client fallback 409, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Error(w, httptest.NewRequest(http.MethodGet, "/", nil),
		types.NewAppError(types.ErrCodeGenericAuthReused, "reused", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected generic fallback 502, got %d", w.Code)
	}
}

func TestError_NilConfigUsesDefaults(t *testing.T) {
	srv := newTestServerForMiddleware(t)

	w := httptest.NewRecorder()
	srv.Error(w, httptest.NewRequest(http.MethodGet, "/", nil), types.NewClientError("nope"))

	if w.Code != defaultFallbackErrorStatus {
		t.Errorf("expected %d, got %d", defaultFallbackErrorStatus, w.Code)
	}
}

func TestError_HidesPlainErrorMessage(t *testing.T) {
	srv := newTestServerForMiddleware(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(types.WithRequestID(r.Context(), "req-42"))
	srv.Error(w, r, errors.New("database password is hunter2"))

	detail := decodeError(t, w)
	if detail.Message != "an unexpected error occurred" {
		t.Errorf("internal message leaked: %q", detail.Message)
	}
	if detail.RequestID != "req-42" {
		t.Errorf("expected request_id req-42, got %q", detail.RequestID)
	}
}
