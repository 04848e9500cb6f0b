package core

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"fesmock/internal/fes"
	"fesmock/internal/types"
)

// defaultRedactedHeaders lists header names whose values are masked in request
// logs to prevent accidental leakage of credentials or session tokens.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
}

// MountRoutes registers the global middleware chain, every FES mock route and
// the operational endpoints.
func (s *Server) MountRoutes() {
	s.registerGlobalMiddleware()

	// FES routes accept every method; the handlers decide what they answer.
	for _, route := range s.FES.Routes() {
		s.router.HandleFunc(route.Path, s.fesHandler)
	}
	s.router.NotFound(s.handleNotFound)

	s.router.Get("/health", s.HandleHealth)
	if s.MetricsHandler != nil {
		s.router.Handle("/metrics", s.MetricsHandler)
	}
}

// registerGlobalMiddleware applies middleware in strict order.
//
// Ordering Rationale:
//  1. Recoverer      - Catches panics (including failed body assertions).
//  2. RequestID      - Generates/propagates correlation ID.
//  3. DecompressBody - Inflates gzip request bodies before anything reads them.
//  4. RequestLogger  - Structured logging (redacted headers).
//  5. Metrics        - Request latency and count recording.
func (s *Server) registerGlobalMiddleware() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(s.DecompressBody)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))
	s.router.Use(s.MetricsMiddleware)
}

// fesHandler adapts the FES dispatcher to net/http.
func (s *Server) fesHandler(w http.ResponseWriter, r *http.Request) {
	body, err := ReadBody(w, r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	req := &fes.Request{
		Method:   r.Method,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
		Body:     body,
	}

	result, err := s.FES.Dispatch(r.Context(), req)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, result)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.Error(w, r, types.NewHTTPError(http.StatusNotFound, "Not Found"))
}

// RequestIDMiddleware generates or propagates a unique request ID for
// correlation across logs. If the incoming request contains an X-Request-Id
// header, that value is reused; otherwise a new UUID is generated.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := types.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DecompressBody transparently inflates request bodies sent with
// "Content-Encoding: gzip". Other encodings are passed through untouched.
func (s *Server) DecompressBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") != "gzip" || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			s.Error(w, r, types.NewHTTPError(http.StatusBadRequest, "invalid gzip request body"))
			return
		}
		defer zr.Close()

		r.Body = struct {
			io.Reader
			io.Closer
		}{zr, r.Body}
		r.Header.Del("Content-Encoding")
		r.Header.Del("Content-Length")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}

// ReadBody reads the whole request body, enforcing maxRequestBodySize.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, types.NewHTTPError(http.StatusRequestEntityTooLarge, "request body must not exceed 1MB")
		}
		return nil, types.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	return body, nil
}
