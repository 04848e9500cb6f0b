package fes

import (
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Request is the transport-independent view of an inbound call that route
// handlers operate on.
type Request struct {
	Method   string
	Host     string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// RequestURI returns the path and raw query as the client sent them.
func (r *Request) RequestURI() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}

// BearerToken returns the Authorization header with a literal "Bearer "
// prefix removed. A missing header yields an empty string.
func (r *Request) BearerToken() string {
	if r.Header == nil {
		return ""
	}
	return strings.Replace(r.Header.Get("Authorization"), "Bearer ", "", 1)
}

// TextBody returns the body as a string when it is textual. Bodies declared
// as binary media, or that are not valid UTF-8, are rejected.
func (r *Request) TextBody() (string, bool) {
	if ct := r.header("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil && isBinaryMediaType(mediaType) {
			return "", false
		}
	}
	if !utf8.Valid(r.Body) {
		return "", false
	}
	return string(r.Body), true
}

func (r *Request) header(name string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get(name)
}

func isBinaryMediaType(mediaType string) bool {
	switch {
	case mediaType == "application/octet-stream":
		return true
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "audio/"),
		strings.HasPrefix(mediaType, "video/"):
		return true
	}
	return false
}
