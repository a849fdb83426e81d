package github

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies an APIError for callers that map it onto their own
// error taxonomy.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindUnauthorized
	KindNotFound
)

// APIError is returned for every failed hosting API interaction: missing
// credentials, non-2xx responses and transport failures alike. Status tells
// them apart (401 no credential, 404 not installed / not found, 502 network).
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusText returns the canonical text for Status, e.g. "403 Forbidden".
func (e *APIError) StatusText() string {
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Kind() ErrorKind {
	switch e.Status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindUpstream
	}
}

func errNoCredential(owner, repo string) *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: fmt.Sprintf("no credential available for %s/%s", owner, repo),
	}
}
