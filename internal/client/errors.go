package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is used when a non-success response names no reason.
const DefaultErrorMessage = "Request failed"

// TransportError means the API could not be reached or answered with a body
// that could not be decoded. It is never retried.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-success response. Body holds the decoded JSON payload
// when there was one, the raw text otherwise.
type APIError struct {
	Status  int
	Message string
	Body    any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newAPIError(status int, contentType string, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var fields map[string]any
	if isJSON(contentType) && json.Unmarshal(raw, &fields) == nil {
		apiErr.Body = fields
		apiErr.Message = firstString(fields, "message", "error")
	} else if len(raw) > 0 {
		apiErr.Body = string(raw)
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = DefaultErrorMessage
	}
	return apiErr
}

func firstString(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage is the text to show for a failed user action: the server's or
// validator's reason when there is one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) && valErr.Message != "" {
		return valErr.Message
	}
	return fallback
}
