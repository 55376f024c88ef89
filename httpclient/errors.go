package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired wraps unauthorized responses that evicted the session.
// Callers can detect it with errors.Is.
var ErrSessionExpired = errors.New("session expired")

// sessionExpiredError ties a session-affecting 401 to ErrSessionExpired
// while keeping the underlying APIError reachable via errors.As.
type sessionExpiredError struct {
	apiErr *APIError
}

func (e *sessionExpiredError) Error() string {
	return "session expired: " + e.apiErr.Error()
}

func (e *sessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *sessionExpiredError) Unwrap() error {
	return e.apiErr
}

// APIError is a non-2xx response from the backend with its payload decoded.
// Detail and Code follow the backend's error envelope; Fields carries
// per-field validation messages (e.g. registration errors) keyed by field
// name, for callers to map onto form inputs.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: validation failed", e.StatusCode)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsUnauthorized reports whether the error is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsValidationError reports whether the error is a 4xx with field-level detail.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && len(apiErr.Fields) > 0
}

// decodeAPIError builds an APIError from the response body. The backend's
// envelope is either {"detail": "...", "code": "..."} or a map of field
// names to message lists; anything undecodable leaves only the status code.
func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) == 0 {
		return apiErr
	}

	payload := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Detail = string(body)
		return apiErr
	}

	for key, raw := range payload {
		switch key {
		case "detail", "message", "error":
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && apiErr.Detail == "" {
				apiErr.Detail = s
			}
		case "code":
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				apiErr.Code = s
			}
		default:
			var messages []string
			if err := json.Unmarshal(raw, &messages); err == nil {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[key] = messages
				continue
			}
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[key] = []string{single}
			}
		}
	}
	return apiErr
}
