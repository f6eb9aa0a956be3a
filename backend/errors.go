package backend

import (
	"errors"
	"fmt"
)

// HTTPError is any non-2xx backend response other than 401. The raw body is
// kept so views can surface whatever the backend said.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// UnauthorizedError is raised on HTTP 401 after the session has been
// cleared, so the caller knows re-authentication is required.
type UnauthorizedError struct {
	Body string
}

func (e *UnauthorizedError) Error() string {
	if e.Body != "" {
		return "unauthorized: " + e.Body
	}
	return "unauthorized"
}

// LoginError means the login response carried no extractable token under
// any of the known field names.
type LoginError struct {
	Response string
}

func (e *LoginError) Error() string {
	return "login did not return an access token (response: " + e.Response + ")"
}

// IsUnauthorized reports whether err stems from a 401.
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsNotFound reports whether err is a backend 404. The customer view uses
// this to mark ordering as unavailable instead of failing the whole page.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == 404
}
