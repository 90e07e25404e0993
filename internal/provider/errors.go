package provider

import (
	"errors"
	"fmt"
	"net/url"
)

// HTTPError is an application rejection carried by an HTTP status code.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected request: %s", e.Status)
}

// IsTransport reports whether the error occurred before an HTTP response was
// obtained (network failure, DNS, timeout). Application rejections carry an
// *HTTPError instead.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// IsUnauthorized reports whether the error is an HTTP 401 rejection.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 401
}

// IsNotFound reports whether the error is an HTTP 404 rejection.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 404
}
