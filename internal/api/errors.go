package api

import (
	"errors"
	"fmt"
)

// AuthenticationError means no access token could be obtained. It is never
// retried by this package.
type AuthenticationError struct {
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("swgoh authentication failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("swgoh authentication failed (status %d)", e.StatusCode)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// APIError is a failed single request: transport failure, undecodable body or
// a non-success status other than not-found. Callers may retry it.
type APIError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("swgoh api error on %s (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("swgoh api error on %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("swgoh api error on %s: status %d", e.Endpoint, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
