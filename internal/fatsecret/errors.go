package fatsecret

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a search response does not have the
// expected shape (missing foods collection, missing required item fields,
// invalid JSON).
var ErrMalformedResponse = errors.New("malformed fatsecret response")

// UpstreamAuthError is returned when the client-credentials exchange fails.
// StatusCode is 0 when no HTTP status was received or the failure happened
// after a successful status (e.g. no access_token in the body).
type UpstreamAuthError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamAuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fatsecret token request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fatsecret token request failed: %v", e.Cause)
}

func (e *UpstreamAuthError) Unwrap() error {
	return e.Cause
}

// Detail returns the upstream diagnostic text passed back to callers.
func (e *UpstreamAuthError) Detail() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// UpstreamSearchError is returned when the foods.search call fails, either
// with a non-200 status or with a FatSecret error envelope in a 200 body.
type UpstreamSearchError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamSearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fatsecret search failed (status %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("fatsecret search failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamSearchError) Unwrap() error {
	return e.Cause
}

// APIError is the error object FatSecret embeds in otherwise successful
// responses, e.g. {"error":{"code":21,"message":"Invalid IP address detected"}}.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fatsecret api error %d: %s", e.Code, e.Message)
}
