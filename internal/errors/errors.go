// Package errors provides custom error types for the completion client.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed   = errors.New("authentication failed")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrTimeout      = errors.New("request timed out")
	ErrNoChoices    = errors.New("completion contains no choices")
	ErrClientClosed = errors.New("client is closed")
)

// AuthError represents an authentication failure
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: check your API key"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(statusCode int, message string) *AuthError {
	return &AuthError{StatusCode: statusCode, Message: message}
}

// APIError represents a request the endpoint answered with an error status
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Type       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is matches ErrTimeout and context.DeadlineExceeded
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UsageLimitError represents a rate limit or quota error
type UsageLimitError struct {
	Message string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// Is allows comparison with ErrRateLimited
func (e *UsageLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// ContractError represents a response that violates the completion API
// contract, such as a successful reply with no choices.
type ContractError struct {
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("unexpected completion response: %s", e.Message)
}

// Is matches ErrNoChoices so callers can test for the common case
func (e *ContractError) Is(target error) bool {
	if target == ErrNoChoices {
		return true
	}
	_, ok := target.(*ContractError)
	return ok
}

// NewContractError creates a new ContractError
func NewContractError(message string) *ContractError {
	return &ContractError{Message: message}
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsRateLimitError reports whether err is a usage limit failure
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeoutError reports whether err is a timeout, including context deadlines
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsContractError reports whether err is a collaborator contract violation
func IsContractError(err error) bool {
	var cErr *ContractError
	return errors.As(err, &cErr)
}

// GetHTTPStatus extracts the HTTP status code from err, or 0 if none
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from err, or "" if none
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// Hint returns a short user-facing suggestion for err, or "" when none applies
func Hint(err error) string {
	switch {
	case IsAuthError(err):
		return "Check the API key passed with --api_key"
	case IsRateLimitError(err):
		return "Usage limit reached. Try again later or use a different model"
	case IsTimeoutError(err):
		return "Request timed out. Check your network connection"
	case IsNetworkError(err):
		return "Check your internet connection and the --api_url endpoint"
	case IsContractError(err):
		return "The endpoint returned an unexpected response. Try again"
	default:
		return ""
	}
}
