package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// GitHubError represents a structured error from GitHub operations.
// Every failure surfaced by a remote call during a run is reported as a
// GitHubError; the type only classifies the failure for display, it does not
// change how the run reacts to it.
type GitHubError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Cause    error     `json:"-"`
	Resource string    `json:"resource,omitempty"`
	Field    string    `json:"field,omitempty"`
	Code     string    `json:"code,omitempty"`
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// NewGitHubError creates a new GitHubError with the specified type and message
func NewGitHubError(errorType ErrorType, message string, cause error) *GitHubError {
	return &GitHubError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// WrapGitHubError wraps a GitHub API error into our structured error type
func WrapGitHubError(err error, resource string) *GitHubError {
	if err == nil {
		return nil
	}

	// If it's already a GitHubError, return as-is
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		if ghErr.Resource == "" {
			ghErr.Resource = resource
		}
		return ghErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &GitHubError{
			Type:     ErrorTypeRateLimit,
			Message:  fmt.Sprintf("Rate limit exceeded. Reset at %v", rateErr.Rate.Reset.Time),
			Cause:    err,
			Resource: resource,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &GitHubError{
			Type:     ErrorTypeRateLimit,
			Message:  "Secondary rate limit triggered. Please wait before running again",
			Cause:    err,
			Resource: resource,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return parseGitHubAPIError(respErr, resource)
	}

	if isNetworkError(err) {
		return &GitHubError{
			Type:     ErrorTypeNetwork,
			Message:  "Network error occurred. Please check your connection and try again",
			Cause:    err,
			Resource: resource,
		}
	}

	return &GitHubError{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Resource: resource,
	}
}

// parseGitHubAPIError parses GitHub API error responses into structured errors
func parseGitHubAPIError(ghErr *github.ErrorResponse, resource string) *GitHubError {
	baseErr := &GitHubError{
		Resource: resource,
		Cause:    ghErr,
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "Authentication failed. Please check your GitHub token"

		if strings.Contains(strings.ToLower(ghErr.Message), "bad credentials") {
			baseErr.Message = "Invalid or expired GitHub token. Please update GITHUB_AUTH_TOKEN"
		}

	case http.StatusForbidden:
		if strings.Contains(strings.ToLower(ghErr.Message), "rate limit") {
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = "GitHub API rate limit exceeded. Please wait before running again"
		} else {
			baseErr.Type = ErrorTypePermission
			baseErr.Message = "Insufficient permissions. Your token may not have the required scopes"

			if strings.HasPrefix(resource, "label") {
				baseErr.Message += ". Creating labels requires write access to the repository"
			}
		}

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound

		switch {
		case strings.HasPrefix(resource, "repositories for"):
			baseErr.Message = "Organization not found. Check GITHUB_ORG_NAME and your access permissions"
		case strings.HasPrefix(resource, "labels for"), strings.HasPrefix(resource, "label "):
			baseErr.Message = "Repository not found. It may have been deleted or your token cannot see it"
		default:
			baseErr.Message = "Resource not found"
		}

	case http.StatusConflict:
		baseErr.Type = ErrorTypeConflict
		baseErr.Message = "Resource conflict occurred"

	case http.StatusUnprocessableEntity:
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = "Validation failed"

		if len(ghErr.Errors) > 0 {
			var validationErrors []string
			for _, err := range ghErr.Errors {
				if err.Code == "already_exists" {
					baseErr.Type = ErrorTypeConflict
				}
				if err.Field != "" {
					validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", err.Field, describeFieldError(err)))
					if baseErr.Field == "" {
						baseErr.Field = err.Field
						baseErr.Code = err.Code
					}
				} else {
					validationErrors = append(validationErrors, err.Message)
				}
			}
			baseErr.Message = fmt.Sprintf("Validation failed: %s", strings.Join(validationErrors, "; "))
		}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeNetwork
		baseErr.Message = "GitHub API is temporarily unavailable. Please try again later"

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = ghErr.Message
	}

	return baseErr
}

// describeFieldError prefers the API message and falls back to the error code.
func describeFieldError(err github.Error) string {
	if err.Message != "" {
		return err.Message
	}
	return strings.ReplaceAll(err.Code, "_", " ")
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"i/o timeout",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// ValidationError represents a label set validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
