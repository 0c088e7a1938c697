package freshlearn

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid freshlearn configuration")
	// ErrAPIKeyRequired is returned by NewClient when the API key is empty
	ErrAPIKeyRequired = fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	// ErrInvalidRequest indicates a request payload failed validation
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError represents a failed Freshlearn API call
type APIError struct {
	StatusCode int
	Message    string
	Body       Payload
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("freshlearn API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
