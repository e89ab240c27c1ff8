package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when a request carries no credential.
var ErrMissingAPIKey = errors.New("api key is required")

// RemoteServiceError is a non-success reply from the model provider.
// Message is the provider's own error message, or the HTTP status text when it sent none.
type RemoteServiceError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// EmptyResponseError means the provider answered successfully but with no text.
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("No response from %s API", e.Provider)
}
