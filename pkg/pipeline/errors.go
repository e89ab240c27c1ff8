package pipeline

import (
	"errors"
	"fmt"
)

// Fixed user-facing messages.
const (
	MissingQuestionMessage = "Please enter a question."
	NoDataMessage          = "No data found in the threat intelligence database for this query."
	CannotAnswerMessage    = "This question cannot be answered with the available threat intelligence data."
	NoQueryPlaceholder     = "-- No query generated --"
	FallbackAnswer         = "Unable to format response."
	UnexpectedErrorMessage = "An unexpected error occurred."
)

// ErrSubmissionInFlight is returned by Submit while another submission of the same orchestrator runs.
var ErrSubmissionInFlight = errors.New("a question is already being answered")

// ValidationError is a submission rejected before any network call.
type ValidationError struct {
	Message string
	// CredentialMissing asks the view to reveal the credential entry region.
	CredentialMissing bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingCredential(provider string) *ValidationError {
	return &ValidationError{
		Message:           fmt.Sprintf("Please enter your %s API key in the configuration section.", provider),
		CredentialMissing: true,
	}
}
