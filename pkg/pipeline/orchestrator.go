package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/soundprediction/stix-qa/pkg/executor"
)

// Submission is one user request.
type Submission struct {
	Question   string
	Credential string
	// Endpoint is the JSON-RPC proxy URL; empty uses the orchestrator default.
	Endpoint string
}

// OrchestratorOptions holds optional orchestrator settings.
type OrchestratorOptions struct {
	DefaultEndpoint string
	// ProviderName appears in the missing-credential message. Defaults to "Claude".
	ProviderName string
	Logger       *slog.Logger
}

// Orchestrator runs submissions through generate, execute and format, publishing
// every transition to its View. It processes one submission at a time and
// rejects a second one with ErrSubmissionInFlight.
type Orchestrator struct {
	generator Generator
	executor  executor.Executor
	formatter Formatter
	view      View
	opts      OrchestratorOptions
	logger    *slog.Logger

	inFlight atomic.Bool
	mu       sync.Mutex
	state    ViewState
}

// NewOrchestrator wires the pipeline stages. A nil view discards updates.
func NewOrchestrator(generator Generator, exec executor.Executor, formatter Formatter, view View, opts OrchestratorOptions) *Orchestrator {
	if view == nil {
		view = nopView{}
	}
	if opts.ProviderName == "" {
		opts.ProviderName = "Claude"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		generator: generator,
		executor:  exec,
		formatter: formatter,
		view:      view,
		opts:      opts,
		logger:    logger,
		state:     ViewState{Phase: PhaseIdle},
	}
}

// State returns the current view state.
func (o *Orchestrator) State() ViewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InFlight reports whether a submission is being processed.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

func (o *Orchestrator) update(fn func(*ViewState)) ViewState {
	o.mu.Lock()
	fn(&o.state)
	snapshot := o.state
	o.mu.Unlock()

	o.view.Render(snapshot)
	return snapshot
}

// Submit processes one submission and returns the terminal view state. The
// returned error is the failure that produced ErrorDisplayed, nil for
// Displaying and CannotAnswer, or ErrSubmissionInFlight (with the view untouched).
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) (ViewState, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return o.State(), ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	o.update(func(s *ViewState) { s.Phase = PhaseValidating })

	question := strings.TrimSpace(sub.Question)
	if verr := o.validate(question, sub.Credential); verr != nil {
		state := o.update(func(s *ViewState) {
			s.Phase = PhaseErrorDisplayed
			s.Error = verr.Message
			s.CredentialPromptOpen = verr.CredentialMissing
		})
		return state, verr
	}

	o.update(func(s *ViewState) {
		s.Phase = PhaseGeneratingQuery
		s.Loading = true
		s.CredentialPromptOpen = false
		s.Error = ""
		s.Answer = ""
		s.Query = ""
	})

	answer, query, err := o.run(ctx, question, sub)
	if err != nil {
		message := err.Error()
		if message == "" {
			message = UnexpectedErrorMessage
		}
		o.logger.ErrorContext(ctx, "Submission failed", "error", err)
		state := o.update(func(s *ViewState) {
			s.Phase = PhaseErrorDisplayed
			s.Loading = false
			s.Error = message
		})
		return state, err
	}

	if query == CannotQuery {
		state := o.update(func(s *ViewState) {
			s.Phase = PhaseCannotAnswer
			s.Loading = false
			s.Answer = CannotAnswerMessage
			s.Query = NoQueryPlaceholder
		})
		o.logger.InfoContext(ctx, "Question cannot be answered from the schema")
		return state, nil
	}

	state := o.update(func(s *ViewState) {
		s.Phase = PhaseDisplaying
		s.Loading = false
		s.Answer = answer
		s.Query = query
	})
	o.logger.InfoContext(ctx, "Rendered answer", "query", query)
	return state, nil
}

func (o *Orchestrator) validate(question, credential string) *ValidationError {
	if question == "" {
		return &ValidationError{Message: MissingQuestionMessage}
	}
	if credential == "" {
		return missingCredential(o.opts.ProviderName)
	}
	return nil
}

// run executes the remote stages. A CannotQuery result returns immediately with no answer.
func (o *Orchestrator) run(ctx context.Context, question string, sub Submission) (string, string, error) {
	query, err := o.generator.GenerateQuery(ctx, question, sub.Credential)
	if err != nil {
		return "", "", err
	}
	if query == CannotQuery {
		return "", query, nil
	}

	endpoint := sub.Endpoint
	if endpoint == "" {
		endpoint = o.opts.DefaultEndpoint
	}

	o.update(func(s *ViewState) { s.Phase = PhaseExecutingQuery })
	results, err := o.executor.ExecuteQuery(ctx, query, endpoint)
	if err != nil {
		return "", "", err
	}

	o.update(func(s *ViewState) { s.Phase = PhaseFormattingAnswer })
	answer, err := o.formatter.FormatAnswer(ctx, question, results, sub.Credential)
	if err != nil {
		return "", "", err
	}
	return answer, query, nil
}
