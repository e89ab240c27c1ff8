package pipeline

// Phase is a state of the submission state machine.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseValidating       Phase = "validating"
	PhaseGeneratingQuery  Phase = "generating_query"
	PhaseCannotAnswer     Phase = "cannot_answer"
	PhaseExecutingQuery   Phase = "executing_query"
	PhaseFormattingAnswer Phase = "formatting_answer"
	PhaseDisplaying       Phase = "displaying"
	PhaseErrorDisplayed   Phase = "error_displayed"
)

// Terminal reports whether no further transition follows without a new submission.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseIdle, PhaseCannotAnswer, PhaseDisplaying, PhaseErrorDisplayed:
		return true
	}
	return false
}

// ViewState is everything a rendering layer needs to draw the assistant.
type ViewState struct {
	Phase                Phase  `json:"state"`
	Loading              bool   `json:"loading"`
	Error                string `json:"error,omitempty"`
	Answer               string `json:"answer,omitempty"`
	Query                string `json:"query,omitempty"`
	CredentialPromptOpen bool   `json:"credential_required,omitempty"`
}

// View receives a snapshot after every state transition.
type View interface {
	Render(state ViewState)
}

// ViewFunc adapts a function to View.
type ViewFunc func(state ViewState)

// Render implements View.
func (f ViewFunc) Render(state ViewState) { f(state) }

type nopView struct{}

func (nopView) Render(ViewState) {}
