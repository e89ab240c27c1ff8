package dto

// AskRequest is the body of POST /api/ask. The credential may instead arrive in the X-API-Key header.
type AskRequest struct {
	Question string `json:"question"`
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// AskResponse is the terminal view state of a submission.
type AskResponse struct {
	State              string `json:"state"`
	Answer             string `json:"answer,omitempty"`
	Query              string `json:"query,omitempty"`
	Error              string `json:"error,omitempty"`
	CredentialRequired bool   `json:"credential_required,omitempty"`
	SessionID          string `json:"session_id"`
}
