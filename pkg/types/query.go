package types

// Record is one row returned by the database query tool, keyed by fetch field name.
type Record map[string]interface{}

// QueryResult is the ordered sequence of records produced by one executed query.
// A nil and a zero-length result are both empty.
type QueryResult []Record

// IsEmpty reports whether the result carries no records.
func (r QueryResult) IsEmpty() bool {
	return len(r) == 0
}

// TokenUsage represents token usage statistics.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
