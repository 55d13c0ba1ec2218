// Package domain defines the core types shared across answerd components.
package domain

// Role identifies the speaker of a conversation turn.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session transcript.
type Turn struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// SearchResult is one candidate document returned by the search provider.
// URL may be empty; such results are skipped by fetching.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// QueryRequest is the inbound payload for POST /query.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the outbound payload for POST /query.
type QueryResponse struct {
	Answer       string `json:"answer"`
	SessionID    string `json:"session_id"`
	SourcesCount int    `json:"sources_count"`
}

// Answer is the orchestrator's result for a single question.
type Answer struct {
	Text         string
	SessionID    string
	SourcesCount int
	Stages       []StageOutcome
}
