package service

import (
	"fmt"

	"github.com/answerhive/answerd/internal/domain"
)

// defaultSystemPrompt seeds brand-new sessions.
const defaultSystemPrompt = "You are a helpful assistant that provides information based on the given context."

// userPromptTemplate wraps the context blob and the question into the user
// message sent to the model.
const userPromptTemplate = "Context:\n%s\n\nUser question: %s\n\nPlease provide a comprehensive answer based on the context provided."

// buildPrompt produces the outgoing message sequence: the stored transcript
// (or a fresh system seed), plus a user message embedding the context blob
// and question. The result is then size-compressed; the persisted transcript
// is never modified here.
func (s *Service) buildPrompt(sessionID, query, contextBlob string) []domain.Turn {
	messages := s.sessions.Transcript(sessionID)
	if len(messages) == 0 {
		messages = []domain.Turn{{Role: domain.RoleSystem, Content: defaultSystemPrompt}}
	}

	// The blob is bounded again before embedding; the prompt budget is
	// tighter than the assembly budget.
	contextBlob = truncate(contextBlob, s.config.PromptMaxLength)

	messages = append(messages, domain.Turn{
		Role:    domain.RoleUser,
		Content: fmt.Sprintf(userPromptTemplate, contextBlob, query),
	})

	return s.compressHistory(messages)
}

// compressHistory bounds the outgoing prompt when the accumulated messages
// grow past the character ceiling: the leading system message survives and
// only the most recent messages are kept. This is a coarser pass than
// transcript trimming and applies to this one request only.
func (s *Service) compressHistory(messages []domain.Turn) []domain.Turn {
	total := 0
	for _, m := range messages {
		total += len(m.Content)
	}
	if total <= s.config.HistoryCharLimit {
		return messages
	}

	keep := s.config.HistoryKeepRecent
	if len(messages) <= keep+1 {
		return messages
	}

	compressed := make([]domain.Turn, 0, keep+1)
	if messages[0].Role == domain.RoleSystem {
		compressed = append(compressed, messages[0])
	}
	compressed = append(compressed, messages[len(messages)-keep:]...)
	return compressed
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
