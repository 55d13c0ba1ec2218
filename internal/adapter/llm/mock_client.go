package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/answerhive/answerd/internal/domain"
)

// MockClient is a mock implementation of LLMClient for testing and offline
// runs. It never fails and produces a deterministic answer derived from the
// last user message.
type MockClient struct{}

// NewMockClient creates a new mock chat client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// CreateChatCompletion returns a canned answer mentioning the question and
// how many sources appeared in the prompt context.
func (m *MockClient) CreateChatCompletion(_ context.Context, messages []domain.Turn) (string, error) {
	question := ""
	sources := 0
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			question = extractQuestion(messages[i].Content)
			sources = strings.Count(messages[i].Content, "SOURCE: ")
			break
		}
	}
	if question == "" {
		return "I received no question to answer.", nil
	}
	return fmt.Sprintf("Mock answer to %q based on %d source(s).", question, sources), nil
}

// extractQuestion pulls the bare question back out of the prompt template.
func extractQuestion(content string) string {
	const marker = "User question: "
	start := strings.Index(content, marker)
	if start < 0 {
		return strings.TrimSpace(content)
	}
	rest := content[start+len(marker):]
	if end := strings.Index(rest, "\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
