// Package llm provides an abstraction for chat model clients.
package llm

import (
	"context"

	"github.com/answerhive/answerd/internal/domain"
)

// LLMClient defines the interface for chat completion operations. Messages
// are answerd's internal Turn representation; each implementation translates
// to its provider's wire shape at the call boundary.
type LLMClient interface {
	// CreateChatCompletion sends the ordered message sequence and returns
	// the generated answer text.
	CreateChatCompletion(ctx context.Context, messages []domain.Turn) (string, error)
}
