package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/answerhive/answerd/internal/domain"
)

// Options configures the OpenAI-backed client. ModelID, Temperature, and
// MaxTokens apply to every completion; per-call overrides are not supported.
type Options struct {
	APIKey      string
	BaseURL     string // optional OpenAI-compatible endpoint
	ModelID     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenAIClient calls an OpenAI-compatible chat completion API.
type OpenAIClient struct {
	api  *openai.Client
	opts Options
}

// Ensure OpenAIClient implements LLMClient.
var _ LLMClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the configured model endpoint.
func NewOpenAIClient(opts Options) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &OpenAIClient{
		api:  openai.NewClientWithConfig(cfg),
		opts: opts,
	}
}

// CreateChatCompletion sends the messages and returns the first choice's
// content, trimmed.
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, messages []domain.Turn) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.opts.ModelID,
		Messages:    toOpenAIMessages(messages),
		Temperature: float32(c.opts.Temperature),
		MaxTokens:   c.opts.MaxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toOpenAIMessages(turns []domain.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		}
	}
	return messages
}
