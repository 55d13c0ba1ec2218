package llm

import (
	"log"

	"github.com/answerhive/answerd/internal/config"
)

// NewLLMClient creates a chat client based on the ANSWERD_MODE environment
// variable. In mock mode the service answers without any model credential.
func NewLLMClient(opts Options) LLMClient {
	if config.MockMode() {
		log.Printf("%s=%s detected, using mock chat client", config.EnvMode, config.ModeMock)
		return NewMockClient()
	}
	return NewOpenAIClient(opts)
}
