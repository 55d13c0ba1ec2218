// Package service implements the answer orchestrator: search, fetch,
// assemble, prompt, generate, remember.
package service

import (
	"github.com/answerhive/answerd/internal/adapter/fetch"
	"github.com/answerhive/answerd/internal/adapter/llm"
	"github.com/answerhive/answerd/internal/adapter/search"
	"github.com/answerhive/answerd/internal/assemble"
	"github.com/answerhive/answerd/internal/config"
	"github.com/answerhive/answerd/internal/domain"
	"github.com/answerhive/answerd/internal/session"
)

// Service wires the pipeline stages together. Collaborators are interfaces so
// tests can substitute stubs for the network-facing ones.
type Service struct {
	sessions  *session.Store
	searcher  search.Provider
	fetcher   fetch.Fetcher
	llmClient llm.LLMClient
	assembler *assemble.Assembler
	config    *config.Config
}

// New creates a Service.
func New(sessions *session.Store, searcher search.Provider, fetcher fetch.Fetcher, llmClient llm.LLMClient, cfg *config.Config) *Service {
	return &Service{
		sessions:  sessions,
		searcher:  searcher,
		fetcher:   fetcher,
		llmClient: llmClient,
		assembler: assemble.New(cfg.AssemblyMaxLength, cfg.AssemblyMinFragment),
		config:    cfg,
	}
}

// Transcript returns the stored conversation for a session.
func (s *Service) Transcript(sessionID string) []domain.Turn {
	return s.sessions.Transcript(sessionID)
}
