package search

import (
	"context"

	"github.com/answerhive/answerd/internal/domain"
)

// MockProvider is a mock implementation of Provider for offline runs. It
// returns fixed results with empty URLs so the fetch stage has nothing to
// retrieve.
type MockProvider struct{}

// NewMockProvider creates a new mock search provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Ensure MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// Search returns canned results echoing the query.
func (m *MockProvider) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	return []domain.SearchResult{
		{Title: "Mock result for " + query, Snippet: "No live search in mock mode."},
	}, nil
}
