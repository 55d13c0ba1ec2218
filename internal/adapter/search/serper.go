// Package search provides the web search provider used to find candidate
// documents for a query.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/answerhive/answerd/internal/domain"
)

// ErrMissingAPIKey signals a configuration problem, not a runtime failure:
// the service was started without a search credential.
var ErrMissingAPIKey = errors.New("search: SERPER_API_KEY is not set")

// Provider returns ordered candidate results for a query.
type Provider interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

const defaultBaseURL = "https://google.serper.dev"

// SerperClient queries the Serper search API.
type SerperClient struct {
	baseURL    string
	apiKey     string
	num        int
	httpClient *http.Client
}

// Ensure SerperClient implements Provider.
var _ Provider = (*SerperClient)(nil)

// NewSerperClient creates a Serper client requesting num results per query.
func NewSerperClient(apiKey string, num int, timeout time.Duration) *SerperClient {
	return &SerperClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		num:     num,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *SerperClient) WithBaseURL(baseURL string) *SerperClient {
	c.baseURL = baseURL
	return c
}

type serperRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// Search returns the organic results for the query in provider order.
func (c *SerperClient) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(serperRequest{Q: query, GL: "us", Num: c.num})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.Link,
		})
	}
	return results, nil
}
