// Package fetch retrieves web pages and extracts their readable text.
package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/answerhive/answerd/internal/repository"
	"github.com/answerhive/answerd/policy"
)

// Browser-like identifier; many sites refuse requests with a bare Go client UA.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher retrieves the extracted text of a document. Implementations return
// an error for unreachable or refused documents; callers treat any error as
// empty content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client fetches pages over HTTP and extracts block-level text. The policy
// engine vets every URL before a request is made; the page cache, when
// present, short-circuits repeat fetches.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	policy      *policy.Engine
	cache       *repository.PageCache
	cacheMaxAge time.Duration
}

// Ensure Client implements Fetcher.
var _ Fetcher = (*Client)(nil)

// NewClient creates a fetcher with a per-request timeout.
func NewClient(timeout time.Duration, engine *policy.Engine) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		policy:  engine,
	}
}

// WithCache attaches a page cache. Cache failures are logged and degrade to a
// plain network fetch.
func (c *Client) WithCache(cache *repository.PageCache, maxAge time.Duration) *Client {
	c.cache = cache
	c.cacheMaxAge = maxAge
	return c
}

// Fetch retrieves one document and returns its readable text. The request
// carries its own timeout so one slow host cannot stall a whole batch.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.policy != nil {
		decision, err := c.policy.Evaluate(ctx, url)
		if err != nil {
			log.Printf("WARN: fetch policy evaluation failed for %s: %v", url, err)
		} else if decision != policy.DecisionAllow {
			return "", fmt.Errorf("fetch of %s refused by policy", url)
		}
	}

	if c.cache != nil {
		if content, ok, err := c.cache.Get(ctx, url, c.cacheMaxAge); err != nil {
			log.Printf("WARN: page cache read failed for %s: %v", url, err)
		} else if ok {
			return content, nil
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch of %s returned status %d", url, resp.StatusCode)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", url, err)
	}

	if c.cache != nil && text != "" {
		if err := c.cache.Put(ctx, url, text); err != nil {
			log.Printf("WARN: page cache write failed for %s: %v", url, err)
		}
	}
	return text, nil
}

// extractText pulls paragraph and heading text out of an HTML document,
// discarding script, style, and other markup.
func extractText(resp *http.Response) (string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Remove()

	var blocks []string
	doc.Find("p, h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})
	return strings.Join(blocks, "\n\n"), nil
}
