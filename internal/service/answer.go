package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/answerhive/answerd/internal/assemble"
	"github.com/answerhive/answerd/internal/domain"
)

// Answer runs the full pipeline for one question. Every stage before model
// invocation absorbs its own failures and hands the next stage degraded
// input; a model failure still yields a well-formed Answer whose text carries
// the error. The returned error is reserved for conditions the service cannot
// absorb, and is currently always nil.
func (s *Service) Answer(ctx context.Context, query, sessionID string) (domain.Answer, error) {
	sessionID = s.sessions.GetOrCreate(sessionID)

	ans := domain.Answer{SessionID: sessionID}

	// Search. A failed search degrades to zero sources.
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("WARN: search failed for query %q: %v", query, err)
		ans.Stages = append(ans.Stages, domain.StageOutcome{
			Stage: domain.StageSearch, Status: domain.StageDegraded, Detail: err.Error(),
		})
		results = nil
	} else {
		ans.Stages = append(ans.Stages, domain.StageOutcome{
			Stage: domain.StageSearch, Status: domain.StageOK,
			Detail: fmt.Sprintf("%d results", len(results)),
		})
	}
	ans.SourcesCount = len(results)

	// Fetch. Individual failures degrade to empty text for that URL only.
	sources, fetched, attempted := s.fetchAll(ctx, results)
	fetchStatus := domain.StageOK
	if fetched < attempted {
		fetchStatus = domain.StageDegraded
	}
	ans.Stages = append(ans.Stages, domain.StageOutcome{
		Stage: domain.StageFetch, Status: fetchStatus,
		Detail: fmt.Sprintf("%d/%d fetched", fetched, attempted),
	})

	// Assemble the context blob under the configured budget.
	contextBlob := s.assembler.Assemble(sources)
	assembleStatus := domain.StageOK
	if contextBlob == "" {
		assembleStatus = domain.StageDegraded
	}
	ans.Stages = append(ans.Stages, domain.StageOutcome{
		Stage: domain.StageAssemble, Status: assembleStatus,
		Detail: fmt.Sprintf("%d chars", len(contextBlob)),
	})

	// Prompt and generate.
	messages := s.buildPrompt(sessionID, query, contextBlob)
	answerText, err := s.llmClient.CreateChatCompletion(ctx, messages)
	if err != nil {
		log.Printf("WARN: chat completion failed for session %s: %v", sessionID, err)
		ans.Stages = append(ans.Stages, domain.StageOutcome{
			Stage: domain.StageGenerate, Status: domain.StageFailed, Detail: err.Error(),
		})
		// The transcript is left untouched: a failed generation appends
		// neither the question nor an answer.
		ans.Text = fmt.Sprintf("Sorry, I encountered an error generating your answer: %v", err)
		return ans, nil
	}
	ans.Stages = append(ans.Stages, domain.StageOutcome{
		Stage: domain.StageGenerate, Status: domain.StageOK,
	})

	// Remember the exchange. The raw query is stored, not the padded prompt.
	s.sessions.AppendExchange(sessionID, query, answerText)

	ans.Text = answerText
	return ans, nil
}

// fetchAll retrieves every result with a URL, concurrently up to the
// configured limit. Results slot back in by index so assembly sees them in
// the original search order regardless of completion order. Failed or
// timed-out fetches leave an empty string behind for the assembler to skip.
func (s *Service) fetchAll(ctx context.Context, results []domain.SearchResult) (sources []assemble.Source, fetched, attempted int) {
	sources = make([]assemble.Source, len(results))

	g, fetchCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.FetchConcurrency)

	for i, r := range results {
		sources[i].URL = r.URL
		if r.URL == "" {
			continue
		}
		attempted++

		g.Go(func() error {
			text, err := s.fetcher.Fetch(fetchCtx, r.URL)
			if err != nil {
				log.Printf("WARN: fetch failed for %s: %v", r.URL, err)
				return nil
			}
			sources[i].Text = text
			return nil
		})
	}
	g.Wait()

	for _, src := range sources {
		if src.Text != "" {
			fetched++
		}
	}
	return sources, fetched, attempted
}
