package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answerhive/answerd/internal/config"
	"github.com/answerhive/answerd/internal/domain"
	"github.com/answerhive/answerd/internal/session"
)

type stubSearcher struct {
	results []domain.SearchResult
	err     error
}

func (s *stubSearcher) Search(context.Context, string) ([]domain.SearchResult, error) {
	return s.results, s.err
}

type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	delay map[string]time.Duration
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	if d, ok := f.delay[url]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	text, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no route to %s", url)
	}
	return text, nil
}

type stubLLM struct {
	answer   string
	err      error
	received [][]domain.Turn
}

func (l *stubLLM) CreateChatCompletion(_ context.Context, messages []domain.Turn) (string, error) {
	copied := make([]domain.Turn, len(messages))
	copy(copied, messages)
	l.received = append(l.received, copied)
	if l.err != nil {
		return "", l.err
	}
	return l.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AssemblyMaxLength:   8000,
		AssemblyMinFragment: 100,
		PromptMaxLength:     6000,
		HistoryCharLimit:    16000,
		HistoryKeepRecent:   4,
		SessionMaxTurns:     10,
		FetchConcurrency:    3,
	}
}

func newTestService(cfg *config.Config, searcher *stubSearcher, fetcher *stubFetcher, model *stubLLM) *Service {
	return New(session.NewStore(cfg.SessionMaxTurns), searcher, fetcher, model, cfg)
}

func TestAnswerEndToEnd(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{Title: "A", Snippet: "about a", URL: "https://a"},
	}}
	fetcher := &stubFetcher{pages: map[string]string{
		"https://a": strings.Repeat("x", 200),
	}}
	model := &stubLLM{answer: "X is a thing."}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	ans, err := svc.Answer(context.Background(), "What is X?", "")
	require.NoError(t, err)

	assert.Equal(t, "X is a thing.", ans.Text)
	assert.Equal(t, 1, ans.SourcesCount)
	assert.NotEmpty(t, ans.SessionID)

	// The transcript gained exactly the user/assistant pair.
	turns := svc.Transcript(ans.SessionID)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "What is X?"}, turns[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Content: "X is a thing."}, turns[1])

	// The model saw the system seed and the context-bearing user message.
	require.Len(t, model.received, 1)
	prompt := model.received[0]
	require.Len(t, prompt, 2)
	assert.Equal(t, domain.RoleSystem, prompt[0].Role)
	assert.Contains(t, prompt[1].Content, "SOURCE: https://a")
	assert.Contains(t, prompt[1].Content, "User question: What is X?")
}

func TestAnswerSessionContinuity(t *testing.T) {
	searcher := &stubSearcher{}
	fetcher := &stubFetcher{}
	model := &stubLLM{answer: "second answer"}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	first, err := svc.Answer(context.Background(), "first?", "")
	require.NoError(t, err)
	_, err = svc.Answer(context.Background(), "second?", first.SessionID)
	require.NoError(t, err)

	turns := svc.Transcript(first.SessionID)
	require.Len(t, turns, 4)

	// The second prompt carried the first exchange as history.
	require.Len(t, model.received, 2)
	second := model.received[1]
	require.Len(t, second, 3)
	assert.Equal(t, "first?", second[0].Content)
	assert.Equal(t, "second answer", second[1].Content)
}

func TestAnswerSearchFailureDegrades(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("search provider down")}
	fetcher := &stubFetcher{}
	model := &stubLLM{answer: "best effort answer"}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	ans, err := svc.Answer(context.Background(), "anything?", "")
	require.NoError(t, err)

	assert.Equal(t, 0, ans.SourcesCount)
	assert.Equal(t, "best effort answer", ans.Text)
	assert.Empty(t, fetcher.calls)

	outcome := stageOutcome(t, ans, domain.StageSearch)
	assert.Equal(t, domain.StageDegraded, outcome.Status)
	assert.Contains(t, outcome.Detail, "search provider down")
}

func TestAnswerFetchFailuresDoNotAbortBatch(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{URL: "https://dead"},
		{URL: "https://alive"},
	}}
	fetcher := &stubFetcher{pages: map[string]string{
		"https://alive": "still here",
	}}
	model := &stubLLM{answer: "ok"}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	ans, err := svc.Answer(context.Background(), "q?", "")
	require.NoError(t, err)

	assert.Equal(t, 2, ans.SourcesCount)
	prompt := model.received[0]
	assert.Contains(t, prompt[len(prompt)-1].Content, "SOURCE: https://alive")
	assert.NotContains(t, prompt[len(prompt)-1].Content, "SOURCE: https://dead")

	outcome := stageOutcome(t, ans, domain.StageFetch)
	assert.Equal(t, domain.StageDegraded, outcome.Status)
	assert.Equal(t, "1/2 fetched", outcome.Detail)
}

func TestAnswerSkipsResultsWithoutURL(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{Title: "no link", Snippet: "snippet only"},
		{URL: "https://a"},
	}}
	fetcher := &stubFetcher{pages: map[string]string{"https://a": "text"}}
	model := &stubLLM{answer: "ok"}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	ans, err := svc.Answer(context.Background(), "q?", "")
	require.NoError(t, err)

	// The empty-URL result still counts as a source but is never fetched.
	assert.Equal(t, 2, ans.SourcesCount)
	assert.Equal(t, []string{"https://a"}, fetcher.calls)
}

func TestAnswerPreservesSearchOrderDespiteCompletionOrder(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{
		{URL: "https://slow"},
		{URL: "https://fast"},
	}}
	fetcher := &stubFetcher{
		pages: map[string]string{
			"https://slow": "slow content",
			"https://fast": "fast content",
		},
		delay: map[string]time.Duration{"https://slow": 50 * time.Millisecond},
	}
	model := &stubLLM{answer: "ok"}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	_, err := svc.Answer(context.Background(), "q?", "")
	require.NoError(t, err)

	content := model.received[0][len(model.received[0])-1].Content
	slowIdx := strings.Index(content, "SOURCE: https://slow")
	fastIdx := strings.Index(content, "SOURCE: https://fast")
	require.GreaterOrEqual(t, slowIdx, 0)
	require.GreaterOrEqual(t, fastIdx, 0)
	assert.Less(t, slowIdx, fastIdx, "assembly must follow search order, not completion order")
}

func TestAnswerModelFailureLeavesTranscriptIntact(t *testing.T) {
	searcher := &stubSearcher{results: []domain.SearchResult{{URL: "https://a"}}}
	fetcher := &stubFetcher{pages: map[string]string{"https://a": "text"}}
	model := &stubLLM{err: errors.New("model unavailable")}
	svc := newTestService(testConfig(), searcher, fetcher, model)

	sessions := svc.sessions
	id := sessions.GetOrCreate("")
	sessions.AppendExchange(id, "old q", "old a")

	ans, err := svc.Answer(context.Background(), "new q?", id)
	require.NoError(t, err)

	assert.Contains(t, ans.Text, "Sorry, I encountered an error generating your answer")
	assert.Contains(t, ans.Text, "model unavailable")
	assert.Equal(t, domain.StageFailed, stageOutcome(t, ans, domain.StageGenerate).Status)

	// Neither the question nor a partial answer leaked into the transcript.
	turns := sessions.Transcript(id)
	require.Len(t, turns, 2)
	assert.Equal(t, "old q", turns[0].Content)
	assert.Equal(t, "old a", turns[1].Content)
}

func stageOutcome(t *testing.T, ans domain.Answer, stage string) domain.StageOutcome {
	t.Helper()
	for _, o := range ans.Stages {
		if o.Stage == stage {
			return o
		}
	}
	t.Fatalf("no outcome recorded for stage %q", stage)
	return domain.StageOutcome{}
}
