package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answerhive/answerd/internal/repository"
	"github.com/answerhive/answerd/policy"
)

const samplePage = `<html><head>
<style>p { color: red }</style>
<script>var hidden = "not content";</script>
</head><body>
<h1>Main Title</h1>
<p>First paragraph.</p>
<div>div text is not block content</div>
<h2>Subheading</h2>
<p>  Second paragraph.  </p>
<p></p>
</body></html>`

func TestFetchExtractsBlockText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)

	text, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Main Title\n\nFirst paragraph.\n\nSubheading\n\nSecond paragraph.", text)
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "div text")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)

	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(20*time.Millisecond, nil)

	_, err := client.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchRefusedByPolicy(t *testing.T) {
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	client := NewClient(time.Second, engine)

	// httptest binds to 127.0.0.1, which the default policy refuses.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))
	defer server.Close()

	_, err = client.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused by policy")
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("<p>cached content</p>"))
	}))
	defer server.Close()

	cache, err := repository.NewPageCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	client := NewClient(5*time.Second, nil).WithCache(cache, time.Hour)

	first, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	second, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "cached content", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load(), "second fetch must be served from cache")
}
