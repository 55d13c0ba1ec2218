package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/answerhive/answerd/internal/adapter/fetch"
	"github.com/answerhive/answerd/internal/adapter/llm"
	"github.com/answerhive/answerd/internal/adapter/search"
	"github.com/answerhive/answerd/internal/config"
	"github.com/answerhive/answerd/internal/repository"
	"github.com/answerhive/answerd/internal/service"
	"github.com/answerhive/answerd/internal/session"
	transport "github.com/answerhive/answerd/internal/transport/http"
	"github.com/answerhive/answerd/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting answerd...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Model: %s", cfg.ModelID)

	// Credentials are a startup concern: a missing key should fail fast and
	// loudly, not degrade every request at runtime.
	if !config.MockMode() {
		if cfg.SerperAPIKey == "" {
			log.Fatalf("SERPER_API_KEY is not set (set %s=%s to run without providers)", config.EnvMode, config.ModeMock)
		}
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("OPENAI_API_KEY is not set (set %s=%s to run without providers)", config.EnvMode, config.ModeMock)
		}
	}

	// Initialize fetch policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize document fetcher, with the page cache when configured
	fetcher := fetch.NewClient(cfg.FetchTimeout, policyEngine)
	if cfg.CacheDSN != "" {
		cache, err := repository.NewPageCache(cfg.CacheDSN)
		if err != nil {
			log.Fatalf("Failed to initialize page cache: %v", err)
		}
		defer cache.Close()
		fetcher.WithCache(cache, cfg.CacheMaxAge)
		log.Printf("Page cache: %s", cfg.CacheDSN)
	}

	// Initialize search and model clients
	var searcher search.Provider = search.NewSerperClient(cfg.SerperAPIKey, cfg.SearchNumResults, cfg.SearchTimeout)
	if config.MockMode() {
		searcher = search.NewMockProvider()
	}
	llmClient := llm.NewLLMClient(llm.Options{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		ModelID:     cfg.ModelID,
		Temperature: cfg.ModelTemperature,
		MaxTokens:   cfg.ModelMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})

	// Initialize session store and service
	sessions := session.NewStore(cfg.SessionMaxTurns)
	svc := service.New(sessions, searcher, fetcher, llmClient, cfg)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("answerd started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down answerd...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("answerd stopped")
}
