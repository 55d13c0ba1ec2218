// Package config provides configuration for answerd.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "ANSWERD_MODE"
	// ModeMock indicates mock collaborators should be used instead of
	// real search and model providers.
	ModeMock = "MOCK"
)

// Config holds the answerd configuration. All limits that shape prompts and
// context blobs are tunable here rather than fixed at call sites.
type Config struct {
	// Server settings
	HTTPPort int

	// Credentials
	SerperAPIKey string
	OpenAIAPIKey string

	// Model settings
	OpenAIBaseURL    string
	ModelID          string
	ModelTemperature float64
	ModelMaxTokens   int

	// Search settings
	SearchNumResults int
	SearchTimeout    time.Duration

	// Context assembly budgets
	AssemblyMaxLength   int // total budget for the assembled context blob
	AssemblyMinFragment int // smallest partial block worth keeping on overflow
	PromptMaxLength     int // context truncation before prompt embedding

	// Outgoing-prompt history compression
	HistoryCharLimit  int // total message chars that trigger compression
	HistoryKeepRecent int // messages retained when compressing

	// Session settings
	SessionMaxTurns int

	// Fetch settings
	FetchTimeout     time.Duration
	FetchConcurrency int

	// Model call timeout
	LLMTimeout time.Duration

	// Page cache
	CacheDSN    string // empty disables the cache
	CacheMaxAge time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		SerperAPIKey:        getEnv("SERPER_API_KEY", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		ModelID:             getEnv("MODEL_ID", "gpt-3.5-turbo"),
		ModelTemperature:    getEnvFloat("MODEL_TEMPERATURE", 0.6),
		ModelMaxTokens:      getEnvInt("MODEL_MAX_TOKENS", 1000),
		SearchNumResults:    getEnvInt("SEARCH_NUM_RESULTS", 3),
		SearchTimeout:       time.Duration(getEnvInt("SEARCH_TIMEOUT_MS", 15000)) * time.Millisecond,
		AssemblyMaxLength:   getEnvInt("ASSEMBLY_MAX_LENGTH", 8000),
		AssemblyMinFragment: getEnvInt("ASSEMBLY_MIN_FRAGMENT", 1000),
		PromptMaxLength:     getEnvInt("PROMPT_MAX_LENGTH", 6000),
		HistoryCharLimit:    getEnvInt("HISTORY_CHAR_LIMIT", 16000),
		HistoryKeepRecent:   getEnvInt("HISTORY_KEEP_RECENT", 4),
		SessionMaxTurns:     getEnvInt("SESSION_MAX_TURNS", 10),
		FetchTimeout:        time.Duration(getEnvInt("FETCH_TIMEOUT_MS", 60000)) * time.Millisecond,
		FetchConcurrency:    getEnvInt("FETCH_CONCURRENCY", 3),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		CacheDSN:            getEnv("CACHE_DSN", "file:answerd.db?cache=shared&mode=rwc"),
		CacheMaxAge:         time.Duration(getEnvInt("CACHE_MAX_AGE_MS", 3600000)) * time.Millisecond,
	}
	return cfg
}

// MockMode reports whether mock collaborators were requested.
func MockMode() bool {
	return os.Getenv(EnvMode) == ModeMock
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
