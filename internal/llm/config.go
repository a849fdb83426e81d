package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskDailyReport   TaskType = "daily_report"
	TaskMeetingReport TaskType = "meeting_report"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig for Gemini without an API key.
// Failed calls are not retried unless MaxRetries is raised.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderGemini,
		LogCalls:   false,
		Endpoint:   DefaultGeminiEndpoint,
		Model:      "gemini-2.0-flash",
		TimeoutMs:  60000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskDailyReport:   {Temperature: 0.3, MaxTokens: 2048},
			TaskMeetingReport: {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 120000},
		},
	}
}

// DefaultEndpoint returns the conventional endpoint for p.
func DefaultEndpoint(p Provider) string {
	if p == ProviderOllama {
		return DefaultOllamaEndpoint
	}
	return DefaultGeminiEndpoint
}

// ApplyEnv overrides cfg from NIPPO_LLM_* environment variables.
// Malformed numeric values are ignored.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("NIPPO_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(v)
	}
	if v := os.Getenv("NIPPO_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("NIPPO_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("NIPPO_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("NIPPO_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("NIPPO_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("NIPPO_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskDailyReport, "NIPPO_LLM_DAILY_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskMeetingReport, "NIPPO_LLM_MEETING_TIMEOUT_MS")
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = map[TaskType]TaskConfig{}
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
