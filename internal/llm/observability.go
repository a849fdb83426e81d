package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent describes one Generate call after all retries.
type LLMCallEvent struct {
	Task        TaskType
	Provider    Provider
	Model       string
	PromptChars int
	Attempts    int
	LatencyMs   int64
	Success     bool
	ErrorCode   string
}

// Observer is notified once per Generate call.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(event LLMCallEvent)

func (f ObserverFunc) OnCallComplete(event LLMCallEvent) { f(event) }

// SlogObserver logs an "llm_call" record per call, at warn level on failure.
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("provider", string(event.Provider)),
		slog.String("model", event.Model),
		slog.Int("prompt_chars", event.PromptChars),
		slog.Int("attempts", event.Attempts),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error_code", event.ErrorCode))
	}
	o.logger.LogAttrs(context.Background(), level, "llm_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
