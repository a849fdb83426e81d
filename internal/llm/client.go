package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	Model        string // empty uses the configured model
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model endpoint is reachable and usable.
	Available(ctx context.Context) bool
}

// NewClient returns the client for cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg, observer), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want gemini or ollama)", cfg.Provider)
	}
}

// callParams are the resolved per-call settings handed to a backend.
type callParams struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// backend performs one HTTP round trip against a provider.
type backend interface {
	provider() Provider
	send(ctx context.Context, p callParams) (text, model string, err error)
}

// caller owns the retry loop, timeout and observation shared by all providers.
type caller struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

func newCaller(cfg LLMConfig, observer Observer) caller {
	if observer == nil {
		observer = NoopObserver{}
	}
	return caller{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c caller) generate(ctx context.Context, b backend, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	params := callParams{
		Model:       req.Model,
		System:      req.SystemPrompt,
		Prompt:      req.UserPrompt,
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
	}
	if params.Model == "" {
		params.Model = c.cfg.Model
	}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		params.MaxTokens = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	event := LLMCallEvent{
		Task:        req.Task,
		Provider:    b.provider(),
		Model:       params.Model,
		PromptChars: len(params.System) + len(params.Prompt),
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		event.Attempts = i + 1
		text, model, err := b.send(ctx, params)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyOutput
		}
		if err == nil {
			event.LatencyMs = time.Since(start).Milliseconds()
			event.Success = true
			c.observer.OnCallComplete(event)
			if model == "" {
				model = params.Model
			}
			return &GenerateResponse{
				Text:      text,
				Model:     model,
				LatencyMs: event.LatencyMs,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or configuration errors
		if ctx.Err() != nil || errors.Is(err, ErrMissingAPIKey) {
			break
		}
	}

	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(ctx, lastErr)
	c.observer.OnCallComplete(event)

	switch {
	case errors.Is(lastErr, ErrMissingAPIKey):
		return nil, lastErr
	case ctx.Err() != nil:
		return nil, ErrTimeout
	case isConnectionError(lastErr):
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
	case attempts == 1:
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
}

// post sends a JSON request and returns the body of a 200 response.
func (c caller) post(httpReq *http.Request, p Provider) ([]byte, error) {
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: p, Status: httpResp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func errorCode(ctx context.Context, err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "MISSING_API_KEY"
	case ctx.Err() != nil, errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case isConnectionError(err):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyOutput):
		return "EMPTY_OUTPUT"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.Status)
	default:
		return "UNKNOWN"
	}
}
