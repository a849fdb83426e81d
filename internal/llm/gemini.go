package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// geminiClient implements LLMClient using the Gemini generateContent API.
type geminiClient struct {
	caller
}

// NewGeminiClient creates an LLMClient for the Gemini API. A missing API key
// is reported by Generate as ErrMissingAPIKey.
func NewGeminiClient(cfg LLMConfig, observer Observer) LLMClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	return &geminiClient{caller: newCaller(cfg, observer)}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiRequest is the JSON body sent to POST /v1beta/models/{model}:generateContent.
type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.generate(ctx, c, req)
}

func (c *geminiClient) provider() Provider { return ProviderGemini }

func (c *geminiClient) send(ctx context.Context, p callParams) (string, string, error) {
	if c.cfg.APIKey == "" {
		return "", "", ErrMissingAPIKey
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: p.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.Temperature,
			MaxOutputTokens: p.MaxTokens,
		},
	}
	if p.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.System}}}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(p.Model), bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	respBody, err := c.post(httpReq, ProviderGemini)
	if err != nil {
		return "", "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", "", ErrEmptyOutput
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	model := resp.ModelVersion
	if model == "" {
		model = p.Model
	}
	return text.String(), model, nil
}

func (c *geminiClient) modelURL(model string) string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + "/v1beta/models/" + url.PathEscape(model) + ":generateContent"
}

// Available reports whether an API key is configured and the model list is reachable.
func (c *geminiClient) Available(ctx context.Context) bool {
	if c.cfg.APIKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.Endpoint, "/")+"/v1beta/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
