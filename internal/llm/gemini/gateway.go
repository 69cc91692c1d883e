package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/llm"
	"budgetbuddy/internal/port"
)

const (
	apiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 15 * time.Second
	providerName   = "gemini"
)

// Gateway implements port.Completer using Google's Gemini generateContent API.
type Gateway struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	client      *http.Client
}

// NewGateway creates a Gemini gateway. cfg.Endpoint overrides the public API URL when set.
func NewGateway(cfg *config.LLMConfig) *Gateway {
	return newGateway(cfg, cfg.Endpoint)
}

// NewGatewayWithEndpoint creates a gateway pointing at a custom API endpoint (for testing).
func NewGatewayWithEndpoint(cfg *config.LLMConfig, endpoint string) *Gateway {
	return newGateway(cfg, endpoint)
}

// Factory adapts NewGateway to llm.ProviderFactory.
func Factory(cfg *config.LLMConfig) (port.Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is not configured")
	}
	return NewGateway(cfg), nil
}

func newGateway(cfg *config.LLMConfig, endpoint string) *Gateway {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Gateway{
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// Model returns the model name requests are sent to.
func (g *Gateway) Model() string {
	return g.model
}

// Complete sends prompt as a single user message and returns the text of the
// first candidate. A client timeout surfaces as an error like any other
// transport failure.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      g.temperature,
			"maxOutputTokens":  1024,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		retryAfter := llm.RetryAfterFromHeader(resp.Header.Get("Retry-After"), time.Now())
		return "", llm.NewRateLimitError(providerName, retryAfter, baseErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return firstCandidateText(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func firstCandidateText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts (finish reason %q)", resp.Candidates[0].FinishReason)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
