package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/llm"
	"budgetbuddy/internal/llm/gemini"
)

func newTestGateway(serverURL string) *gemini.Gateway {
	cfg := &config.LLMConfig{
		Provider:    "gemini",
		APIKey:      "test-gemini-key",
		Model:       "gemini-2.0-flash",
		TimeoutSecs: 5,
		Temperature: 0.2,
	}
	return gemini.NewGatewayWithEndpoint(cfg, serverURL)
}

func geminiSuccessResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGateway_Complete_Success(t *testing.T) {
	modelText := `{"expense":{"amount":10.88,"description":"Sandwich at Subway"},"confidence":0.9}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		msg := contents[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		parts := msg["parts"].([]interface{})
		assert.Len(t, parts, 1)
		assert.Equal(t, "the prompt", parts[0].(map[string]interface{})["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])
		assert.Equal(t, 0.2, genConfig["temperature"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(modelText))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)

	text, err := g.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, modelText, text)
}

func TestGateway_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)

	text, err := g.Complete(context.Background(), "prompt")
	assert.Empty(t, text)
	require.Error(t, err)

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestGateway_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)

	_, err := g.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API error (status 500)")

	var rlErr *llm.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestGateway_Complete_LongErrorBodyKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("a", 499) + strings.Repeat("é", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)

	_, err := g.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.True(t, strings.HasSuffix(err.Error(), strings.Repeat("a", 499)+"..."))
}

func TestGateway_Complete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{},
		})
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response from API: no candidates")
}

func TestGateway_Complete_NoParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"role":  "model",
						"parts": []map[string]interface{}{},
					},
					"finishReason": "SAFETY",
				},
			},
		})
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parts")
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGateway_Complete_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling response")
}

func TestGateway_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestGateway(server.URL).Complete(ctx, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling gemini API")
}

func TestGateway_Complete_ConnectionRefused(t *testing.T) {
	_, err := newTestGateway("http://localhost:1").Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling gemini API")
}

func TestGateway_DefaultModel(t *testing.T) {
	g := gemini.NewGateway(&config.LLMConfig{APIKey: "k"})
	assert.Equal(t, "gemini-2.0-flash", g.Model())
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	c, err := gemini.Factory(&config.LLMConfig{Provider: "gemini"})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")

	c, err = gemini.Factory(&config.LLMConfig{Provider: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
