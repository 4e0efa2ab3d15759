package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeCompletionServer(t *testing.T, answer string, captured *capturedRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		*auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"deepseek-chat",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  ` + answer + `  "},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFactory_DeepSeekUsesStoredKeyAndParams(t *testing.T) {
	var captured capturedRequest
	var auth string
	srv := fakeCompletionServer(t, "Loops repetem código.", &captured, &auth)

	factory := NewFactory(config.AIConfig{DeepSeekAPIKey: "env-key", DeepSeekBaseURL: srv.URL, RequestTimeout: time.Second})
	provider, err := factory.New(&models.AIConfiguration{Provider: models.ProviderDeepSeek, APIKey: "stored-key"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", provider.Name())

	answer, err := provider.Answer(context.Background(), "prompt completo", Params{Model: "deepseek-chat", Temperature: 0.5, MaxTokens: 300})
	require.NoError(t, err)

	assert.Equal(t, "Loops repetem código.", answer)
	assert.Equal(t, "Bearer stored-key", auth)
	assert.Equal(t, "deepseek-chat", captured.Model)
	assert.InDelta(t, 0.5, captured.Temperature, 1e-6)
	assert.Equal(t, 300, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "prompt completo", captured.Messages[0].Content)
}

func TestFactory_OpenAIFallsBackToEnvironmentKey(t *testing.T) {
	var captured capturedRequest
	var auth string
	srv := fakeCompletionServer(t, "ok", &captured, &auth)

	factory := NewFactory(config.AIConfig{OpenAIAPIKey: "env-openai", OpenAIBaseURL: srv.URL})
	provider, err := factory.New(&models.AIConfiguration{Provider: models.ProviderOpenAI})
	require.NoError(t, err)

	_, err = provider.Answer(context.Background(), "p", Params{Model: "gpt-4"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer env-openai", auth)
}

func TestFactory_Errors(t *testing.T) {
	factory := NewFactory(config.AIConfig{})

	_, err := factory.New(&models.AIConfiguration{Provider: models.ProviderDeepSeek})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = factory.New(&models.AIConfiguration{Provider: "anthropic", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestOpenAICompatible_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
	}))
	defer srv.Close()

	provider, err := NewOpenAICompatible("deepseek", "bad", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = provider.Answer(context.Background(), "p", Params{Model: "deepseek-chat"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepseek chat completion")
}

func TestOpenAICompatible_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	provider, err := NewOpenAICompatible("openai", "k", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = provider.Answer(context.Background(), "p", Params{Model: "gpt-4"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAICompatible_ZeroTemperatureIsSent(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	provider, err := NewOpenAICompatible("deepseek", "k", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = provider.Answer(context.Background(), "p", Params{Model: "deepseek-chat", Temperature: 0, MaxTokens: 10})
	require.NoError(t, err)

	require.Contains(t, body, "temperature")
	assert.InDelta(t, 0, body["temperature"], 1e-6)
	assert.EqualValues(t, 10, body["max_tokens"])
}

func TestRequestTemperature(t *testing.T) {
	assert.Greater(t, requestTemperature(0), float32(0))
	assert.InDelta(t, 0.7, requestTemperature(0.7), 1e-6)
}
