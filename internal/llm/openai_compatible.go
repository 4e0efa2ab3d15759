package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompatible talks to any endpoint implementing the OpenAI chat
// completions API. DeepSeek and OpenAI differ only by base URL.
type OpenAICompatible struct {
	name   string
	client *openai.Client
}

// NewOpenAICompatible builds a client for baseURL. An empty baseURL keeps the
// go-openai default.
func NewOpenAICompatible(name, apiKey, baseURL string, timeout time.Duration) (*OpenAICompatible, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompatible{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
	}, nil
}

func (p *OpenAICompatible) Name() string {
	return p.name
}

// Answer sends prompt as a single user message.
func (p *OpenAICompatible) Answer(ctx context.Context, prompt string, params Params) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: requestTemperature(params.Temperature),
		MaxTokens:   params.MaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// requestTemperature keeps an explicit 0 on the wire: go-openai omits a zero
// temperature and the provider would apply its own default.
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
