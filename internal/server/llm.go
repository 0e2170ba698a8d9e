package server

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Completion is one chat completion request
type Completion struct {
	System   string
	User     string
	Sampling Sampling
}

// LLM answers a completion request with plain text
type LLM interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// ErrNoChoices is returned when the model answers with no choices
var ErrNoChoices = errors.New("llm returned no choices")

// OpenAILLM talks to any OpenAI-compatible chat completion API
// (OpenAI itself, or a local llama.cpp server with --api).
type OpenAILLM struct {
	client *openai.Client
	model  string
}

var _ LLM = (*OpenAILLM)(nil)

// NewOpenAILLM creates an LLM for baseURL. An empty baseURL uses OpenAI.
func NewOpenAILLM(baseURL, apiKey, model string) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAILLM{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends one completion and returns the first choice's content
func (l *OpenAILLM) Complete(ctx context.Context, c Completion) (string, error) {
	var messages []openai.ChatCompletionMessage
	if c.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: c.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: c.User})

	temperature := c.Sampling.Temperature
	if temperature == 0 {
		// the request omits a zero temperature, which servers read as their default
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            l.model,
		Messages:         messages,
		Temperature:      temperature,
		TopP:             c.Sampling.TopP,
		MaxTokens:        c.Sampling.MaxTokens,
		FrequencyPenalty: c.Sampling.FrequencyPenalty,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// MockLLM is a test double recording every completion
type MockLLM struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls []Completion
}

var _ LLM = (*MockLLM)(nil)

// Complete records c and returns the canned response or error
func (m *MockLLM) Complete(ctx context.Context, c Completion) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Calls returns a copy of the recorded completions
func (m *MockLLM) Calls() []Completion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Completion, len(m.calls))
	copy(out, m.calls)
	return out
}
