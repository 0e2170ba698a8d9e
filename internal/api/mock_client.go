package api

import (
	"context"
	"sync"
)

// PostCall records a single call to MockChatClient.Post
type PostCall struct {
	EndpointURL string
	Message     string
}

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values, used when PostFunc is nil
	Response string
	Err      error

	// PostFunc overrides the canned response when set
	PostFunc func(ctx context.Context, endpointURL, message string) (string, error)

	mu    sync.Mutex
	calls []PostCall
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

// NewMockChatClient returns a mock that always answers with response
func NewMockChatClient(response string) *MockChatClient {
	return &MockChatClient{Response: response}
}

// NewMockChatClientWithError returns a mock that always fails with err
func NewMockChatClientWithError(err error) *MockChatClient {
	return &MockChatClient{Err: err}
}

func (m *MockChatClient) Post(ctx context.Context, endpointURL, message string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, PostCall{EndpointURL: endpointURL, Message: message})
	fn := m.PostFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, endpointURL, message)
	}
	return m.Response, m.Err
}

// Calls returns the recorded calls in order
func (m *MockChatClient) Calls() []PostCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]PostCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Post was called
func (m *MockChatClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
