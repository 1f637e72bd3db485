package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "schedule a meeting"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestMockProviderError(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Err = errors.New("upstream down")

	_, err := mock.Complete(context.Background(), CompletionRequest{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRateLimitedProviderPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	limited := NewRateLimitedProvider(mock, 60)

	if limited.Name() != "test" {
		t.Errorf("expected wrapped name 'test', got %q", limited.Name())
	}

	resp, err := limited.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestRateLimitedProviderBlocksWhenExhausted(t *testing.T) {
	mock := NewMockProvider("test")
	limited := NewRateLimitedProvider(mock, 1)

	if _, err := limited.Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Second call finds the bucket empty; a canceled context must unblock it.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := limited.Complete(ctx, CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 upstream call, got %d", mock.CallCount())
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("bard", "m"); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
