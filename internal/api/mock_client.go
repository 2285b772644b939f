package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thedracle/openai-chat/internal/models"
)

// ErrMockReleased is returned by a hung mock call once Release is called
var ErrMockReleased = errors.New("mock: hung call released")

// MockResponse scripts the outcome of one Complete call
type MockResponse struct {
	Reply *models.Reply
	Err   error
	// Delay waits before answering; the wait stops early when ctx is done
	Delay time.Duration
	// Hang ignores ctx and blocks until Release is called
	Hang bool
	// Panic, when non-nil, makes the call panic with this value
	Panic any
}

// MockCall records the arguments of one Complete call
type MockCall struct {
	Model   string
	History []models.Message
}

// MockCompleter is a scripted Completer for testing
type MockCompleter struct {
	// Default is used once the scripted responses run out
	Default MockResponse

	mu          sync.Mutex
	responses   []MockResponse
	calls       []MockCall
	inFlight    int
	maxInFlight int
	release     chan struct{}
	releaseOnce sync.Once
	started     chan struct{}
}

// Ensure MockCompleter implements Completer
var _ Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock answering with responses in order
func NewMockCompleter(responses ...MockResponse) *MockCompleter {
	return &MockCompleter{
		responses: responses,
		release:   make(chan struct{}),
		started:   make(chan struct{}, 64),
	}
}

// ReplyText returns a successful response with a single assistant choice
func ReplyText(content string) MockResponse {
	return MockResponse{Reply: &models.Reply{
		Choices: []models.Message{models.AssistantMessage(content)},
	}}
}

// Enqueue appends scripted responses
func (m *MockCompleter) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Complete implements Completer
func (m *MockCompleter) Complete(ctx context.Context, model string, history []models.Message) (*models.Reply, error) {
	m.mu.Lock()
	snapshot := make([]models.Message, len(history))
	copy(snapshot, history)
	m.calls = append(m.calls, MockCall{Model: model, History: snapshot})

	resp := m.Default
	if len(m.responses) > 0 {
		resp = m.responses[0]
		m.responses = m.responses[1:]
	}

	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	release := m.release
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	select {
	case m.started <- struct{}{}:
	default:
	}

	if resp.Panic != nil {
		panic(resp.Panic)
	}

	if resp.Hang {
		<-release
		return nil, ErrMockReleased
	}

	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return resp.Reply, resp.Err
}

// Release unblocks every hung call
func (m *MockCompleter) Release() {
	m.releaseOnce.Do(func() {
		close(m.release)
	})
}

// Started returns a channel receiving one value per call that began
func (m *MockCompleter) Started() <-chan struct{} {
	return m.started
}

// Calls returns the recorded calls
func (m *MockCompleter) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Complete calls
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MaxInFlight returns the highest number of concurrent Complete calls seen
func (m *MockCompleter) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}
