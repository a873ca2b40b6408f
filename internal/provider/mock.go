package provider

import (
	"context"
	"fmt"
	"sync"
)

func init() {
	Register("mock", func(Settings) (Provider, error) { return &Mock{}, nil },
		Defaults{Model: "mock", TokenLimit: 1 << 20})
}

// Mock is a canned backend for tests and offline dry runs. It cycles
// through Responses, records every request, and can fail the first
// FailTimes calls with FailWith.
type Mock struct {
	mu        sync.Mutex
	Responses []string
	Calls     []Request
	FailTimes int
	FailWith  error
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.FailTimes > 0 {
		m.FailTimes--
		err := m.FailWith
		if err == nil {
			err = fmt.Errorf("%w: mock: injected failure", ErrUnavailable)
		}
		return nil, err
	}

	n := req.N
	if n <= 0 {
		n = 1
	}
	var candidates []string
	for i := 0; i < n; i++ {
		candidates = append(candidates, m.nextLocked(len(m.Calls)-1, i))
	}
	return &Response{Candidates: candidates, Model: "mock"}, nil
}

// CallCount returns how many completions were requested.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request.
func (m *Mock) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

func (m *Mock) nextLocked(call, i int) string {
	if len(m.Responses) == 0 {
		return fmt.Sprintf("Update project files (draft %d)", call+i+1)
	}
	return m.Responses[(call+i)%len(m.Responses)]
}
