package advisor

import (
	"context"
	"sync"
)

// MockAdvisor is a test double for Advisor: a deterministic fake
// implementing the real interface, the same pattern as the teacher's
// graph/tool/mock.go and graph/model/mock.go.
type MockAdvisor struct {
	// Response is returned by every call to Explain, unless Err is set.
	Response string
	// Err, if set, is returned instead of Response.
	Err error

	mu    sync.Mutex
	Calls []Summary
}

func (m *MockAdvisor) Explain(ctx context.Context, summary Summary) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, summary)

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount reports how many times Explain has been called.
func (m *MockAdvisor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
