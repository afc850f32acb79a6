package llm

import (
	"context"
	"errors"
)

// MockClient is a scripted Client. Each Complete call consumes the next
// response; once the script runs out the last response repeats. Calls
// counts every invocation, which lets tests assert that regeneration
// really hits the backend again.
type MockClient struct {
	Responses []string
	Err       error
	Calls     int
	Prompts   []Prompt
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", errors.New("mock: no scripted responses")
	}
	idx := m.Calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}
