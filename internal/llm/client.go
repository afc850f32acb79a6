// Package llm turns staged-change listings into commit message drafts
// through an OpenAI-compatible chat completions API.
package llm

import "context"

// Prompt is the message pair sent to the model. Each generation sends a
// fresh prompt; there is no conversation history to carry between calls.
type Prompt struct {
	System string
	User   string
}

// Client abstracts the model backend so tests can swap in a scripted one.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings carries the connection parameters for a concrete backend.
type Settings struct {
	Model   string
	APIKey  string
	BaseURL string
}
