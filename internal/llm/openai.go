package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/chmouel/lazycommit/internal/log"
)

// OpenAIClient implements Client using the official openai-go SDK (chat
// completions). It works against any OpenAI-compatible endpoint, which
// includes local Ollama and llama.cpp servers.
type OpenAIClient struct {
	model  string
	opts   []option.RequestOption
	logger *log.DebugLogger
}

// NewOpenAIClient validates the settings and builds a client. The logger
// may be nil.
func NewOpenAIClient(settings Settings, logger *log.DebugLogger) (*OpenAIClient, error) {
	if settings.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if settings.APIKey == "" {
		return nil, errors.New("api key missing; set api_key in the config file or OPENAI_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return &OpenAIClient{model: settings.Model, opts: opts, logger: logger}, nil
}

var _ Client = (*OpenAIClient)(nil)

// Complete sends the prompt and returns the raw model output.
func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(c.opts...)

	c.logger.Printf("llm: requesting completion (model=%s, user prompt %d chars)", c.model, len(prompt.User))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	})
	if err != nil {
		c.logger.Printf("llm: completion failed: %v", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Printf("llm: completion received (%d chars)", len(content))
	return content, nil
}
