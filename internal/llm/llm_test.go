package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chmouel/lazycommit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	listing := "M\tfoo.py\nA\tbar.py"

	t.Run("plain style", func(t *testing.T) {
		prompt := BuildPrompt(listing, config.StylePlain)

		assert.Contains(t, prompt.System, "exactly one line")
		assert.Contains(t, prompt.System, "imperative mood")
		assert.NotContains(t, prompt.System, "Conventional Commits")
		assert.Contains(t, prompt.User, listing)
	})

	t.Run("conventional style", func(t *testing.T) {
		prompt := BuildPrompt(listing, config.StyleConventional)

		assert.Contains(t, prompt.System, "Conventional Commits")
		assert.Contains(t, prompt.System, "type(scope)")
	})
}

func TestTruncateListing(t *testing.T) {
	t.Run("below limit unchanged", func(t *testing.T) {
		listing := "M\tfoo.py\nA\tbar.py"
		assert.Equal(t, listing, TruncateListing(listing, 1000))
	})

	t.Run("zero limit disables truncation", func(t *testing.T) {
		listing := strings.Repeat("M\tsome/long/path.go\n", 100)
		assert.Equal(t, listing, TruncateListing(listing, 0))
	})

	t.Run("cuts on a line boundary", func(t *testing.T) {
		listing := "M\tfirst.go\nM\tsecond.go\nM\tthird.go"
		got := TruncateListing(listing, 15)

		assert.Equal(t, "M\tfirst.go\n[truncated]", got)
	})

	t.Run("truncated marker appended", func(t *testing.T) {
		listing := strings.Repeat("M\tpath.go\n", 50)
		got := TruncateListing(listing, 100)

		assert.Less(t, len(got), len(listing))
		assert.True(t, strings.HasSuffix(got, "[truncated]"))
	})
}

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain single line",
			raw:      "Update foo and add bar",
			expected: "Update foo and add bar",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  Fix config parsing \n",
			expected: "Fix config parsing",
		},
		{
			name:     "multiline keeps first line",
			raw:      "Add user endpoint\n\nThis adds the /users route.",
			expected: "Add user endpoint",
		},
		{
			name:     "code fence stripped",
			raw:      "```\nRefactor the parser\n```",
			expected: "Refactor the parser",
		},
		{
			name:     "quotes stripped",
			raw:      "\"Remove dead code\"",
			expected: "Remove dead code",
		},
		{
			name:    "empty output",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   \n\t\n",
			wantErr: true,
		},
		{
			name:    "fences only",
			raw:     "```\n```",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMessage(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewOpenAIClient(t *testing.T) {
	t.Run("missing model", func(t *testing.T) {
		_, err := NewOpenAIClient(Settings{APIKey: "key"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := NewOpenAIClient(Settings{Model: "qwen2.5-coder"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})

	t.Run("valid settings", func(t *testing.T) {
		client, err := NewOpenAIClient(Settings{
			Model:   "qwen2.5-coder",
			APIKey:  "ollama",
			BaseURL: "http://localhost:11434/v1",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "qwen2.5-coder", client.model)
		assert.Len(t, client.opts, 2)
	})
}

func TestMockClient(t *testing.T) {
	ctx := context.Background()

	t.Run("responses consumed in order", func(t *testing.T) {
		mock := &MockClient{Responses: []string{"first draft", "second draft"}}

		got, err := mock.Complete(ctx, Prompt{})
		require.NoError(t, err)
		assert.Equal(t, "first draft", got)

		got, err = mock.Complete(ctx, Prompt{})
		require.NoError(t, err)
		assert.Equal(t, "second draft", got)

		assert.Equal(t, 2, mock.Calls)
	})

	t.Run("last response repeats", func(t *testing.T) {
		mock := &MockClient{Responses: []string{"only draft"}}

		for range 3 {
			got, err := mock.Complete(ctx, Prompt{})
			require.NoError(t, err)
			assert.Equal(t, "only draft", got)
		}
		assert.Equal(t, 3, mock.Calls)
	})

	t.Run("scripted error", func(t *testing.T) {
		mock := &MockClient{Err: errors.New("backend down")}

		_, err := mock.Complete(ctx, Prompt{})
		require.Error(t, err)
		assert.Equal(t, 1, mock.Calls)
	})

	t.Run("no responses", func(t *testing.T) {
		mock := &MockClient{}

		_, err := mock.Complete(ctx, Prompt{})
		require.Error(t, err)
	})
}
