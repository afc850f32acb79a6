package llm

import (
	"fmt"
	"strings"

	"github.com/chmouel/lazycommit/internal/config"
)

// BuildPrompt assembles the prompt for one generation from the staged
// name-status listing. The listing format is one change per line,
// "M\tpath" with the letters A/M/D/R/C.
func BuildPrompt(listing, style string) Prompt {
	var sb strings.Builder
	sb.WriteString("You write git commit messages.\n")
	sb.WriteString("The user gives you the staged changes as a name-status listing, one file per line.\n")
	sb.WriteString("Status letters: A=added, M=modified, D=deleted, R=renamed, C=copied.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Reply with exactly one line: the commit message and nothing else.\n")
	sb.WriteString("- No quotes, no backticks, no code fences, no trailing period.\n")
	sb.WriteString("- Use the imperative mood (\"Add\", \"Fix\", \"Update\").\n")
	sb.WriteString("- Keep it under 72 characters when possible.\n")
	if style == config.StyleConventional {
		sb.WriteString("- Use the Conventional Commits form type(scope): description, ")
		sb.WriteString("with one of feat, fix, docs, refactor, test, chore.\n")
	}

	user := fmt.Sprintf("Staged changes:\n\n%s\n\nWrite the commit message.", listing)

	return Prompt{
		System: sb.String(),
		User:   user,
	}
}

// TruncateListing caps the listing at maxChars, cutting on a line
// boundary so the model never sees a half path. A non-positive maxChars
// disables truncation.
func TruncateListing(listing string, maxChars int) string {
	if maxChars <= 0 || len(listing) <= maxChars {
		return listing
	}

	cut := listing[:maxChars]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "\n[truncated]"
}
