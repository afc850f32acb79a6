package llm

import (
	"errors"
	"strings"
)

// ExtractMessage reduces raw model output to the single-line commit
// message. Models tend to wrap answers in fences or quotes despite
// instructions, so both are stripped before taking the first non-empty
// line.
func ExtractMessage(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", errors.New("model returned an empty message")
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.Trim(line, "\"'`")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return line, nil
	}

	return "", errors.New("model returned an empty message")
}
