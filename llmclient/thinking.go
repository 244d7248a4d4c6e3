package llmclient

import (
	"regexp"
	"strings"
)

const thinkingTagEnd = "</think>"

var thinkingRegex = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// stripThinking removes <think>...</think> reasoning blocks that some
// Ollama-served models (deepseek-r1 and similar) prepend to chat
// completions. Handles both well-formed tag pairs and a truncated response
// that starts mid-thought with no opening tag.
func stripThinking(content string) string {
	if matches := thinkingRegex.FindAllString(content, -1); len(matches) > 0 {
		return strings.TrimSpace(thinkingRegex.ReplaceAllString(content, ""))
	}
	if strings.Contains(content, thinkingTagEnd) {
		parts := strings.SplitN(content, thinkingTagEnd, 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return content
}
