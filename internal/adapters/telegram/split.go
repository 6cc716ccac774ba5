package telegram

import "strings"

// Telegram limits: message text and media caption.
const (
	MessageLimit = 4096
	CaptionLimit = 1024
)

// SplitMessage breaks the text into message-sized chunks.
func SplitMessage(text string) []string {
	return SplitText(text, MessageLimit)
}

// SplitText breaks the text into chunks of at most limit runes.
// It prefers to split on newline boundaries so formatted blocks stay intact.
func SplitText(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= limit {
		return []string{trimmed}
	}

	var parts []string
	for start := 0; start < len(runes); {
		end := start + limit
		if end >= len(runes) {
			if chunk := strings.Trim(string(runes[start:]), "\n"); chunk != "" {
				parts = append(parts, chunk)
			}
			break
		}

		split := -1
		for i := end; i > start; i-- {
			if runes[i-1] == '\n' {
				split = i
				break
			}
		}
		if split == -1 {
			split = end
		}

		if chunk := strings.Trim(string(runes[start:split]), "\n"); chunk != "" {
			parts = append(parts, chunk)
		}

		start = split
		for start < len(runes) && runes[start] == '\n' {
			start++
		}
	}

	if len(parts) == 0 {
		return []string{trimmed}
	}
	return parts
}

// Clip trims the text to the caption limit, appending an ellipsis.
func Clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
