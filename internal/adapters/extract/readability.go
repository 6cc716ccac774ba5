package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

// Readability извлекает полный текст статьи через go-readability.
type Readability struct {
	timeout time.Duration
}

// NewReadability создаёт экстрактор.
func NewReadability(timeout time.Duration) *Readability {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Readability{timeout: timeout}
}

var _ domain.Extractor = (*Readability)(nil)

// Extract загружает страницу и возвращает очищенный текст с метаданными.
func (r *Readability) Extract(ctx context.Context, url string) (domain.Extracted, error) {
	if strings.TrimSpace(url) == "" {
		return domain.Extracted{}, fmt.Errorf("extract: пустой URL")
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	start := time.Now()
	art, err := readability.FromURL(url, timeout)
	metrics.ObserveNetworkRequest("extract", "readability", start, err)
	if err != nil {
		return domain.Extracted{}, fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(art.TextContent) == "" {
		return domain.Extracted{}, fmt.Errorf("extract: не удалось получить текст статьи")
	}

	var authors []string
	if byline := strings.TrimSpace(art.Byline); byline != "" {
		authors = append(authors, byline)
	}

	return domain.Extracted{
		Title:    art.Title,
		Authors:  authors,
		TopImage: art.Image,
		Excerpt:  art.Excerpt,
		Text:     art.TextContent,
	}, nil
}
