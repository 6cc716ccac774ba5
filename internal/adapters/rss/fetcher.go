package rss

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

const feedSourceName = "Google News"

// Fetcher выгружает региональные новости из RSS Google News.
type Fetcher struct {
	parser  *gofeed.Parser
	limiter *Limiter
	timeout time.Duration
}

// NewFetcher создаёт RSS-фетчер с ограничителем запросов.
func NewFetcher(limiter *Limiter, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		parser:  gofeed.NewParser(),
		limiter: limiter,
		timeout: timeout,
	}
}

var _ domain.FeedSource = (*Fetcher)(nil)

// FeedURL строит адрес ленты по месту и предпочтениям пользователя.
func FeedURL(place, language, country string) string {
	cc := strings.ToUpper(country)
	q := url.Values{}
	q.Set("q", place+" news")
	q.Set("hl", language)
	q.Set("gl", cc)
	q.Set("ceid", cc+":"+language)
	return "https://news.google.com/rss/search?" + q.Encode()
}

// LocalNews возвращает записи ленты для указанного места.
func (f *Fetcher) LocalNews(ctx context.Context, place, language, country string) ([]domain.RawFeedItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rss: ожидание лимита: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	feed, err := f.parser.ParseURLWithContext(FeedURL(place, language, country), ctx)
	metrics.ObserveNetworkRequest("rss", "local_news", start, err)
	if err != nil {
		return nil, fmt.Errorf("rss: загрузка ленты: %w", err)
	}

	items := make([]domain.RawFeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		raw := domain.RawFeedItem{
			Title:     item.Title,
			Link:      item.Link,
			Summary:   item.Description,
			Published: item.Published,
			Source:    feedSourceName,
		}
		if item.Image != nil {
			raw.ImageURL = item.Image.URL
		}
		items = append(items, raw)
	}
	return items, nil
}
