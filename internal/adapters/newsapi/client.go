package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Client выполняет запросы к NewsAPI.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient создаёт клиента NewsAPI.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

var _ domain.HeadlineSource = (*Client)(nil)

type apiSource struct {
	Name string `json:"name"`
}

type apiArticle struct {
	Source      apiSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
}

type apiResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []apiArticle `json:"articles"`
}

// TopHeadlines возвращает главные заголовки страны.
func (c *Client) TopHeadlines(ctx context.Context, country string) ([]domain.RawHeadline, error) {
	q := url.Values{}
	q.Set("country", country)
	return c.fetch(ctx, "top_headlines", "/top-headlines", q)
}

// ByCategory возвращает новости категории.
func (c *Client) ByCategory(ctx context.Context, category string) ([]domain.RawHeadline, error) {
	q := url.Values{}
	q.Set("category", strings.ToLower(category))
	return c.fetch(ctx, "category", "/top-headlines", q)
}

// ByQuery ищет новости по запросу.
func (c *Client) ByQuery(ctx context.Context, query string) ([]domain.RawHeadline, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sortBy", "relevancy")
	return c.fetch(ctx, "query", "/everything", q)
}

// Trending возвращает общемировые заголовки.
func (c *Client) Trending(ctx context.Context) ([]domain.RawHeadline, error) {
	return c.fetch(ctx, "trending", "/top-headlines", url.Values{})
}

func (c *Client) fetch(ctx context.Context, operation, path string, q url.Values) ([]domain.RawHeadline, error) {
	q.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: запрос: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveNetworkRequest("newsapi", operation, start, err)
	if err != nil {
		return nil, fmt.Errorf("newsapi: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("newsapi: декодирование ответа: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi: %s: %s", operation, payload.Message)
	}

	out := make([]domain.RawHeadline, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		out = append(out, domain.RawHeadline{
			SourceName:  a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}
