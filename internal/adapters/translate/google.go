package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

const defaultBaseURL = "https://translate.googleapis.com"

// Google переводит текст через публичный endpoint Google Translate.
// Перевод всегда best-effort: при любой ошибке возвращается исходный текст.
type Google struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewGoogle создаёт переводчик.
func NewGoogle(baseURL string, timeout time.Duration, log zerolog.Logger) *Google {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Google{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

var _ domain.Translator = (*Google)(nil)

// Translate переводит текст на язык назначения.
func (g *Google) Translate(ctx context.Context, text, dest string) string {
	if strings.TrimSpace(text) == "" || dest == "" || dest == "en" && looksEnglish(text) {
		return text
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", dest)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return text
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	metrics.ObserveNetworkRequest("translate", "translate", start, err)
	if err != nil {
		g.log.Debug().Err(err).Str("dest", dest).Msg("перевод недоступен, возвращаем оригинал")
		return text
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		g.log.Debug().Int("status", resp.StatusCode).Msg("перевод отклонён, возвращаем оригинал")
		return text
	}

	// Ответ — вложенные массивы: [[["перевод","оригинал",...],...],...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) == 0 {
		return text
	}
	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return text
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return text
	}
	return b.String()
}

// looksEnglish — грубая проверка, что текст уже латиницей.
func looksEnglish(text string) bool {
	for _, r := range text {
		if r > 0x024F {
			return false
		}
	}
	return true
}
