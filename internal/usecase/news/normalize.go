package news

import (
	"strings"
	"time"

	"newshunt-bot/internal/domain"
)

// Порядок имеет значение: первым идёт формат NewsAPI, затем форматы RSS.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"02 Jan 2006 15:04:05",
	"January 2, 2006 15:04:05",
}

// ParseDate пытается разобрать дату по известным форматам.
// При неудаче возвращает нулевое время и false, исходная строка сохраняется
// вызывающим в PublishedRaw.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FromHeadline приводит сырую статью NewsAPI к каноничной форме.
func FromHeadline(raw domain.RawHeadline) domain.Article {
	art := domain.Article{
		Title:       strings.TrimSpace(raw.Title),
		URL:         strings.TrimSpace(raw.URL),
		Description: strings.TrimSpace(raw.Description),
		SourceName:  strings.TrimSpace(raw.SourceName),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
	}
	fillDate(&art, raw.PublishedAt)
	return art
}

// FromFeedItem приводит запись RSS-ленты к каноничной форме.
func FromFeedItem(raw domain.RawFeedItem) domain.Article {
	summary := strings.TrimSpace(raw.Summary)
	art := domain.Article{
		Title:       strings.TrimSpace(raw.Title),
		URL:         strings.TrimSpace(raw.Link),
		Description: summary,
		RawSummary:  summary,
		SourceName:  strings.TrimSpace(raw.Source),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
	}
	fillDate(&art, raw.Published)
	return art
}

// FromSearch приводит результат поиска к каноничной форме.
// NewsAPI отдаёт поиск в той же схеме, что и заголовки.
func FromSearch(raw domain.RawHeadline) domain.Article {
	return FromHeadline(raw)
}

func fillDate(art *domain.Article, raw string) {
	if ts, ok := ParseDate(raw); ok {
		art.PublishedAt = ts
		return
	}
	art.PublishedRaw = strings.TrimSpace(raw)
}

// NormalizeHeadlines конвертирует список, отбрасывая записи без заголовка и URL.
func NormalizeHeadlines(raws []domain.RawHeadline) []domain.Article {
	out := make([]domain.Article, 0, len(raws))
	for _, raw := range raws {
		if art := FromHeadline(raw); art.Valid() {
			out = append(out, art)
		}
	}
	return out
}

// NormalizeFeedItems конвертирует записи ленты, отбрасывая неполные.
func NormalizeFeedItems(raws []domain.RawFeedItem) []domain.Article {
	out := make([]domain.Article, 0, len(raws))
	for _, raw := range raws {
		if art := FromFeedItem(raw); art.Valid() {
			out = append(out, art)
		}
	}
	return out
}

// FilterBreaking оставляет статьи с подстрокой "breaking" в заголовке или
// описании. Эвристика намеренно приблизительная: провайдер не размечает
// срочные новости. Если совпадений нет, возвращается одна самая свежая статья.
func FilterBreaking(articles []domain.Article) []domain.Article {
	matched := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		combined := strings.ToLower(art.Title + " " + art.Description)
		if strings.Contains(combined, "breaking") {
			matched = append(matched, art)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	if len(articles) == 0 {
		return nil
	}
	freshest := articles[0]
	for _, art := range articles[1:] {
		if art.PublishedAt.After(freshest.PublishedAt) {
			freshest = art
		}
	}
	return []domain.Article{freshest}
}
