package news

import (
	"testing"
	"time"

	"newshunt-bot/internal/domain"
)

func TestNormalizeDropsIncomplete(t *testing.T) {
	raws := []domain.RawHeadline{
		{Title: "Первая", URL: "https://example.com/1"},
		{Title: "Вторая", URL: "https://example.com/2"},
		{Description: "без заголовка и ссылки"},
		{Title: "Третья", URL: "https://example.com/3"},
		{Title: "Четвёртая", URL: "https://example.com/4"},
	}
	got := NormalizeHeadlines(raws)
	if len(got) != 4 {
		t.Fatalf("ожидали 4 статьи после отбрасывания, получили %d", len(got))
	}
}

func TestNormalizeTrimsAndDefaults(t *testing.T) {
	art := FromHeadline(domain.RawHeadline{
		Title: "  Заголовок  ",
		URL:   " https://example.com/1 ",
	})
	if art.Title != "Заголовок" || art.URL != "https://example.com/1" {
		t.Fatalf("ожидали обрезку пробелов: %+v", art)
	}
	if art.Description != "" || art.SourceName != "" {
		t.Fatal("отсутствующие поля должны быть пустыми строками")
	}
}

func TestParseDateFallsBackToRaw(t *testing.T) {
	art := FromHeadline(domain.RawHeadline{
		Title:       "Статья",
		URL:         "https://example.com/1",
		PublishedAt: "вчера вечером",
	})
	if !art.PublishedAt.IsZero() {
		t.Fatal("нераспознанная дата должна остаться нулевой")
	}
	if art.PublishedRaw != "вчера вечером" {
		t.Fatalf("исходная строка должна сохраниться: %q", art.PublishedRaw)
	}
}

func TestParseDateKnownFormats(t *testing.T) {
	cases := []string{
		"2025-06-01T10:00:00Z",
		"Sun, 01 Jun 2025 10:00:00 +0000",
		"2025-06-01 10:00:00",
	}
	for _, raw := range cases {
		if _, ok := ParseDate(raw); !ok {
			t.Fatalf("формат должен распознаваться: %q", raw)
		}
	}
}

func TestFromFeedItemKeepsRawSummary(t *testing.T) {
	art := FromFeedItem(domain.RawFeedItem{
		Title:   "Местные новости",
		Link:    "https://news.example.com/1",
		Summary: "краткое содержание",
		Source:  "Google News",
	})
	if art.RawSummary != "краткое содержание" {
		t.Fatalf("RSS-статья должна сохранять исходное summary: %+v", art)
	}
	if art.SourceName != "Google News" {
		t.Fatalf("неверный источник: %q", art.SourceName)
	}
}

func TestFilterBreakingMatches(t *testing.T) {
	articles := []domain.Article{
		{Title: "Обычная новость", URL: "https://example.com/1"},
		{Title: "BREAKING: главное событие", URL: "https://example.com/2"},
		{Title: "Ещё одна", Description: "breaking developments", URL: "https://example.com/3"},
	}
	got := FilterBreaking(articles)
	if len(got) != 2 {
		t.Fatalf("ожидали 2 срочные новости, получили %d", len(got))
	}
}

func TestFilterBreakingFallbackMostRecent(t *testing.T) {
	now := time.Now()
	articles := []domain.Article{
		{Title: "Старая", URL: "https://example.com/1", PublishedAt: now.Add(-2 * time.Hour)},
		{Title: "Свежая", URL: "https://example.com/2", PublishedAt: now},
		{Title: "Средняя", URL: "https://example.com/3", PublishedAt: now.Add(-time.Hour)},
	}
	got := FilterBreaking(articles)
	if len(got) != 1 {
		t.Fatalf("без совпадений должна вернуться ровно одна статья, получили %d", len(got))
	}
	if got[0].Title != "Свежая" {
		t.Fatalf("ожидали самую свежую статью, получили %q", got[0].Title)
	}
}

func TestCacheKey(t *testing.T) {
	if CacheKey(KindHeadlines, "US", "breaking") != "headlines:us:breaking" {
		t.Fatal("ключ должен быть детерминированным и в нижнем регистре")
	}
	if CacheKey(KindTrending) != "trending" {
		t.Fatal("ключ без параметров — только вид запроса")
	}
}
