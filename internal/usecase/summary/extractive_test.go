package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
)

const articleText = `The central bank raised interest rates for the third time this year. ` +
	`Markets reacted sharply to the unexpected decision. ` +
	`Analysts had predicted rates would remain unchanged until autumn. ` +
	`The bank cited persistent inflation as the main reason. ` +
	`Inflation has exceeded the target for eleven consecutive months. ` +
	`Consumer spending remains surprisingly resilient despite higher borrowing costs. ` +
	`Several economists warned that further rate increases could trigger a recession. ` +
	`The next policy meeting is scheduled for late September.`

func TestExtractKeepsOriginalOrder(t *testing.T) {
	sentences := Extract(articleText, 3)
	if len(sentences) != 3 {
		t.Fatalf("ожидали 3 предложения, получили %d", len(sentences))
	}
	order := map[string]int{}
	for i, s := range splitSentences(articleText) {
		order[s] = i
	}
	prev := -1
	for _, s := range sentences {
		idx, ok := order[s]
		if !ok {
			t.Fatalf("предложение не из исходного текста: %q", s)
		}
		if idx <= prev {
			t.Fatal("предложения резюме должны идти в исходном порядке")
		}
		prev = idx
	}
}

func TestExtractShortTextReturnedWhole(t *testing.T) {
	text := "One sentence. Another sentence."
	sentences := Extract(text, 5)
	if len(sentences) != 2 {
		t.Fatalf("короткий текст возвращается целиком: %d", len(sentences))
	}
}

func TestSummaryLengths(t *testing.T) {
	cases := map[domain.SummaryLength]int{
		domain.SummaryShort:  2,
		domain.SummaryMedium: 3,
		domain.SummaryLong:   5,
	}
	for length, want := range cases {
		got := Extract(articleText, length.Sentences())
		if len(got) != want {
			t.Fatalf("объём %s: ожидали %d предложений, получили %d", length, want, len(got))
		}
	}
}

func TestFormatStyles(t *testing.T) {
	sentences := []string{"First point.", "Second point."}

	if got := Format(sentences, domain.StyleParagraph); got != "First point. Second point." {
		t.Fatalf("параграф: %q", got)
	}
	if got := Format(sentences, domain.StyleBullet); !strings.HasPrefix(got, "• First point.") {
		t.Fatalf("маркеры: %q", got)
	}
	numbered := Format(sentences, domain.StyleNumbered)
	if !strings.HasPrefix(numbered, "1. First point.") || !strings.Contains(numbered, "2. Second point.") {
		t.Fatalf("нумерация: %q", numbered)
	}
}

func TestKeywordsSkipStopwordsAndShortWords(t *testing.T) {
	words := Keywords(articleText, 5)
	if len(words) == 0 {
		t.Fatal("ключевые слова не должны быть пустыми")
	}
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			t.Fatalf("стоп-слово в ключевых: %q", w)
		}
		if len([]rune(w)) < 4 {
			t.Fatalf("слишком короткое ключевое слово: %q", w)
		}
	}
}

type stubExtractor struct {
	extracted domain.Extracted
	err       error
}

func (s *stubExtractor) Extract(ctx context.Context, url string) (domain.Extracted, error) {
	return s.extracted, s.err
}

type echoTranslator struct{ calls int }

func (tr *echoTranslator) Translate(ctx context.Context, text, dest string) string {
	tr.calls++
	return "[" + dest + "] " + text
}

func TestSummarizeURL(t *testing.T) {
	svc := NewService(&stubExtractor{extracted: domain.Extracted{Title: "Rates", Text: articleText}}, nil, nil, zerolog.Nop())

	got, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryShort, domain.StyleBullet, "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.Length != domain.SummaryShort || got.Style != domain.StyleBullet {
		t.Fatalf("параметры резюме потеряны: %+v", got)
	}
	if !strings.Contains(got.Text, "• ") {
		t.Fatalf("тело резюме не в выбранном стиле: %q", got.Text)
	}
	if got.Meta.Title != "Rates" {
		t.Fatalf("метаданные извлечения должны сохраняться: %+v", got.Meta)
	}
}

func TestSummarizeURLExtractionFailureVisible(t *testing.T) {
	svc := NewService(&stubExtractor{err: errors.New("страница недоступна")}, nil, nil, zerolog.Nop())

	if _, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryShort, domain.StyleParagraph, ""); err == nil {
		t.Fatal("неудача извлечения должна быть видимой ошибкой")
	}
}

func TestSummarizeURLTranslatesSentences(t *testing.T) {
	tr := &echoTranslator{}
	svc := NewService(&stubExtractor{extracted: domain.Extracted{Text: articleText}}, tr, nil, zerolog.Nop())

	got, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryShort, domain.StyleParagraph, "ru")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if tr.calls != 2 {
		t.Fatalf("каждое предложение переводится отдельно: %d вызовов", tr.calls)
	}
	if !strings.Contains(got.Text, "[ru]") {
		t.Fatalf("резюме должно быть переведено: %q", got.Text)
	}
}

func TestSummarizeURLUnknownOptionsFallBack(t *testing.T) {
	svc := NewService(&stubExtractor{extracted: domain.Extracted{Text: articleText}}, nil, nil, zerolog.Nop())

	got, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryLength("huge"), domain.SummaryStyle("fancy"), "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.Length != domain.SummaryMedium || got.Style != domain.StyleParagraph {
		t.Fatalf("неизвестные параметры должны заменяться значениями по умолчанию: %+v", got)
	}
}

type stubLookup struct {
	article domain.Article
	ok      bool
}

func (s *stubLookup) CachedArticle(ctx context.Context, url string) (domain.Article, bool) {
	return s.article, s.ok
}

func TestSummarizeURLServedFromArticleCache(t *testing.T) {
	lookup := &stubLookup{
		article: domain.Article{
			Title:      "Cached rates story",
			URL:        "https://example.com/1",
			RawSummary: articleText,
		},
		ok: true,
	}
	svc := NewService(&stubExtractor{err: errors.New("страница недоступна")}, nil, lookup, zerolog.Nop())

	got, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryShort, domain.StyleParagraph, "")
	if err != nil {
		t.Fatalf("кэш статей должен выручать при недоступной странице: %v", err)
	}
	if got.Meta.Title != "Cached rates story" {
		t.Fatalf("метаданные должны браться из кэшированной статьи: %+v", got.Meta)
	}
	if got.Text == "" {
		t.Fatal("резюме из кэшированного текста не должно быть пустым")
	}
}

func TestSummarizeURLCachedArticleWithoutTextFails(t *testing.T) {
	lookup := &stubLookup{article: domain.Article{Title: "Пустая"}, ok: true}
	svc := NewService(&stubExtractor{err: errors.New("страница недоступна")}, nil, lookup, zerolog.Nop())

	if _, err := svc.SummarizeURL(context.Background(), "https://example.com/1", domain.SummaryShort, domain.StyleParagraph, ""); err == nil {
		t.Fatal("статья без текста в кэше не спасает от ошибки")
	}
}
