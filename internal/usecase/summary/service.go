package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
)

// ArticleLookup отдаёт статью из долгоживущего кэша по URL.
// Сужение news.Service до единственной нужной здесь операции.
type ArticleLookup interface {
	CachedArticle(ctx context.Context, url string) (domain.Article, bool)
}

// Service строит резюме статьи по ссылке: извлекает полный текст,
// выбирает ключевые предложения и при необходимости переводит результат.
// Когда страница недоступна, статью выручает часовой кэш статей.
type Service struct {
	extractor  domain.Extractor
	translator domain.Translator
	articles   ArticleLookup
	log        zerolog.Logger
}

// NewService создаёт сервис суммаризации.
func NewService(extractor domain.Extractor, translator domain.Translator, articles ArticleLookup, log zerolog.Logger) *Service {
	return &Service{extractor: extractor, translator: translator, articles: articles, log: log}
}

// SummarizeURL извлекает статью и строит резюме заданного объёма и стиля.
// В отличие от перевода, неудача здесь — видимая пользователю ошибка:
// резюме и было целью операции.
func (s *Service) SummarizeURL(ctx context.Context, url string, length domain.SummaryLength, style domain.SummaryStyle, lang string) (domain.ArticleSummary, error) {
	if !length.Known() {
		length = domain.SummaryMedium
	}
	if !style.Known() {
		style = domain.StyleParagraph
	}

	extracted, err := s.extractor.Extract(ctx, url)
	if err != nil || strings.TrimSpace(extracted.Text) == "" {
		cached, ok := s.fromCache(ctx, url)
		if !ok {
			if err != nil {
				return domain.ArticleSummary{}, fmt.Errorf("извлечение статьи: %w", err)
			}
			return domain.ArticleSummary{}, fmt.Errorf("статья %s не содержит текста", url)
		}
		s.log.Debug().Str("url", url).Msg("страница недоступна, резюме из кэша статей")
		extracted = cached
	}

	sentences := Extract(extracted.Text, length.Sentences())
	if lang != "" && s.translator != nil {
		for i, sentence := range sentences {
			sentences[i] = s.translator.Translate(ctx, sentence, lang)
		}
	}

	return domain.ArticleSummary{
		URL:     url,
		Text:    Format(sentences, style),
		Length:  length,
		Style:   style,
		Meta:    extracted,
		Keyword: Keywords(extracted.Text, 5),
	}, nil
}

// fromCache собирает заготовку текста из кэшированной статьи.
func (s *Service) fromCache(ctx context.Context, url string) (domain.Extracted, bool) {
	if s.articles == nil {
		return domain.Extracted{}, false
	}
	art, ok := s.articles.CachedArticle(ctx, url)
	if !ok {
		return domain.Extracted{}, false
	}
	text := strings.TrimSpace(art.RawSummary)
	if text == "" {
		text = strings.TrimSpace(art.Description)
	}
	if text == "" {
		return domain.Extracted{}, false
	}
	return domain.Extracted{
		Title:    art.Title,
		TopImage: art.ImageURL,
		Text:     text,
	}, true
}
