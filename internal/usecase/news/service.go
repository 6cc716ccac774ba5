package news

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

// Виды запросов — первая часть ключа кэша.
const (
	KindHeadlines = "headlines"
	KindCategory  = "category"
	KindQuery     = "query"
	KindTrending  = "trending"
	KindLocal     = "local"
)

// CacheKey строит детерминированный отпечаток запроса.
func CacheKey(kind string, parts ...string) string {
	all := append([]string{kind}, parts...)
	for i, p := range all {
		all[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(all, ":")
}

// Service выполняет выборку новостей через кэш с нормализацией.
// Ошибки провайдера деградируют до пустой выдачи: пользователь видит
// "нет новостей", а различие попадает в лог.
type Service struct {
	source   domain.HeadlineSource
	feeds    domain.FeedSource
	cache    domain.ResponseCache
	articles domain.ArticleCache
	log      zerolog.Logger
}

// NewService создаёт сервис новостей.
func NewService(source domain.HeadlineSource, feeds domain.FeedSource, cache domain.ResponseCache, articles domain.ArticleCache, log zerolog.Logger) *Service {
	return &Service{source: source, feeds: feeds, cache: cache, articles: articles, log: log}
}

// TopHeadlines возвращает до count главных новостей страны.
// При breaking применяется эвристический фильтр срочных новостей.
func (s *Service) TopHeadlines(ctx context.Context, country string, count int, breaking bool) []domain.Article {
	key := CacheKey(KindHeadlines, country, boolPart(breaking))
	return s.fetch(ctx, KindHeadlines, key, count, func() ([]domain.Article, error) {
		raws, err := s.source.TopHeadlines(ctx, country)
		if err != nil {
			return nil, err
		}
		articles := NormalizeHeadlines(raws)
		if breaking {
			articles = FilterBreaking(articles)
		}
		return articles, nil
	})
}

// ByCategory возвращает до count новостей категории.
func (s *Service) ByCategory(ctx context.Context, category string, count int) []domain.Article {
	key := CacheKey(KindCategory, category)
	return s.fetch(ctx, KindCategory, key, count, func() ([]domain.Article, error) {
		raws, err := s.source.ByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		return NormalizeHeadlines(raws), nil
	})
}

// ByQuery ищет до count новостей по запросу.
func (s *Service) ByQuery(ctx context.Context, query string, count int) []domain.Article {
	key := CacheKey(KindQuery, query)
	return s.fetch(ctx, KindQuery, key, count, func() ([]domain.Article, error) {
		raws, err := s.source.ByQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Article, 0, len(raws))
		for _, raw := range raws {
			if art := FromSearch(raw); art.Valid() {
				out = append(out, art)
			}
		}
		return out, nil
	})
}

// Trending возвращает до count общемировых новостей.
func (s *Service) Trending(ctx context.Context, count int) []domain.Article {
	key := CacheKey(KindTrending)
	return s.fetch(ctx, KindTrending, key, count, func() ([]domain.Article, error) {
		raws, err := s.source.Trending(ctx)
		if err != nil {
			return nil, err
		}
		return NormalizeHeadlines(raws), nil
	})
}

// LocalNews возвращает до count региональных новостей по месту.
func (s *Service) LocalNews(ctx context.Context, place, language, country string, count int) []domain.Article {
	key := CacheKey(KindLocal, place, language, country)
	return s.fetch(ctx, KindLocal, key, count, func() ([]domain.Article, error) {
		raws, err := s.feeds.LocalNews(ctx, place, language, country)
		if err != nil {
			return nil, err
		}
		return NormalizeFeedItems(raws), nil
	})
}

// CachedArticle возвращает статью из долгоживущего кэша по URL.
func (s *Service) CachedArticle(ctx context.Context, url string) (domain.Article, bool) {
	if s.articles == nil {
		return domain.Article{}, false
	}
	return s.articles.Get(ctx, url)
}

func (s *Service) fetch(ctx context.Context, kind, key string, count int, load func() ([]domain.Article, error)) []domain.Article {
	if cached, ok := s.cache.Get(key); ok {
		metrics.ObserveCacheLookup(kind, true)
		return limit(cached, count)
	}
	metrics.ObserveCacheLookup(kind, false)

	articles, err := load()
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("провайдер недоступен, отдаём пустую выдачу")
		return nil
	}
	if len(articles) == 0 {
		s.log.Info().Str("key", key).Msg("провайдер вернул пустую выдачу")
		return nil
	}

	s.cache.Put(key, articles)
	if s.articles != nil {
		for _, art := range articles {
			s.articles.Put(ctx, art)
		}
	}
	return limit(articles, count)
}

func limit(articles []domain.Article, count int) []domain.Article {
	if count > 0 && len(articles) > count {
		return articles[:count]
	}
	return articles
}

func boolPart(v bool) string {
	if v {
		return "breaking"
	}
	return "all"
}
