package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
)

const articleKeyPrefix = "article:"

// RedisArticles — долгоживущий кэш статей по URL поверх Redis.
// Любая ошибка Redis деградирует до промаха.
type RedisArticles struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisArticles создаёт кэш статей.
func NewRedisArticles(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisArticles {
	return &RedisArticles{client: client, ttl: ttl, log: log}
}

var _ domain.ArticleCache = (*RedisArticles)(nil)

// Get возвращает статью по URL, если она ещё в кэше.
func (c *RedisArticles) Get(ctx context.Context, url string) (domain.Article, bool) {
	raw, err := c.client.Get(ctx, articleKeyPrefix+url).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Msg("кэш статей: ошибка чтения")
		}
		return domain.Article{}, false
	}
	var art domain.Article
	if err := json.Unmarshal(raw, &art); err != nil {
		c.log.Debug().Err(err).Msg("кэш статей: битая запись")
		return domain.Article{}, false
	}
	return art, true
}

// Put сохраняет статью с TTL.
func (c *RedisArticles) Put(ctx context.Context, article domain.Article) {
	if article.URL == "" {
		return
	}
	raw, err := json.Marshal(article)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, articleKeyPrefix+article.URL, raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Msg("кэш статей: ошибка записи")
	}
}
