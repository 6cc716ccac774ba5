package domain

import (
	"context"
	"errors"
)

// ErrDeliveryForbidden возвращается доставщиком, если получатель закрыл личные сообщения.
var ErrDeliveryForbidden = errors.New("получатель недоступен для доставки")

// HeadlineSource выгружает сырые статьи из новостного API.
type HeadlineSource interface {
	TopHeadlines(ctx context.Context, country string) ([]RawHeadline, error)
	ByCategory(ctx context.Context, category string) ([]RawHeadline, error)
	ByQuery(ctx context.Context, query string) ([]RawHeadline, error)
	Trending(ctx context.Context) ([]RawHeadline, error)
}

// FeedSource выгружает записи региональной RSS-ленты.
type FeedSource interface {
	LocalNews(ctx context.Context, place, language, country string) ([]RawFeedItem, error)
}

// Translator переводит текст на язык назначения. Реализация обязана вернуть
// исходный текст при любой ошибке, а не падать.
type Translator interface {
	Translate(ctx context.Context, text, dest string) string
}

// Extractor извлекает полный текст статьи по ссылке.
type Extractor interface {
	Extract(ctx context.Context, url string) (Extracted, error)
}

// Deliverer доставляет статью получателю в личные сообщения или канал.
type Deliverer interface {
	SendArticle(ctx context.Context, chatID int64, article Article) error
}

// ResponseCache — короткоживущий кэш ответов провайдеров по ключу запроса.
// Ошибки реализации деградируют до промаха и не видны вызывающему.
type ResponseCache interface {
	Get(key string) ([]Article, bool)
	Put(key string, articles []Article)
	Invalidate(key string)
	Sweep()
}

// ArticleCache — долгоживущий кэш отдельных статей по URL.
type ArticleCache interface {
	Get(ctx context.Context, url string) (Article, bool)
	Put(ctx context.Context, article Article)
}

// PrefsRepo управляет настройками пользователей.
type PrefsRepo interface {
	Register(ctx context.Context, userID int64) error
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	SetCountry(ctx context.Context, userID int64, country string) error
	GetCountry(ctx context.Context, userID int64) (string, error)
	SetLanguages(ctx context.Context, userID int64, languages []string) error
	GetLanguages(ctx context.Context, userID int64) ([]string, error)
}

// BookmarkRepo управляет закладками.
type BookmarkRepo interface {
	Add(ctx context.Context, userID int64, url, title string) error
	List(ctx context.Context, userID int64) ([]Bookmark, error)
	Remove(ctx context.Context, userID int64, url string) error
}

// SubscriptionRepo управляет подпиской на ежедневную рассылку.
type SubscriptionRepo interface {
	Subscribe(ctx context.Context, userID int64) error
	Unsubscribe(ctx context.Context, userID int64) error
	ListSubscribers(ctx context.Context) ([]int64, error)
}

// GuildRepo управляет настройками серверов.
type GuildRepo interface {
	SetNewsChannel(ctx context.Context, guildID, channelID int64) error
	NewsChannel(ctx context.Context, guildID int64) (int64, error)
	ListNewsChannels(ctx context.Context) ([]int64, error)
}
