package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"newshunt-bot/internal/domain"
)

const (
	defaultCountry  = "us"
	defaultLanguage = "en"
)

// Postgres реализует репозитории настроек, закладок и подписок на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

var (
	_ domain.PrefsRepo        = (*Postgres)(nil)
	_ domain.BookmarkRepo     = (*Postgres)(nil)
	_ domain.SubscriptionRepo = (*Postgres)(nil)
	_ domain.GuildRepo        = (*Postgres)(nil)
)

// Register создаёт запись пользователя, если её ещё нет.
func (p *Postgres) Register(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, created_at, updated_at)
		VALUES ($1, now(), now())
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("регистрация пользователя: %w", err)
	}
	return nil
}

// IsRegistered сообщает, зарегистрирован ли пользователь.
func (p *Postgres) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_preferences WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("проверка регистрации: %w", err)
	}
	return exists, nil
}

// SetCountry сохраняет страну пользователя.
func (p *Postgres) SetCountry(ctx context.Context, userID int64, country string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, country, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET country = EXCLUDED.country, updated_at = now()`,
		userID, country)
	if err != nil {
		return fmt.Errorf("сохранение страны: %w", err)
	}
	return nil
}

// GetCountry возвращает страну пользователя или значение по умолчанию.
func (p *Postgres) GetCountry(ctx context.Context, userID int64) (string, error) {
	var country *string
	err := p.pool.QueryRow(ctx,
		`SELECT country FROM user_preferences WHERE user_id = $1`, userID).Scan(&country)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultCountry, nil
	}
	if err != nil {
		return "", fmt.Errorf("получение страны: %w", err)
	}
	if country == nil || *country == "" {
		return defaultCountry, nil
	}
	return *country, nil
}

// SetLanguages сохраняет языки пользователя.
func (p *Postgres) SetLanguages(ctx context.Context, userID int64, languages []string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, languages, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET languages = EXCLUDED.languages, updated_at = now()`,
		userID, languages)
	if err != nil {
		return fmt.Errorf("сохранение языков: %w", err)
	}
	return nil
}

// GetLanguages возвращает языки пользователя или ["en"].
func (p *Postgres) GetLanguages(ctx context.Context, userID int64) ([]string, error) {
	var languages []string
	err := p.pool.QueryRow(ctx,
		`SELECT languages FROM user_preferences WHERE user_id = $1`, userID).Scan(&languages)
	if errors.Is(err, pgx.ErrNoRows) {
		return []string{defaultLanguage}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение языков: %w", err)
	}
	if len(languages) == 0 {
		return []string{defaultLanguage}, nil
	}
	return languages, nil
}

// Add сохраняет закладку. Повторная закладка того же URL обновляет заголовок.
func (p *Postgres) Add(ctx context.Context, userID int64, url, title string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO bookmarks (user_id, url, title, added_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, url) DO UPDATE SET title = EXCLUDED.title`,
		userID, url, title)
	if err != nil {
		return fmt.Errorf("сохранение закладки: %w", err)
	}
	return nil
}

// List возвращает закладки пользователя в порядке добавления.
func (p *Postgres) List(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT user_id, url, title, added_at
		FROM bookmarks WHERE user_id = $1 ORDER BY added_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("получение закладок: %w", err)
	}
	defer rows.Close()

	var out []domain.Bookmark
	for rows.Next() {
		var bm domain.Bookmark
		if err := rows.Scan(&bm.UserID, &bm.URL, &bm.Title, &bm.AddedAt); err != nil {
			return nil, fmt.Errorf("чтение закладки: %w", err)
		}
		out = append(out, bm)
	}
	return out, rows.Err()
}

// Remove удаляет закладку по URL.
func (p *Postgres) Remove(ctx context.Context, userID int64, url string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND url = $2`, userID, url)
	if err != nil {
		return fmt.Errorf("удаление закладки: %w", err)
	}
	return nil
}

// Subscribe добавляет пользователя в ежедневную рассылку.
func (p *Postgres) Subscribe(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO daily_news_users (user_id, subscribed_at)
		VALUES ($1, now())
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("подписка: %w", err)
	}
	return nil
}

// Unsubscribe убирает пользователя из рассылки.
func (p *Postgres) Unsubscribe(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM daily_news_users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("отписка: %w", err)
	}
	return nil
}

// ListSubscribers возвращает всех подписчиков рассылки.
func (p *Postgres) ListSubscribers(ctx context.Context) ([]int64, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id FROM daily_news_users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("получение подписчиков: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("чтение подписчика: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SetNewsChannel сохраняет новостной канал сервера.
func (p *Postgres) SetNewsChannel(ctx context.Context, guildID, channelID int64) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, news_channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET news_channel_id = EXCLUDED.news_channel_id`,
		guildID, channelID)
	if err != nil {
		return fmt.Errorf("сохранение канала новостей: %w", err)
	}
	return nil
}

// NewsChannel возвращает новостной канал сервера, 0 если не настроен.
func (p *Postgres) NewsChannel(ctx context.Context, guildID int64) (int64, error) {
	var channelID int64
	err := p.pool.QueryRow(ctx,
		`SELECT news_channel_id FROM guild_settings WHERE guild_id = $1`, guildID).Scan(&channelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("получение канала новостей: %w", err)
	}
	return channelID, nil
}

// ListNewsChannels возвращает все настроенные новостные каналы.
func (p *Postgres) ListNewsChannels(ctx context.Context) ([]int64, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT news_channel_id FROM guild_settings WHERE news_channel_id <> 0`)
	if err != nil {
		return nil, fmt.Errorf("список каналов новостей: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("чтение канала новостей: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
