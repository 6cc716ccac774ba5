package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"UTC"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Telegram struct {
		Token      string `envconfig:"TG_BOT_TOKEN"`
		WebhookURL string `envconfig:"TG_WEBHOOK_URL"`
	} `envconfig:""`

	NewsAPI struct {
		Key     string        `envconfig:"NEWS_API_KEY"`
		BaseURL string        `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
		Timeout time.Duration `envconfig:"NEWS_API_TIMEOUT" default:"8s"`
	} `envconfig:""`

	Translate struct {
		BaseURL string        `envconfig:"TRANSLATE_BASE_URL" default:"https://translate.googleapis.com"`
		Timeout time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"8s"`
	} `envconfig:""`

	RSS struct {
		RatePerMinute int           `envconfig:"RSS_RATE_PER_MINUTE" default:"30"`
		Timeout       time.Duration `envconfig:"RSS_TIMEOUT" default:"10s"`
	} `envconfig:""`

	Extract struct {
		Timeout time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"10s"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Cache struct {
		ResponseTTL   time.Duration `envconfig:"CACHE_RESPONSE_TTL" default:"15m"`
		ArticleTTL    time.Duration `envconfig:"CACHE_ARTICLE_TTL" default:"1h"`
		SweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"15m"`
	} `envconfig:""`

	Paginator struct {
		IdleTTL time.Duration `envconfig:"PAGINATOR_IDLE_TTL" default:"5m"`
	} `envconfig:""`

	Digest struct {
		Interval time.Duration `envconfig:"DIGEST_INTERVAL" default:"24h"`
		PerUser  int           `envconfig:"DIGEST_ARTICLES_PER_USER" default:"5"`
	} `envconfig:""`

	Limits struct {
		DefaultCount int `envconfig:"NEWS_DEFAULT_COUNT" default:"5"`
		MaxCount     int `envconfig:"NEWS_MAX_COUNT" default:"20"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
