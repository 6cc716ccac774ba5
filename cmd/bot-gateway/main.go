package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"

	"newshunt-bot/internal/adapters/bot"
	"newshunt-bot/internal/adapters/extract"
	"newshunt-bot/internal/adapters/newsapi"
	"newshunt-bot/internal/adapters/repo"
	"newshunt-bot/internal/adapters/rss"
	"newshunt-bot/internal/adapters/translate"
	"newshunt-bot/internal/infra/cache"
	"newshunt-bot/internal/infra/config"
	"newshunt-bot/internal/infra/db"
	infrahttp "newshunt-bot/internal/infra/http"
	"newshunt-bot/internal/infra/log"
	"newshunt-bot/internal/infra/metrics"
	"newshunt-bot/internal/usecase/news"
	"newshunt-bot/internal/usecase/paginator"
	"newshunt-bot/internal/usecase/summary"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось подключиться к БД")
	}
	defer pool.Close()
	storage := repo.NewPostgres(pool)

	responseCache := cache.NewMemory(cfg.Cache.ResponseTTL)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	articleCache := cache.NewRedisArticles(redisClient, cfg.Cache.ArticleTTL, logger)

	headlines := newsapi.NewClient(cfg.NewsAPI.Key, cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout)
	feeds := rss.NewFetcher(rss.NewLimiter(cfg.RSS.RatePerMinute, time.Minute), cfg.RSS.Timeout)
	newsService := news.NewService(headlines, feeds, responseCache, articleCache, logger)

	translator := translate.NewGoogle(cfg.Translate.BaseURL, cfg.Translate.Timeout, logger)
	extractor := extract.NewReadability(cfg.Extract.Timeout)
	summaryService := summary.NewService(extractor, translator, newsService, logger)

	sessions := paginator.NewRegistry(cfg.Paginator.IdleTTL, logger)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать бота")
	}
	if cfg.Telegram.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("некорректный адрес вебхука")
		}
		if _, err := botAPI.Request(wh); err != nil {
			logger.Fatal().Err(err).Msg("не удалось установить вебхук")
		}
	}

	handler := bot.NewHandler(botAPI, logger, newsService, summaryService, sessions, storage, storage, storage, storage, cfg.Limits.DefaultCount, cfg.Limits.MaxCount)

	srv := infrahttp.NewServer(logger)
	srv.Router.Post("/bot/webhook", func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handler.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		ticker := time.NewTicker(cfg.Cache.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				responseCache.Sweep()
				sessions.Sweep()
			}
		}
	}()

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("остановка бот-гейтвея")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = redisClient.Close()
}
