package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"

	"newshunt-bot/internal/adapters/bot"
	"newshunt-bot/internal/adapters/newsapi"
	"newshunt-bot/internal/adapters/repo"
	"newshunt-bot/internal/adapters/translate"
	"newshunt-bot/internal/infra/cache"
	"newshunt-bot/internal/infra/config"
	"newshunt-bot/internal/infra/db"
	infrahttp "newshunt-bot/internal/infra/http"
	"newshunt-bot/internal/infra/log"
	"newshunt-bot/internal/infra/metrics"
	"newshunt-bot/internal/usecase/digest"
	"newshunt-bot/internal/usecase/news"
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
	newsService := news.NewService(headlines, nil, responseCache, articleCache, logger)
	translator := translate.NewGoogle(cfg.Translate.BaseURL, cfg.Translate.Timeout, logger)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать бота")
	}
	deliverer := bot.NewDeliverer(botAPI, logger)

	digestService := digest.NewService(storage, storage, storage, newsService, translator, deliverer, cfg.Digest.PerUser, logger)

	srv := infrahttp.NewServer(logger)
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP сервер остановлен")
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.Cache.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				responseCache.Sweep()
			}
		}
	}()

	// Первая рассылка уходит через один интервал после старта,
	// дальше строго раз в интервал.
	go func() {
		ticker := time.NewTicker(cfg.Digest.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				digestService.RunCycle(ctx)
			}
		}
	}()

	logger.Info().Dur("interval", cfg.Digest.Interval).Msg("воркер рассылки запущен")
	<-ctx.Done()
	logger.Info().Msg("остановка воркера рассылки")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = redisClient.Close()
}
