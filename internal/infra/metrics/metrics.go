package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов к внешним провайдерам",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов к внешним провайдерам",
	}, []string{"component", "operation", "status"})

	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "response_cache_hits_total",
		Help: "Попадания в кэш ответов",
	}, []string{"kind"})

	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "response_cache_misses_total",
		Help: "Промахи кэша ответов",
	}, []string{"kind"})

	PaginatorSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "paginator_sessions_active",
		Help: "Число живых сессий пагинации",
	})

	DigestDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_delivered_total",
		Help: "Доставленные статьи рассылки",
	})

	DigestFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_failed_total",
		Help: "Ошибки доставки рассылки",
	})

	DigestUnsubscribedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_unsubscribed_total",
		Help: "Автоматические отписки из-за закрытых личных сообщений",
	})

	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Ошибки отправки сообщений ботом",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		PaginatorSessionsActive,
		DigestDeliveredTotal,
		DigestFailedTotal,
		DigestUnsubscribedTotal,
		BotSendErrors,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, status).Inc()
}

// ObserveCacheLookup записывает результат обращения к кэшу ответов.
func ObserveCacheLookup(kind string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(kind).Inc()
		return
	}
	CacheMissesTotal.WithLabelValues(kind).Inc()
}
