package digest

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/log"
	"newshunt-bot/internal/infra/metrics"
)

// Групповые чаты не несут страновых настроек, подборка для них общая.
const channelCountry = "us"

// Fetcher отдаёт главные новости страны. Сужение news.Service
// до единственной нужной рассылке операции.
type Fetcher interface {
	TopHeadlines(ctx context.Context, country string, count int, breaking bool) []domain.Article
}

// Service проводит цикл ежедневной рассылки: для каждого подписчика
// независимо подбирает, переводит и доставляет подборку новостей,
// после чего публикует общую подборку в настроенные групповые чаты.
type Service struct {
	subs       domain.SubscriptionRepo
	prefs      domain.PrefsRepo
	guilds     domain.GuildRepo
	fetcher    Fetcher
	translator domain.Translator
	deliverer  domain.Deliverer
	perUser    int
	log        zerolog.Logger
}

// NewService создаёт сервис рассылки.
func NewService(subs domain.SubscriptionRepo, prefs domain.PrefsRepo, guilds domain.GuildRepo, fetcher Fetcher, translator domain.Translator, deliverer domain.Deliverer, perUser int, logger zerolog.Logger) *Service {
	if perUser <= 0 {
		perUser = 5
	}
	return &Service{subs: subs, prefs: prefs, guilds: guilds, fetcher: fetcher, translator: translator, deliverer: deliverer, perUser: perUser, log: logger}
}

// RunCycle обходит подписчиков по одному. Сбой одного подписчика не
// прерывает остальных: закрытые личные сообщения отписывают навсегда,
// прочие ошибки пропускают подписчика до следующего цикла.
func (s *Service) RunCycle(ctx context.Context) {
	subscribers, err := s.subs.ListSubscribers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("чтение списка подписчиков")
		return
	}
	s.log.Info().Int("subscribers", len(subscribers)).Msg("старт цикла рассылки")

	for _, userID := range subscribers {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Msg("цикл рассылки прерван")
			return
		}
		s.deliverTo(ctx, userID)
	}

	s.deliverToChannels(ctx)
}

// deliverToChannels публикует подборку в групповые чаты из /setchannel.
// Канал не подписчик: сбой доставки лишь логируется.
func (s *Service) deliverToChannels(ctx context.Context) {
	if s.guilds == nil {
		return
	}
	channels, err := s.guilds.ListNewsChannels(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("чтение списка каналов новостей")
		return
	}
	if len(channels) == 0 {
		return
	}

	articles := s.fetcher.TopHeadlines(ctx, channelCountry, s.perUser, false)
	if len(articles) == 0 {
		s.log.Info().Msg("нет новостей для каналов")
		return
	}

	for _, chatID := range channels {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Msg("публикация в каналы прервана")
			return
		}
		s.postToChannel(ctx, chatID, articles)
	}
}

func (s *Service) postToChannel(ctx context.Context, chatID int64, articles []domain.Article) {
	defer log.RecoverWith(s.log, "публикация в канал")

	for _, article := range articles {
		if err := s.deliverer.SendArticle(ctx, chatID, article); err != nil {
			metrics.DigestFailedTotal.Inc()
			s.log.Error().Err(err).Int64("chat_id", chatID).Str("url", article.URL).Msg("публикация в канал")
			return
		}
		metrics.DigestDeliveredTotal.Inc()
	}
	s.log.Debug().Int64("chat_id", chatID).Int("articles", len(articles)).Msg("подборка опубликована в канал")
}

func (s *Service) deliverTo(ctx context.Context, userID int64) {
	defer log.RecoverWith(s.log, "рассылка подписчику")

	country, err := s.prefs.GetCountry(ctx, userID)
	if err != nil {
		metrics.DigestFailedTotal.Inc()
		s.log.Error().Err(err).Int64("user_id", userID).Msg("чтение страны подписчика")
		return
	}
	lang := s.preferredLanguage(ctx, userID)

	articles := s.fetcher.TopHeadlines(ctx, country, s.perUser, false)
	if len(articles) == 0 {
		s.log.Info().Int64("user_id", userID).Str("country", country).Msg("нет новостей для подписчика")
		return
	}

	for _, article := range articles {
		if lang != "" && lang != "en" {
			article.Title = s.translator.Translate(ctx, article.Title, lang)
			article.Description = s.translator.Translate(ctx, article.Description, lang)
		}
		if err := s.deliverer.SendArticle(ctx, userID, article); err != nil {
			if errors.Is(err, domain.ErrDeliveryForbidden) {
				s.unsubscribe(ctx, userID)
				return
			}
			metrics.DigestFailedTotal.Inc()
			s.log.Error().Err(err).Int64("user_id", userID).Str("url", article.URL).Msg("доставка статьи")
			return
		}
		metrics.DigestDeliveredTotal.Inc()
	}
	s.log.Debug().Int64("user_id", userID).Int("articles", len(articles)).Msg("рассылка доставлена")
}

func (s *Service) preferredLanguage(ctx context.Context, userID int64) string {
	langs, err := s.prefs.GetLanguages(ctx, userID)
	if err != nil || len(langs) == 0 {
		return "en"
	}
	return langs[0]
}

func (s *Service) unsubscribe(ctx context.Context, userID int64) {
	metrics.DigestUnsubscribedTotal.Inc()
	if err := s.subs.Unsubscribe(ctx, userID); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("отписка недоступного получателя")
		return
	}
	s.log.Info().Int64("user_id", userID).Msg("получатель закрыл личные сообщения, отписан")
}
