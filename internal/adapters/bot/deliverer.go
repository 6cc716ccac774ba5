package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"newshunt-bot/internal/adapters/telegram"
	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
	"newshunt-bot/internal/usecase/digest"
)

// Deliverer отправляет статьи получателям рассылки.
type Deliverer struct {
	bot api
	log zerolog.Logger
}

var _ domain.Deliverer = (*Deliverer)(nil)

// NewDeliverer создаёт доставщика рассылки.
func NewDeliverer(bot api, log zerolog.Logger) *Deliverer {
	return &Deliverer{bot: bot, log: log}
}

// SendArticle доставляет одну статью в личные сообщения или чат.
// Статья с обложкой уходит фотографией с подписью, без — текстом.
// Закрытые личные сообщения превращаются в domain.ErrDeliveryForbidden.
func (d *Deliverer) SendArticle(ctx context.Context, chatID int64, article domain.Article) error {
	text := digest.FormatArticle(article)

	var payload tgbotapi.Chattable
	if article.ImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(article.ImageURL))
		photo.Caption = telegram.Clip(text, telegram.CaptionLimit)
		photo.ParseMode = tgbotapi.ModeHTML
		payload = photo
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		payload = msg
	}

	start := time.Now()
	_, err := d.bot.Send(payload)
	metrics.ObserveNetworkRequest("telegram_bot", "send_article", start, err)
	if err != nil {
		metrics.BotSendErrors.Inc()
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 403 {
			return fmt.Errorf("чат %d: %w", chatID, domain.ErrDeliveryForbidden)
		}
		return fmt.Errorf("отправка статьи в чат %d: %w", chatID, err)
	}
	return nil
}
