package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"newshunt-bot/internal/adapters/telegram"
	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
	"newshunt-bot/internal/usecase/digest"
	"newshunt-bot/internal/usecase/news"
	"newshunt-bot/internal/usecase/paginator"
	"newshunt-bot/internal/usecase/summary"
)

type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler обслуживает вебхук бота: команды и нажатия кнопок.
type Handler struct {
	bot          api
	log          zerolog.Logger
	newsUC       *news.Service
	summaryUC    *summary.Service
	sessions     *paginator.Registry
	prefs        domain.PrefsRepo
	bookmarks    domain.BookmarkRepo
	subs         domain.SubscriptionRepo
	guilds       domain.GuildRepo
	defaultCount int
	maxCount     int

	mu          sync.Mutex
	pendingJump map[int64]string
}

// NewHandler создаёт обработчик.
func NewHandler(bot api, log zerolog.Logger, newsUC *news.Service, summaryUC *summary.Service, sessions *paginator.Registry, prefs domain.PrefsRepo, bookmarks domain.BookmarkRepo, subs domain.SubscriptionRepo, guilds domain.GuildRepo, defaultCount, maxCount int) *Handler {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	if maxCount <= 0 {
		maxCount = 20
	}
	return &Handler{
		bot:          bot,
		log:          log,
		newsUC:       newsUC,
		summaryUC:    summaryUC,
		sessions:     sessions,
		prefs:        prefs,
		bookmarks:    bookmarks,
		subs:         subs,
		guilds:       guilds,
		defaultCount: defaultCount,
		maxCount:     maxCount,
		pendingJump:  make(map[int64]string),
	}
}

// HandleUpdate обрабатывает входящий апдейт.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		h.handleMessage(ctx, upd.Message)
	} else if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		if h.tryHandleJumpInput(ctx, msg.Chat.ID, msg.From.ID, text) {
			return
		}
		return
	}

	command, payload := splitCommand(text)
	switch command {
	case "/start":
		h.handleStart(ctx, msg.Chat.ID, msg.From.ID)
		return
	case "/help":
		h.reply(msg.Chat.ID, helpMessage(), h.mainKeyboard())
		return
	}

	if !h.requireUser(ctx, msg.Chat.ID, msg.From.ID) {
		return
	}

	switch command {
	case "/news":
		h.handleNews(ctx, msg.Chat.ID, msg.From.ID, payload, false)
	case "/flashnews":
		h.handleNews(ctx, msg.Chat.ID, msg.From.ID, payload, true)
	case "/category":
		h.handleCategory(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/search":
		h.handleSearch(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/trending":
		h.handleTrending(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/localnews":
		h.handleLocalNews(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/summarize":
		h.handleSummarize(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/bookmark":
		h.handleBookmark(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/bookmarks":
		h.handleBookmarks(ctx, msg.Chat.ID, msg.From.ID)
	case "/remove_bookmark":
		h.handleRemoveBookmark(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/setcountry":
		h.handleSetCountry(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/setlang":
		h.handleSetLang(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/dailynews":
		h.handleDailyNews(ctx, msg.Chat.ID, msg.From.ID, payload)
	case "/setchannel":
		h.handleSetChannel(ctx, msg.Chat.ID)
	default:
		h.reply(msg.Chat.ID, "Неизвестная команда. Используйте /help", nil)
	}
}

func (h *Handler) handleStart(ctx context.Context, chatID, userID int64) {
	if err := h.prefs.Register(ctx, userID); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("регистрация пользователя")
		h.reply(chatID, "Не удалось сохранить профиль, попробуйте позже", nil)
		return
	}
	h.reply(chatID, startMessage(), h.mainKeyboard())
}

// requireUser — единая проверка регистрации на границе диспетчера.
func (h *Handler) requireUser(ctx context.Context, chatID, userID int64) bool {
	registered, err := h.prefs.IsRegistered(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("проверка регистрации")
		h.reply(chatID, "Не удалось проверить профиль, попробуйте позже", nil)
		return false
	}
	if !registered {
		h.reply(chatID, "Сначала отправьте /start, чтобы зарегистрироваться", nil)
		return false
	}
	return true
}

func (h *Handler) handleNews(ctx context.Context, chatID, userID int64, payload string, breaking bool) {
	count := h.parseCount(payload)
	country, err := h.prefs.GetCountry(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("чтение страны пользователя")
		country = "us"
	}
	articles := h.newsUC.TopHeadlines(ctx, country, count, breaking)
	h.browse(ctx, chatID, userID, articles)
}

func (h *Handler) handleCategory(ctx context.Context, chatID, userID int64, payload string) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		h.reply(chatID, "Укажите категорию: /category technology", nil)
		return
	}
	count := h.defaultCount
	if len(fields) > 1 {
		count = h.parseCount(fields[1])
	}
	articles := h.newsUC.ByCategory(ctx, fields[0], count)
	h.browse(ctx, chatID, userID, articles)
}

func (h *Handler) handleSearch(ctx context.Context, chatID, userID int64, payload string) {
	query := strings.TrimSpace(payload)
	if query == "" {
		h.reply(chatID, "Укажите запрос: /search golang", nil)
		return
	}
	articles := h.newsUC.ByQuery(ctx, query, h.defaultCount)
	h.browse(ctx, chatID, userID, articles)
}

func (h *Handler) handleTrending(ctx context.Context, chatID, userID int64, payload string) {
	articles := h.newsUC.Trending(ctx, h.parseCount(payload))
	h.browse(ctx, chatID, userID, articles)
}

func (h *Handler) handleLocalNews(ctx context.Context, chatID, userID int64, payload string) {
	place := strings.TrimSpace(payload)
	if place == "" {
		h.reply(chatID, "Укажите место: /localnews Berlin", nil)
		return
	}
	lang := "en"
	if langs, err := h.prefs.GetLanguages(ctx, userID); err == nil && len(langs) > 0 {
		lang = langs[0]
	}
	country, err := h.prefs.GetCountry(ctx, userID)
	if err != nil {
		country = "us"
	}
	articles := h.newsUC.LocalNews(ctx, place, lang, country, h.defaultCount)
	h.browse(ctx, chatID, userID, articles)
}

// browse заводит сессию пагинации и отправляет первую статью.
func (h *Handler) browse(ctx context.Context, chatID, userID int64, articles []domain.Article) {
	if len(articles) == 0 {
		h.reply(chatID, "Новостей не нашлось. Попробуйте позже или измените запрос", nil)
		return
	}
	session := h.sessions.Create(userID, articles)
	view := session.Render()
	h.reply(chatID, renderView(view), h.sessionKeyboard(session.ID(), view))
}

func (h *Handler) handleSummarize(ctx context.Context, chatID, userID int64, payload string) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		h.reply(chatID, "Укажите ссылку: /summarize https://example.com/article [short|medium|long] [paragraph|bullet|numbered]", nil)
		return
	}
	length := domain.SummaryMedium
	style := domain.StyleParagraph
	if len(fields) > 1 {
		length = domain.SummaryLength(strings.ToLower(fields[1]))
	}
	if len(fields) > 2 {
		style = domain.SummaryStyle(strings.ToLower(fields[2]))
	}
	h.sendSummary(ctx, chatID, userID, fields[0], length, style)
}

func (h *Handler) sendSummary(ctx context.Context, chatID, userID int64, url string, length domain.SummaryLength, style domain.SummaryStyle) {
	lang := ""
	if langs, err := h.prefs.GetLanguages(ctx, userID); err == nil && len(langs) > 0 && langs[0] != "en" {
		lang = langs[0]
	}
	result, err := h.summaryUC.SummarizeURL(ctx, url, length, style, lang)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("суммаризация статьи")
		h.reply(chatID, "Не удалось построить резюме: статья недоступна или не содержит текста", nil)
		return
	}
	h.replyHTML(chatID, digest.FormatSummary(result), nil)
}

func (h *Handler) handleBookmark(ctx context.Context, chatID, userID int64, payload string) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		h.reply(chatID, "Укажите ссылку: /bookmark https://example.com/article [название]", nil)
		return
	}
	url := fields[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		h.reply(chatID, "Ссылка должна начинаться с http:// или https://", nil)
		return
	}
	title := strings.Join(fields[1:], " ")
	if title == "" {
		title = url
	}
	if err := h.bookmarks.Add(ctx, userID, url, title); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("сохранение закладки")
		h.reply(chatID, "Не удалось сохранить закладку", nil)
		return
	}
	h.reply(chatID, "Закладка сохранена: "+title, nil)
}

func (h *Handler) handleBookmarks(ctx context.Context, chatID, userID int64) {
	list, err := h.bookmarks.List(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("чтение закладок")
		h.reply(chatID, "Не удалось получить закладки, попробуйте позже", nil)
		return
	}
	if len(list) == 0 {
		h.reply(chatID, "Закладок пока нет. Сохраняйте статьи кнопкой 🔖 под новостью", nil)
		return
	}
	var b strings.Builder
	b.WriteString("Ваши закладки:\n")
	for i, bm := range list {
		b.WriteString(fmt.Sprintf("%d. %s\n%s\n", i+1, bm.Title, bm.URL))
	}
	b.WriteString("\nУдалить: /remove_bookmark <номер>")
	h.reply(chatID, b.String(), nil)
}

// handleRemoveBookmark удаляет закладку по её номеру из списка /bookmarks.
func (h *Handler) handleRemoveBookmark(ctx context.Context, chatID, userID int64, payload string) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		h.reply(chatID, "Укажите номер закладки: /remove_bookmark 2", nil)
		return
	}
	list, err := h.bookmarks.List(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("чтение закладок")
		h.reply(chatID, "Не удалось получить закладки, попробуйте позже", nil)
		return
	}
	if n < 1 || n > len(list) {
		h.reply(chatID, fmt.Sprintf("Номер вне диапазона: у вас %d закладок", len(list)), nil)
		return
	}
	if err := h.bookmarks.Remove(ctx, userID, list[n-1].URL); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("удаление закладки")
		h.reply(chatID, "Не удалось удалить закладку", nil)
		return
	}
	h.reply(chatID, "Закладка удалена", nil)
}

func (h *Handler) handleSetCountry(ctx context.Context, chatID, userID int64, payload string) {
	country := strings.ToLower(strings.TrimSpace(payload))
	if len(country) != 2 {
		h.reply(chatID, "Укажите двухбуквенный код страны: /setcountry de", nil)
		return
	}
	if err := h.prefs.SetCountry(ctx, userID, country); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("сохранение страны")
		h.reply(chatID, "Не удалось сохранить страну", nil)
		return
	}
	h.reply(chatID, fmt.Sprintf("Страна новостей: %s", strings.ToUpper(country)), nil)
}

func (h *Handler) handleSetLang(ctx context.Context, chatID, userID int64, payload string) {
	fields := strings.Fields(strings.ToLower(payload))
	if len(fields) == 0 {
		h.reply(chatID, "Укажите языки: /setlang ru en", nil)
		return
	}
	for _, lang := range fields {
		if len(lang) != 2 {
			h.reply(chatID, fmt.Sprintf("Некорректный код языка: %s", lang), nil)
			return
		}
	}
	if err := h.prefs.SetLanguages(ctx, userID, fields); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("сохранение языков")
		h.reply(chatID, "Не удалось сохранить языки", nil)
		return
	}
	h.reply(chatID, fmt.Sprintf("Языки обновлены: %s", strings.Join(fields, ", ")), nil)
}

func (h *Handler) handleDailyNews(ctx context.Context, chatID, userID int64, payload string) {
	if strings.EqualFold(strings.TrimSpace(payload), "off") {
		if err := h.subs.Unsubscribe(ctx, userID); err != nil {
			h.log.Error().Err(err).Int64("user_id", userID).Msg("отписка от рассылки")
			h.reply(chatID, "Не удалось отписаться, попробуйте позже", nil)
			return
		}
		h.reply(chatID, "Вы отписаны от ежедневной рассылки", nil)
		return
	}
	if err := h.subs.Subscribe(ctx, userID); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("подписка на рассылку")
		h.reply(chatID, "Не удалось подписаться, попробуйте позже", nil)
		return
	}
	h.reply(chatID, "Вы подписаны на ежедневную рассылку. Отписаться: /dailynews off", nil)
}

func (h *Handler) handleSetChannel(ctx context.Context, chatID int64) {
	if chatID > 0 {
		h.reply(chatID, "Команда работает только в группах и каналах", nil)
		return
	}
	if err := h.guilds.SetNewsChannel(ctx, chatID, chatID); err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("назначение новостного чата")
		h.reply(chatID, "Не удалось сохранить настройку", nil)
		return
	}
	h.reply(chatID, "Этот чат назначен для новостей", nil)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	notice := ""
	switch {
	case strings.HasPrefix(data, "pg:"):
		notice = h.handleSessionCallback(ctx, cb)
	case data == "daily_on":
		h.handleDailyNews(ctx, cb.Message.Chat.ID, cb.From.ID, "")
	case data == "help_menu":
		h.reply(cb.Message.Chat.ID, helpMessage(), h.mainKeyboard())
	}
	h.answerCallback(cb.ID, notice)
}

// handleSessionCallback разбирает данные вида pg:<id>:<действие>[:<аргумент>]
// и возвращает текст уведомления, видимого только инициатору.
func (h *Handler) handleSessionCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) string {
	parts := strings.SplitN(cb.Data, ":", 4)
	if len(parts) < 3 {
		return "Некорректные данные кнопки"
	}
	sessionID, action := parts[1], parts[2]
	arg := ""
	if len(parts) == 4 {
		arg = parts[3]
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return noticeFor(err)
	}
	actorID := cb.From.ID
	now := time.Now()

	switch action {
	case "first":
		err = session.First(actorID, now)
	case "prev":
		err = session.Prev(actorID, now)
	case "next":
		err = session.Next(actorID, now)
	case "last":
		err = session.Last(actorID, now)
	case "jump":
		if actorID != session.OwnerID() {
			return noticeFor(paginator.ErrNotOwner)
		}
		h.setPendingJump(actorID, sessionID)
		h.reply(cb.Message.Chat.ID, "Отправьте номер статьи числом", nil)
		return ""
	case "style":
		err = session.SetStyle(actorID, paginator.Style(arg), now)
	case "sort":
		err = session.SetSort(actorID, paginator.SortKey(arg), now)
	case "summary":
		article, cerr := session.Current(actorID, now)
		if cerr != nil {
			return noticeFor(cerr)
		}
		h.sendSummary(ctx, cb.Message.Chat.ID, actorID, article.URL, domain.SummaryMedium, domain.StyleParagraph)
		return ""
	case "bookmark":
		article, cerr := session.Current(actorID, now)
		if cerr != nil {
			return noticeFor(cerr)
		}
		if berr := h.bookmarks.Add(ctx, actorID, article.URL, article.Title); berr != nil {
			h.log.Error().Err(berr).Int64("user_id", actorID).Msg("сохранение закладки")
			return "Не удалось сохранить закладку"
		}
		return "Статья в закладках"
	case "share":
		article, cerr := session.Current(actorID, now)
		if cerr != nil {
			return noticeFor(cerr)
		}
		h.reply(cb.Message.Chat.ID, article.Title+"\n"+article.URL, nil)
		return ""
	case "close":
		if err := session.Delete(actorID, now); err != nil {
			return noticeFor(err)
		}
		h.sessions.Remove(sessionID)
		h.deleteMessage(cb.Message.Chat.ID, cb.Message.MessageID)
		return ""
	default:
		return "Неизвестное действие"
	}

	if err != nil {
		return noticeFor(err)
	}
	h.editView(cb.Message.Chat.ID, cb.Message.MessageID, sessionID, session.Render())
	return ""
}

func (h *Handler) tryHandleJumpInput(ctx context.Context, chatID, userID int64, text string) bool {
	h.mu.Lock()
	sessionID, pending := h.pendingJump[userID]
	if pending {
		delete(h.pendingJump, userID)
	}
	h.mu.Unlock()
	if !pending {
		return false
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		h.reply(chatID, "Нужен номер статьи числом, например 3", nil)
		return true
	}
	session, gerr := h.sessions.Get(sessionID)
	if gerr != nil {
		h.reply(chatID, noticeFor(gerr), nil)
		return true
	}
	if jerr := session.Jump(userID, n, time.Now()); jerr != nil {
		h.reply(chatID, noticeFor(jerr), nil)
		return true
	}
	view := session.Render()
	h.reply(chatID, renderView(view), h.sessionKeyboard(sessionID, view))
	return true
}

func (h *Handler) setPendingJump(userID int64, sessionID string) {
	h.mu.Lock()
	h.pendingJump[userID] = sessionID
	h.mu.Unlock()
}

// noticeFor переводит ошибку сессии в короткое уведомление.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, paginator.ErrNotOwner):
		return "Эта подборка принадлежит другому пользователю"
	case errors.Is(err, paginator.ErrExpired):
		return "Сессия истекла. Запросите новости заново"
	case errors.Is(err, paginator.ErrNotFound):
		return "Сессия не найдена. Запросите новости заново"
	case errors.Is(err, paginator.ErrBadIndex):
		return "Номер статьи вне диапазона"
	case errors.Is(err, paginator.ErrBadOption):
		return "Неизвестный вариант"
	default:
		return "Не удалось выполнить действие"
	}
}

func renderView(v paginator.View) string {
	var b strings.Builder
	b.WriteString("<b>" + escape(v.Title) + "</b>")
	if v.Body != "" {
		b.WriteString("\n\n" + escape(v.Body))
	}
	if v.URL != "" {
		b.WriteString(fmt.Sprintf("\n\n<a href=\"%s\">Читать полностью</a>", escape(v.URL)))
	}
	b.WriteString("\n\n" + escape(v.Footer))
	return b.String()
}

func escape(text string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(text)
}

func (h *Handler) sessionKeyboard(sessionID string, v paginator.View) *tgbotapi.InlineKeyboardMarkup {
	cb := func(action string, arg ...string) string {
		data := "pg:" + sessionID + ":" + action
		if len(arg) > 0 {
			data += ":" + arg[0]
		}
		return data
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮", cb("first")),
			tgbotapi.NewInlineKeyboardButtonData("◀️", cb("prev")),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", v.Index, v.Total), cb("jump")),
			tgbotapi.NewInlineKeyboardButtonData("▶️", cb("next")),
			tgbotapi.NewInlineKeyboardButtonData("⏭", cb("last")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Резюме", cb("summary")),
			tgbotapi.NewInlineKeyboardButtonData("🔖 В закладки", cb("bookmark")),
			tgbotapi.NewInlineKeyboardButtonData("🔗 Поделиться", cb("share")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Кратко", cb("style", "compact")),
			tgbotapi.NewInlineKeyboardButtonData("Подробно", cb("style", "detailed")),
			tgbotapi.NewInlineKeyboardButtonData("Обычно", cb("style", "default")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("По дате", cb("sort", "date")),
			tgbotapi.NewInlineKeyboardButtonData("По заголовку", cb("sort", "title")),
			tgbotapi.NewInlineKeyboardButtonData("По источнику", cb("sort", "source")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Закрыть", cb("close")),
		),
	)
	return &markup
}

func (h *Handler) editView(chatID int64, messageID int, sessionID string, v paginator.View) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, renderView(v), *h.sessionKeyboard(sessionID, v))
	edit.ParseMode = tgbotapi.ModeHTML
	start := time.Now()
	_, err := h.bot.Send(edit)
	metrics.ObserveNetworkRequest("telegram_bot", "edit_message", start, err)
	if err != nil {
		metrics.BotSendErrors.Inc()
		h.log.Error().Err(err).Msg("не удалось обновить сообщение")
	}
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	start := time.Now()
	_, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	metrics.ObserveNetworkRequest("telegram_bot", "delete_message", start, err)
	if err != nil {
		h.log.Error().Err(err).Msg("не удалось удалить сообщение")
	}
}

func (h *Handler) answerCallback(callbackID, text string) {
	start := time.Now()
	_, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text))
	metrics.ObserveNetworkRequest("telegram_bot", "answer_callback", start, err)
	if err != nil {
		h.log.Error().Err(err).Msg("не удалось ответить на callback")
	}
}

func (h *Handler) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	h.send(chatID, text, keyboard, "")
}

func (h *Handler) replyHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	h.send(chatID, text, keyboard, tgbotapi.ModeHTML)
}

func (h *Handler) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup, parseMode string) {
	parts := telegram.SplitMessage(text)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = parseMode
		msg.DisableWebPagePreview = parseMode == ""
		if i == 0 && keyboard != nil {
			msg.ReplyMarkup = keyboard
		}
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", start, err)
		if err != nil {
			metrics.BotSendErrors.Inc()
			h.log.Error().Err(err).Int64("chat_id", chatID).Msg("не удалось отправить сообщение")
			return
		}
	}
}

func (h *Handler) parseCount(payload string) int {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return h.defaultCount
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return h.defaultCount
	}
	if n > h.maxCount {
		return h.maxCount
	}
	return n
}

func splitCommand(text string) (string, string) {
	parts := strings.SplitN(text, " ", 2)
	command := parts[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	payload := ""
	if len(parts) > 1 {
		payload = strings.TrimSpace(parts[1])
	}
	return command, payload
}

func (h *Handler) mainKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📬 Ежедневная рассылка", "daily_on"),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Помощь", "help_menu"),
		),
	)
	return &markup
}

func startMessage() string {
	lines := []string{
		"👋 Добро пожаловать в NewsHunt!",
		"",
		"Бот приносит свежие новости прямо в чат:",
		"1. 📰 /news — главные новости вашей страны.",
		"2. 🚨 /flashnews — срочные новости.",
		"3. 🔎 /search golang — поиск по запросу.",
		"4. 🌍 /setcountry de и /setlang ru — страна и язык.",
		"5. 📬 /dailynews — ежедневная подборка каждые 24 часа.",
		"",
		"Полный список команд — /help.",
	}
	return strings.Join(lines, "\n")
}

func helpMessage() string {
	sections := []string{
		"📖 Команды бота:",
		"",
		"Новости:",
		"• /news [N] — главные новости вашей страны.",
		"• /flashnews — срочные новости.",
		"• /category technology [N] — новости категории.",
		"• /search запрос — поиск по запросу.",
		"• /trending [N] — общемировые новости.",
		"• /localnews Berlin — региональные новости.",
		"",
		"Работа со статьями:",
		"• /summarize <ссылка> [short|medium|long] [paragraph|bullet|numbered] — резюме статьи.",
		"• /bookmark <ссылка> [название] — сохранить статью в закладки.",
		"• /bookmarks — ваши закладки.",
		"• /remove_bookmark <номер> — удалить закладку по номеру из списка.",
		"",
		"Настройки:",
		"• /setcountry de — страна новостей.",
		"• /setlang ru en — языки перевода.",
		"• /dailynews — подписка на ежедневную рассылку, /dailynews off — отписка.",
		"• /setchannel — назначить групповой чат для новостей.",
		"",
		"Листайте подборку кнопками под сообщением: навигация, сортировка, резюме и закладки.",
	}
	return strings.Join(sections, "\n")
}
