package paginator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"newshunt-bot/internal/domain"
)

// Ошибки действий над сессией. Каждая превращается диспетчером
// в уведомление, видимое только инициатору.
var (
	ErrNotOwner  = errors.New("сессия принадлежит другому пользователю")
	ErrBadIndex  = errors.New("номер статьи вне диапазона")
	ErrBadOption = errors.New("неизвестный вариант")
	ErrExpired   = errors.New("сессия истекла")
	ErrNotFound  = errors.New("сессия не найдена")
)

// Style задаёт способ отображения статьи.
type Style string

const (
	StyleDefault  Style = "default"
	StyleCompact  Style = "compact"
	StyleDetailed Style = "detailed"
)

// Known сообщает, входит ли стиль в набор поддерживаемых.
func (s Style) Known() bool {
	switch s {
	case StyleDefault, StyleCompact, StyleDetailed:
		return true
	}
	return false
}

// SortKey задаёт порядок статей в сессии.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortTitle  SortKey = "title"
	SortSource SortKey = "source"
)

// Known сообщает, входит ли ключ в набор поддерживаемых.
func (k SortKey) Known() bool {
	switch k {
	case SortDate, SortTitle, SortSource:
		return true
	}
	return false
}

// bodyMaxLen — предел длины тела под ограничение подписи к сообщению.
const bodyMaxLen = 1024

// View — готовый к отправке снимок текущей статьи.
type View struct {
	Title    string
	Body     string
	URL      string
	ImageURL string
	Footer   string
	Index    int
	Total    int
}

// Session хранит список статей одного обращения и курсор по нему.
// Все действия сериализуются мьютексом: порядок нажатий владельца
// применяется строго последовательно.
type Session struct {
	mu         sync.Mutex
	id         string
	ownerID    int64
	articles   []domain.Article
	cursor     int
	style      Style
	sortKey    SortKey
	createdAt  time.Time
	lastActive time.Time
	deleted    bool
}

func newSession(id string, ownerID int64, articles []domain.Article, now time.Time) *Session {
	return &Session{
		id:         id,
		ownerID:    ownerID,
		articles:   articles,
		style:      StyleDefault,
		sortKey:    SortDate,
		createdAt:  now,
		lastActive: now,
	}
}

// ID возвращает идентификатор сессии для callback-данных.
func (s *Session) ID() string { return s.id }

// OwnerID возвращает владельца сессии.
func (s *Session) OwnerID() int64 { return s.ownerID }

// guard проверяет владельца и активность, продлевая окно простоя.
// Вызывается под мьютексом.
func (s *Session) guard(actorID int64, now time.Time) error {
	if s.deleted {
		return ErrExpired
	}
	if actorID != s.ownerID {
		return ErrNotOwner
	}
	s.lastActive = now
	return nil
}

// First ставит курсор на первую статью.
func (s *Session) First(actorID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	s.cursor = 0
	return nil
}

// Last ставит курсор на последнюю статью.
func (s *Session) Last(actorID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if n := len(s.articles); n > 0 {
		s.cursor = n - 1
	}
	return nil
}

// Next двигает курсор вперёд с переходом через конец списка.
func (s *Session) Next(actorID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if n := len(s.articles); n > 0 {
		s.cursor = (s.cursor + 1) % n
	}
	return nil
}

// Prev двигает курсор назад с переходом через начало списка.
func (s *Session) Prev(actorID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if n := len(s.articles); n > 0 {
		s.cursor = (s.cursor - 1 + n) % n
	}
	return nil
}

// Jump ставит курсор на статью с номером n (нумерация с единицы).
func (s *Session) Jump(actorID int64, n int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if n < 1 || n > len(s.articles) {
		return ErrBadIndex
	}
	s.cursor = n - 1
	return nil
}

// SetStyle меняет способ отображения, не трогая курсор.
func (s *Session) SetStyle(actorID int64, style Style, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if !style.Known() {
		return ErrBadOption
	}
	s.style = style
	return nil
}

// SetSort пересортировывает статьи и сбрасывает курсор на начало.
func (s *Session) SetSort(actorID int64, key SortKey, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	if !key.Known() {
		return ErrBadOption
	}
	s.sortKey = key
	sortArticles(s.articles, key)
	s.cursor = 0
	return nil
}

func sortArticles(articles []domain.Article, key SortKey) {
	switch key {
	case SortDate:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		})
	case SortTitle:
		sort.SliceStable(articles, func(i, j int) bool {
			return strings.ToLower(articles[i].Title) < strings.ToLower(articles[j].Title)
		})
	case SortSource:
		sort.SliceStable(articles, func(i, j int) bool {
			return strings.ToLower(articles[i].SourceName) < strings.ToLower(articles[j].SourceName)
		})
	}
}

// Current возвращает статью под курсором.
func (s *Session) Current(actorID int64, now time.Time) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return domain.Article{}, err
	}
	if len(s.articles) == 0 {
		return domain.Article{}, ErrBadIndex
	}
	return s.articles[s.cursor], nil
}

// Delete завершает сессию; дальнейшие действия отклоняются.
func (s *Session) Delete(actorID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(actorID, now); err != nil {
		return err
	}
	s.deleted = true
	return nil
}

// Render строит снимок текущей статьи. Чистая функция состояния:
// ничего не мутирует и не продлевает окно простоя.
func (s *Session) Render() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.articles)
	if total == 0 {
		return View{Title: "Новостей нет", Footer: "Article 0 of 0"}
	}

	art := s.articles[s.cursor]
	v := View{
		Title:    art.Title,
		URL:      art.URL,
		ImageURL: art.ImageURL,
		Index:    s.cursor + 1,
		Total:    total,
		Footer:   fmt.Sprintf("Article %d of %d", s.cursor+1, total),
	}

	switch s.style {
	case StyleCompact:
		v.Body = truncate(art.Description, 200)
		v.ImageURL = ""
	case StyleDetailed:
		parts := []string{art.Description}
		if art.SourceName != "" {
			parts = append(parts, "Источник: "+art.SourceName)
		}
		if !art.PublishedAt.IsZero() {
			parts = append(parts, "Дата: "+art.PublishedAt.Format("02.01.2006 15:04"))
		} else if art.PublishedRaw != "" {
			parts = append(parts, "Дата: "+art.PublishedRaw)
		}
		v.Body = truncate(strings.Join(parts, "\n\n"), bodyMaxLen)
	default:
		v.Body = truncate(art.Description, bodyMaxLen)
	}
	return v
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}

// idleSince сообщает, истекло ли окно простоя к моменту now.
func (s *Session) idleSince(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted || now.Sub(s.lastActive) >= ttl
}
