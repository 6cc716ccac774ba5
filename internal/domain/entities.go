package domain

import "time"

// Article — каноничная форма статьи независимо от провайдера.
type Article struct {
	Title        string
	URL          string
	Description  string
	SourceName   string
	PublishedAt  time.Time
	PublishedRaw string
	ImageURL     string
	RawSummary   string
}

// Valid сообщает, достаточно ли данных, чтобы статья попала в выдачу.
func (a Article) Valid() bool {
	return a.Title != "" && a.URL != ""
}

// RawHeadline — сырые данные статьи от NewsAPI.
type RawHeadline struct {
	SourceName  string
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt string
}

// RawFeedItem — сырая запись RSS-ленты.
type RawFeedItem struct {
	Title     string
	Link      string
	Summary   string
	Published string
	ImageURL  string
	Source    string
}

// UserPrefs хранит настройки пользователя.
type UserPrefs struct {
	UserID    int64
	Country   string
	Languages []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bookmark — сохранённая пользователем статья.
type Bookmark struct {
	UserID  int64
	URL     string
	Title   string
	AddedAt time.Time
}

// GuildSettings хранит настройки сервера (гильдии).
type GuildSettings struct {
	GuildID       int64
	NewsChannelID int64
}

// Extracted содержит результат извлечения полного текста статьи.
type Extracted struct {
	Title    string
	Authors  []string
	TopImage string
	Excerpt  string
	Text     string
}

// SummaryLength задаёт объём резюме.
type SummaryLength string

const (
	SummaryShort  SummaryLength = "short"
	SummaryMedium SummaryLength = "medium"
	SummaryLong   SummaryLength = "long"
)

// Sentences возвращает число предложений для выбранного объёма.
func (l SummaryLength) Sentences() int {
	switch l {
	case SummaryShort:
		return 2
	case SummaryLong:
		return 5
	default:
		return 3
	}
}

// Known сообщает, поддерживается ли объём.
func (l SummaryLength) Known() bool {
	switch l {
	case SummaryShort, SummaryMedium, SummaryLong:
		return true
	}
	return false
}

// SummaryStyle задаёт формат резюме.
type SummaryStyle string

const (
	StyleParagraph SummaryStyle = "paragraph"
	StyleBullet    SummaryStyle = "bullet"
	StyleNumbered  SummaryStyle = "numbered"
)

// Known сообщает, поддерживается ли формат.
func (s SummaryStyle) Known() bool {
	switch s {
	case StyleParagraph, StyleBullet, StyleNumbered:
		return true
	}
	return false
}

// ArticleSummary — готовое резюме статьи.
type ArticleSummary struct {
	URL     string
	Text    string
	Length  SummaryLength
	Style   SummaryStyle
	Meta    Extracted
	Keyword []string
}
