package digest

import (
	"fmt"
	"html"
	"strings"

	"newshunt-bot/internal/domain"
)

const descriptionMaxRunes = 700

// FormatArticle формирует HTML-представление статьи для отправки в чат.
func FormatArticle(a domain.Article) string {
	var sections []string

	sections = append(sections, "📰 <b>"+escapeHTML(a.Title)+"</b>")

	if desc := strings.TrimSpace(a.Description); desc != "" {
		sections = append(sections, escapeHTML(clipRunes(desc, descriptionMaxRunes)))
	}

	var meta []string
	if a.SourceName != "" {
		meta = append(meta, escapeHTML(a.SourceName))
	}
	if !a.PublishedAt.IsZero() {
		meta = append(meta, a.PublishedAt.Format("02.01.2006 15:04"))
	} else if raw := strings.TrimSpace(a.PublishedRaw); raw != "" {
		meta = append(meta, escapeHTML(raw))
	}
	if len(meta) > 0 {
		sections = append(sections, "<i>"+strings.Join(meta, " · ")+"</i>")
	}

	if a.URL != "" {
		sections = append(sections, fmt.Sprintf(`<a href="%s">Читать полностью</a>`, escapeHTML(a.URL)))
	}

	return strings.Join(sections, "\n\n")
}

// FormatSummary формирует HTML-представление резюме статьи.
func FormatSummary(s domain.ArticleSummary) string {
	var sections []string

	title := strings.TrimSpace(s.Meta.Title)
	if title == "" {
		title = s.URL
	}
	sections = append(sections, "📝 <b>"+escapeHTML(title)+"</b>")
	sections = append(sections, escapeHTML(s.Text))

	if len(s.Keyword) > 0 {
		sections = append(sections, "<i>Ключевые слова: "+escapeHTML(strings.Join(s.Keyword, ", "))+"</i>")
	}
	return strings.Join(sections, "\n\n")
}

func escapeHTML(text string) string {
	return html.EscapeString(text)
}

func clipRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
