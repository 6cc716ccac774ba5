package paginator

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
)

func sampleArticles() []domain.Article {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Article{
		{Title: "Гамма", URL: "https://example.com/3", SourceName: "BBC", PublishedAt: base.Add(-2 * time.Hour)},
		{Title: "альфа", URL: "https://example.com/1", SourceName: "CNN", PublishedAt: base},
		{Title: "Бета", URL: "https://example.com/2", SourceName: "Reuters", PublishedAt: base.Add(-time.Hour)},
	}
}

func testRegistry(ttl time.Duration, now func() time.Time) *Registry {
	r := NewRegistry(ttl, zerolog.Nop())
	if now != nil {
		r.now = now
	}
	return r
}

func TestWraparound(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	if err := s.Prev(1, now); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if s.cursor != 2 {
		t.Fatalf("prev с первой статьи должен дать последнюю, курсор %d", s.cursor)
	}
	if err := s.Next(1, now); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if s.cursor != 0 {
		t.Fatalf("next с последней статьи должен дать первую, курсор %d", s.cursor)
	}
}

func TestFirstLast(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	_ = s.Last(1, now)
	if s.cursor != 2 {
		t.Fatalf("last должен дать курсор 2, получили %d", s.cursor)
	}
	_ = s.First(1, now)
	if s.cursor != 0 {
		t.Fatalf("first должен дать курсор 0, получили %d", s.cursor)
	}
}

func TestJumpBounds(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	if err := s.Jump(1, 0, now); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("jump(0) должен отклоняться: %v", err)
	}
	if err := s.Jump(1, 4, now); !errors.Is(err, ErrBadIndex) {
		t.Fatalf("jump(N+1) должен отклоняться: %v", err)
	}
	if err := s.Jump(1, 1, now); err != nil || s.cursor != 0 {
		t.Fatalf("jump(1) должен дать курсор 0: err=%v cursor=%d", err, s.cursor)
	}
	if err := s.Jump(1, 3, now); err != nil || s.cursor != 2 {
		t.Fatalf("jump(N) должен дать курсор N-1: err=%v cursor=%d", err, s.cursor)
	}
}

func TestSortIdempotent(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	_ = s.SetSort(1, SortTitle, now)
	once := make([]string, len(s.articles))
	for i, a := range s.articles {
		once[i] = a.Title
	}
	_ = s.SetSort(1, SortTitle, now)
	for i, a := range s.articles {
		if a.Title != once[i] {
			t.Fatalf("повторная сортировка изменила порядок: %q != %q", a.Title, once[i])
		}
	}
	if once[0] != "альфа" || once[1] != "Бета" || once[2] != "Гамма" {
		t.Fatalf("сортировка по заголовку должна быть без учёта регистра: %v", once)
	}
}

func TestSortResetsCursor(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	_ = s.Last(1, now)
	_ = s.SetSort(1, SortDate, now)
	if s.cursor != 0 {
		t.Fatalf("сортировка должна сбрасывать курсор, получили %d", s.cursor)
	}
	if s.articles[0].Title != "альфа" {
		t.Fatalf("сортировка по дате — по убыванию, первая статья %q", s.articles[0].Title)
	}
}

func TestOwnershipLeavesStateUnchanged(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	_ = s.Next(1, now)
	before := s.cursor

	if err := s.Next(2, now); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("чужое действие должно отклоняться: %v", err)
	}
	if err := s.SetSort(2, SortTitle, now); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("чужая сортировка должна отклоняться: %v", err)
	}
	if s.cursor != before || s.sortKey != SortDate {
		t.Fatal("чужое действие не должно менять состояние сессии")
	}
}

func TestUnknownOptionsRejected(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	if err := s.SetStyle(1, Style("fancy"), now); !errors.Is(err, ErrBadOption) {
		t.Fatalf("неизвестный стиль должен отклоняться: %v", err)
	}
	if err := s.SetSort(1, SortKey("rating"), now); !errors.Is(err, ErrBadOption) {
		t.Fatalf("неизвестный ключ сортировки должен отклоняться: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := testRegistry(5*time.Minute, func() time.Time { return current })
	s := r.Create(1, sampleArticles())

	if _, err := r.Get(s.ID()); err != nil {
		t.Fatalf("свежая сессия должна находиться: %v", err)
	}

	current = current.Add(5 * time.Minute)
	if _, err := r.Get(s.ID()); !errors.Is(err, ErrExpired) {
		t.Fatalf("по истечении простоя ожидали ErrExpired: %v", err)
	}
	if _, err := r.Get(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("истёкшая сессия удаляется из реестра: %v", err)
	}
}

func TestActionResetsIdleWindow(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := testRegistry(5*time.Minute, func() time.Time { return current })
	s := r.Create(1, sampleArticles())

	current = current.Add(4 * time.Minute)
	if err := s.Next(1, current); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	current = current.Add(4 * time.Minute)
	if _, err := r.Get(s.ID()); err != nil {
		t.Fatalf("действие должно продлевать окно простоя: %v", err)
	}
}

func TestDeleteTerminal(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	if err := s.Delete(1, now); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if err := s.Next(1, now); !errors.Is(err, ErrExpired) {
		t.Fatalf("действие после удаления должно отклоняться: %v", err)
	}
}

func TestRenderFooter(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, sampleArticles())
	now := time.Now()

	_ = s.Next(1, now)
	v := s.Render()
	if v.Footer != "Article 2 of 3" {
		t.Fatalf("неверный футер: %q", v.Footer)
	}
	if v.Title != "альфа" {
		t.Fatalf("неверная статья под курсором: %q", v.Title)
	}
}

func TestRenderEmptyState(t *testing.T) {
	r := testRegistry(time.Minute, nil)
	s := r.Create(1, nil)

	v := s.Render()
	if v.Total != 0 || v.Title == "" {
		t.Fatalf("пустая сессия должна давать явное пустое состояние: %+v", v)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := testRegistry(5*time.Minute, func() time.Time { return current })
	old := r.Create(1, sampleArticles())

	current = current.Add(3 * time.Minute)
	fresh := r.Create(2, sampleArticles())

	current = current.Add(3 * time.Minute)
	r.Sweep()

	if _, err := r.Get(old.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("истёкшая сессия должна быть убрана: %v", err)
	}
	if _, err := r.Get(fresh.ID()); err != nil {
		t.Fatalf("живая сессия должна остаться: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("ожидали одну живую сессию, получили %d", r.Len())
	}
}
