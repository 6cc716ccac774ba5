package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
)

type stubSubs struct {
	subscribers  []int64
	unsubscribed []int64
}

func (s *stubSubs) Subscribe(ctx context.Context, userID int64) error { return nil }

func (s *stubSubs) Unsubscribe(ctx context.Context, userID int64) error {
	s.unsubscribed = append(s.unsubscribed, userID)
	return nil
}

func (s *stubSubs) ListSubscribers(ctx context.Context) ([]int64, error) {
	return s.subscribers, nil
}

type stubPrefs struct {
	countries map[int64]string
	languages map[int64][]string
}

func (s *stubPrefs) Register(ctx context.Context, userID int64) error { return nil }
func (s *stubPrefs) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	return true, nil
}
func (s *stubPrefs) SetCountry(ctx context.Context, userID int64, country string) error { return nil }

func (s *stubPrefs) GetCountry(ctx context.Context, userID int64) (string, error) {
	if c, ok := s.countries[userID]; ok {
		return c, nil
	}
	return "us", nil
}

func (s *stubPrefs) SetLanguages(ctx context.Context, userID int64, languages []string) error {
	return nil
}

func (s *stubPrefs) GetLanguages(ctx context.Context, userID int64) ([]string, error) {
	if l, ok := s.languages[userID]; ok {
		return l, nil
	}
	return []string{"en"}, nil
}

type stubFetcher struct {
	articles []domain.Article
}

func (s *stubFetcher) TopHeadlines(ctx context.Context, country string, count int, breaking bool) []domain.Article {
	return s.articles
}

type stubDeliverer struct {
	delivered map[int64]int
	failWith  map[int64]error
}

func newStubDeliverer() *stubDeliverer {
	return &stubDeliverer{delivered: map[int64]int{}, failWith: map[int64]error{}}
}

func (s *stubDeliverer) SendArticle(ctx context.Context, chatID int64, article domain.Article) error {
	if err := s.failWith[chatID]; err != nil {
		return err
	}
	s.delivered[chatID]++
	return nil
}

type passTranslator struct{}

func (passTranslator) Translate(ctx context.Context, text, dest string) string { return text }

func digestArticles(n int) []domain.Article {
	out := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Article{
			Title: "Новость " + string(rune('A'+i)),
			URL:   "https://example.com/" + string(rune('a'+i)),
		})
	}
	return out
}

func TestRunCycleSubscriberIsolation(t *testing.T) {
	subs := &stubSubs{subscribers: []int64{1, 2, 3}}
	deliverer := newStubDeliverer()
	deliverer.failWith[2] = domain.ErrDeliveryForbidden

	svc := NewService(subs, &stubPrefs{}, nil, &stubFetcher{articles: digestArticles(2)}, passTranslator{}, deliverer, 5, zerolog.Nop())
	svc.RunCycle(context.Background())

	if deliverer.delivered[1] != 2 || deliverer.delivered[3] != 2 {
		t.Fatalf("подписчики 1 и 3 должны получить рассылку: %v", deliverer.delivered)
	}
	if deliverer.delivered[2] != 0 {
		t.Fatalf("подписчик 2 не должен получить статей: %v", deliverer.delivered)
	}
	if len(subs.unsubscribed) != 1 || subs.unsubscribed[0] != 2 {
		t.Fatalf("закрытые личные сообщения должны отписывать: %v", subs.unsubscribed)
	}
}

func TestRunCycleTransientErrorNotUnsubscribed(t *testing.T) {
	subs := &stubSubs{subscribers: []int64{1, 2}}
	deliverer := newStubDeliverer()
	deliverer.failWith[1] = errors.New("сетевой сбой")

	svc := NewService(subs, &stubPrefs{}, nil, &stubFetcher{articles: digestArticles(1)}, passTranslator{}, deliverer, 5, zerolog.Nop())
	svc.RunCycle(context.Background())

	if len(subs.unsubscribed) != 0 {
		t.Fatalf("временный сбой не должен отписывать: %v", subs.unsubscribed)
	}
	if deliverer.delivered[2] != 1 {
		t.Fatal("сбой одного подписчика не должен блокировать остальных")
	}
}

func TestRunCycleTranslatesForNonEnglish(t *testing.T) {
	translated := 0
	tr := translatorFunc(func(ctx context.Context, text, dest string) string {
		translated++
		return "[" + dest + "] " + text
	})

	subs := &stubSubs{subscribers: []int64{7}}
	prefs := &stubPrefs{languages: map[int64][]string{7: {"es"}}}
	deliverer := newStubDeliverer()

	svc := NewService(subs, prefs, nil, &stubFetcher{articles: digestArticles(2)}, tr, deliverer, 5, zerolog.Nop())
	svc.RunCycle(context.Background())

	if translated != 4 {
		t.Fatalf("заголовок и описание каждой статьи переводятся: %d вызовов", translated)
	}
}

func TestRunCycleSkipsTranslationForEnglish(t *testing.T) {
	translated := 0
	tr := translatorFunc(func(ctx context.Context, text, dest string) string {
		translated++
		return text
	})

	subs := &stubSubs{subscribers: []int64{7}}
	deliverer := newStubDeliverer()

	svc := NewService(subs, &stubPrefs{}, nil, &stubFetcher{articles: digestArticles(2)}, tr, deliverer, 5, zerolog.Nop())
	svc.RunCycle(context.Background())

	if translated != 0 {
		t.Fatalf("английский язык не требует перевода: %d вызовов", translated)
	}
}

type translatorFunc func(ctx context.Context, text, dest string) string

func (f translatorFunc) Translate(ctx context.Context, text, dest string) string {
	return f(ctx, text, dest)
}

type stubGuilds struct {
	channels []int64
	err      error
}

func (s *stubGuilds) SetNewsChannel(ctx context.Context, guildID, channelID int64) error { return nil }
func (s *stubGuilds) NewsChannel(ctx context.Context, guildID int64) (int64, error)      { return 0, nil }
func (s *stubGuilds) ListNewsChannels(ctx context.Context) ([]int64, error) {
	return s.channels, s.err
}

func TestRunCycleDeliversToConfiguredChannels(t *testing.T) {
	subs := &stubSubs{subscribers: []int64{1}}
	guilds := &stubGuilds{channels: []int64{-100, -200}}
	deliverer := newStubDeliverer()
	svc := NewService(subs, &stubPrefs{}, guilds, &stubFetcher{articles: digestArticles(2)}, passTranslator{}, deliverer, 5, zerolog.Nop())

	svc.RunCycle(context.Background())

	if deliverer.delivered[1] != 2 {
		t.Fatalf("подписчик должен получить 2 статьи, получил %d", deliverer.delivered[1])
	}
	if deliverer.delivered[-100] != 2 || deliverer.delivered[-200] != 2 {
		t.Fatalf("каналы должны получить подборку: %v", deliverer.delivered)
	}
}

func TestRunCycleChannelFailureDoesNotUnsubscribe(t *testing.T) {
	subs := &stubSubs{subscribers: []int64{1}}
	guilds := &stubGuilds{channels: []int64{-100, -200}}
	deliverer := newStubDeliverer()
	deliverer.failWith[-100] = domain.ErrDeliveryForbidden
	svc := NewService(subs, &stubPrefs{}, guilds, &stubFetcher{articles: digestArticles(1)}, passTranslator{}, deliverer, 5, zerolog.Nop())

	svc.RunCycle(context.Background())

	if len(subs.unsubscribed) != 0 {
		t.Fatalf("сбой канала не должен никого отписывать: %v", subs.unsubscribed)
	}
	if deliverer.delivered[-200] != 1 {
		t.Fatalf("сбой одного канала не должен блокировать остальные: %v", deliverer.delivered)
	}
}
