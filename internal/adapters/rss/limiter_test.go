package rss

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLimiterUnderLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	slept := 0
	l.sleep = func(ctx context.Context, d time.Duration) error {
		slept++
		return nil
	}
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}
	if slept != 0 {
		t.Fatalf("не ожидали ожиданий до лимита, было %d", slept)
	}
}

func TestLimiterWaitsNotDrops(t *testing.T) {
	now := time.Now()
	l := NewLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	var waited time.Duration
	l.sleep = func(ctx context.Context, d time.Duration) error {
		waited = d
		// имитация прошедшего времени: первый запрос выпал из окна
		now = now.Add(d)
		return nil
	}

	_ = l.Wait(context.Background())
	now = now.Add(10 * time.Second)
	_ = l.Wait(context.Background())

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("запрос должен дождаться окна, а не упасть: %v", err)
	}
	if waited <= 0 {
		t.Fatal("ожидали блокирующее ожидание при достижении лимита")
	}
}

func TestLimiterCancelled(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	_ = l.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("ожидали ошибку отменённого контекста")
	}
}

func TestFeedURL(t *testing.T) {
	u := FeedURL("New York", "en", "us")
	for _, part := range []string{"news.google.com", "hl=en", "gl=US", "ceid=US%3Aen", "q=New+York+news"} {
		if !strings.Contains(u, part) {
			t.Fatalf("в URL нет %q: %s", part, u)
		}
	}
}
