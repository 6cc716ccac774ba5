package rss

import (
	"context"
	"sync"
	"time"
)

// Limiter ограничивает число запросов в скользящем окне. При достижении
// лимита Wait блокируется до освобождения окна, а не отбрасывает запрос.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewLimiter создаёт ограничитель: limit запросов за window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Wait блокируется, пока запрос не впишется в окно.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		kept := l.stamps[:0]
		for _, s := range l.stamps {
			if now.Sub(s) < l.window {
				kept = append(kept, s)
			}
		}
		l.stamps = kept

		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.window - now.Sub(l.stamps[0])
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
