package cache

import (
	"sync"
	"time"

	"newshunt-bot/internal/domain"
)

// Memory — потокобезопасный кэш ответов провайдеров с TTL.
// Просроченные записи лениво вытесняются при чтении и периодическим Sweep.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	articles  []domain.Article
	fetchedAt time.Time
}

// NewMemory создаёт кэш с указанным TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

var _ domain.ResponseCache = (*Memory)(nil)

// Get возвращает статьи, если запись ещё не просрочена.
func (c *Memory) Get(key string) ([]domain.Article, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		c.Invalidate(key)
		return nil, false
	}
	out := make([]domain.Article, len(e.articles))
	copy(out, e.articles)
	return out, true
}

// Put сохраняет статьи, целиком заменяя прежнюю запись.
func (c *Memory) Put(key string, articles []domain.Article) {
	stored := make([]domain.Article, len(articles))
	copy(stored, articles)
	c.mu.Lock()
	c.entries[key] = entry{articles: stored, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate удаляет запись по ключу.
func (c *Memory) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Sweep удаляет все просроченные записи.
func (c *Memory) Sweep() {
	now := c.now()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len возвращает число живых записей, включая просроченные до Sweep.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
