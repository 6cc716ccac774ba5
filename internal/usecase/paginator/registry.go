package paginator

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"newshunt-bot/internal/domain"
	"newshunt-bot/internal/infra/metrics"
)

// Registry хранит живые сессии пагинации по идентификатору.
// Сессия, простоявшая без действий дольше ttl, считается истёкшей:
// обращение к ней возвращает ErrExpired, а уборщик её удаляет.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	log      zerolog.Logger

	now func() time.Time
}

// NewRegistry создаёт реестр сессий с окном простоя ttl.
func NewRegistry(ttl time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Create заводит сессию для владельца и возвращает её.
func (r *Registry) Create(ownerID int64, articles []domain.Article) *Session {
	s := newSession(uuid.NewString(), ownerID, articles, r.now())

	r.mu.Lock()
	r.sessions[s.id] = s
	metrics.PaginatorSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	return s
}

// Get возвращает активную сессию по идентификатору.
// Истёкшая сессия удаляется на месте и отдаётся как ErrExpired.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.idleSince(r.now(), r.ttl) {
		delete(r.sessions, id)
		metrics.PaginatorSessionsActive.Set(float64(len(r.sessions)))
		return nil, ErrExpired
	}
	return s, nil
}

// Remove удаляет сессию из реестра.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	metrics.PaginatorSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()
}

// Sweep удаляет все истёкшие сессии. Запускается по таймеру.
func (r *Registry) Sweep() {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.idleSince(now, r.ttl) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.PaginatorSessionsActive.Set(float64(len(r.sessions)))
	if removed > 0 {
		r.log.Debug().Int("removed", removed).Int("alive", len(r.sessions)).Msg("уборка сессий пагинации")
	}
}

// Len возвращает число живых сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
