// Реестр открытых сессий редактирования в памяти процесса.
package store

import (
	"sync"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/session"
	"github.com/gofrs/uuid"
)

const DefaultSessionTTL = 30 * time.Minute

// Entry - открытая сессия и описание, к которому она привязана.
// Команды над одной сессией выполняются последовательно под mu.
type Entry struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Session    *session.Session

	// Ошибка сохранения последнего изменения. Пишется из onChange сессии под mu.
	PersistErr error

	mu       sync.Mutex
	lastUsed time.Time
	// Закрытая сессия больше не выполняет команды, даже если на нее осталась ссылка.
	closed bool
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Entry
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

// NewSessionStore создает реестр. limit ограничивает число открытых сессий, 0 - без ограничений.
func NewSessionStore(ttl time.Duration, limit int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Entry),
		ttl:      ttl,
		limit:    max(limit, 0),
		now:      time.Now,
	}
}

// Open регистрирует сессию под новым идентификатором. Проверка лимита и вставка выполняются под одной блокировкой,
// при достижении лимита возвращается apierrors.ErrSessionLimit.
func (ss *SessionStore) Open(entityType string, entityID uuid.UUID, s *session.Session) (*Entry, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	e := &Entry{
		ID:         id,
		EntityType: entityType,
		EntityID:   entityID,
		Session:    s,
		lastUsed:   ss.now(),
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.limit > 0 && len(ss.sessions) >= ss.limit {
		return nil, apierrors.ErrSessionLimit
	}
	ss.sessions[id] = e
	return e, nil
}

// Do выполняет fn над сессией, не допуская параллельных команд в одну сессию.
func (ss *SessionStore) Do(id uuid.UUID, fn func(e *Entry) error) error {
	ss.mu.RLock()
	e, ok := ss.sessions[id]
	ss.mu.RUnlock()
	if !ok {
		return apierrors.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Сессию могли закрыть, пока команда ждала блокировку
	if e.closed {
		return apierrors.ErrSessionNotFound
	}
	e.lastUsed = ss.now()
	return fn(e)
}

func (ss *SessionStore) Close(id uuid.UUID) error {
	ss.mu.Lock()
	e, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()
	if !ok {
		return apierrors.ErrSessionNotFound
	}
	e.close()
	return nil
}

// CloseEntity закрывает все сессии описания, например перед его удалением. Возвращает число закрытых сессий.
// Возврат происходит после завершения выполняющихся команд этих сессий, новые команды получают ErrSessionNotFound.
func (ss *SessionStore) CloseEntity(entityType string, entityID uuid.UUID) int {
	var closed []*Entry
	ss.mu.Lock()
	for id, e := range ss.sessions {
		if e.EntityType == entityType && e.EntityID == entityID {
			delete(ss.sessions, id)
			closed = append(closed, e)
		}
	}
	ss.mu.Unlock()

	for _, e := range closed {
		e.close()
	}
	return len(closed)
}

// close ждет выполняющуюся команду и помечает сессию закрытой.
func (e *Entry) close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Sweep удаляет сессии, не использовавшиеся дольше ttl к моменту now. Возвращает число удаленных.
func (ss *SessionStore) Sweep(now time.Time) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	n := 0
	for id, e := range ss.sessions {
		// Сессия с выполняющейся командой занята и не истекает
		if !e.mu.TryLock() {
			continue
		}
		expired := now.Sub(e.lastUsed) > ss.ttl
		if expired {
			e.closed = true
			delete(ss.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}
