package store

import (
	"sync"
	"testing"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/session"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, now *time.Time) *SessionStore {
	t.Helper()
	ss := NewSessionStore(time.Minute, 0)
	ss.now = func() time.Time { return *now }
	return ss
}

func touch(ss *SessionStore, id uuid.UUID) error {
	return ss.Do(id, func(*Entry) error { return nil })
}

func TestOpenDoClose(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ss := newStore(t, &now)

	entityID := uuid.Must(uuid.NewV4())
	e, err := ss.Open("issue", entityID, session.New("<p>a</p>", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, ss.Len())

	require.NoError(t, ss.Do(e.ID, func(got *Entry) error {
		assert.Equal(t, "<p>a</p>", got.Session.HTML())
		assert.Equal(t, entityID, got.EntityID)
		return nil
	}))

	require.NoError(t, ss.Close(e.ID))
	assert.ErrorIs(t, touch(ss, e.ID), apierrors.ErrSessionNotFound)
	assert.ErrorIs(t, ss.Close(e.ID), apierrors.ErrSessionNotFound)
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ss := newStore(t, &now)

	old, _ := ss.Open("doc", uuid.Must(uuid.NewV4()), session.New("", nil))
	now = now.Add(50 * time.Second)
	fresh, _ := ss.Open("doc", uuid.Must(uuid.NewV4()), session.New("", nil))

	assert.Equal(t, 1, ss.Sweep(now.Add(20*time.Second)))
	assert.Error(t, touch(ss, old.ID))
	assert.NoError(t, touch(ss, fresh.ID))
}

func TestDoRefreshesTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ss := newStore(t, &now)

	e, _ := ss.Open("doc", uuid.Must(uuid.NewV4()), session.New("", nil))
	now = now.Add(50 * time.Second)
	require.NoError(t, touch(ss, e.ID))

	assert.Equal(t, 0, ss.Sweep(now.Add(30*time.Second)))
	assert.Equal(t, 1, ss.Sweep(now.Add(2*time.Minute)))
}

func TestCloseEntity(t *testing.T) {
	now := time.Now()
	ss := newStore(t, &now)

	id := uuid.Must(uuid.NewV4())
	ss.Open("issue", id, session.New("", nil))
	ss.Open("issue", id, session.New("", nil))
	ss.Open("project", id, session.New("", nil))

	assert.Equal(t, 2, ss.CloseEntity("issue", id))
	assert.Equal(t, 1, ss.Len())
}

func TestDoSerializesCommands(t *testing.T) {
	ss := NewSessionStore(time.Minute, 0)
	changes := 0
	e, _ := ss.Open("doc", uuid.Must(uuid.NewV4()), session.New("", func(string) { changes++ }))
	require.NoError(t, e.Session.Select(edtypes.Caret(edtypes.Path{0, 0}, 0)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ss.Do(e.ID, func(e *Entry) error {
				e.Session.InsertText("a")
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, changes)
	assert.Equal(t, "<p>aaaaaaaaaaaaaaaaaaaa</p>", e.Session.HTML())
}

func TestOpenLimit(t *testing.T) {
	ss := NewSessionStore(time.Minute, 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	opened, refused := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ss.Open("issue", uuid.Must(uuid.NewV4()), session.New("", nil))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, apierrors.ErrSessionLimit)
				refused++
				return
			}
			opened++
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, opened)
	assert.Equal(t, 17, refused)
	assert.Equal(t, 3, ss.Len())
}

func TestCloseEntityWaitsForRunningCommand(t *testing.T) {
	ss := NewSessionStore(time.Minute, 0)
	entityID := uuid.Must(uuid.NewV4())
	e, err := ss.Open("issue", entityID, session.New("", nil))
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		_ = ss.Do(e.ID, func(*Entry) error {
			close(started)
			<-release
			return nil
		})
		close(finished)
	}()
	<-started

	closed := make(chan int)
	go func() { closed <- ss.CloseEntity("issue", entityID) }()

	select {
	case <-closed:
		t.Fatal("CloseEntity returned while a command was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-finished
	assert.Equal(t, 1, <-closed)

	assert.ErrorIs(t, touch(ss, e.ID), apierrors.ErrSessionNotFound)
	e.mu.Lock()
	assert.True(t, e.closed)
	e.mu.Unlock()
}
