package docedit

import (
	"net/http"
	"strings"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	store "github.com/aisa-it/aiplan/docedit/internal/docedit/memory-store"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectHello = `{"anchor":{"path":[0,0],"offset":0},"focus":{"path":[0,0],"offset":5}}`

func openTestSession(t *testing.T, ts *testServer, html string) string {
	t.Helper()
	if html != "" {
		rec := ts.do(t, http.MethodPut, entityPath, `{"html":"`+html+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := ts.do(t, http.MethodPost, entityPath+"sessions/", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return "/api/sessions/" + decode[SessionResponse](t, rec).ID.String() + "/"
}

func storedHTML(t *testing.T, ts *testServer) DescriptionResponse {
	t.Helper()
	return decode[DescriptionResponse](t, ts.do(t, http.MethodGet, entityPath, ""))
}

func TestSessionEditFlow(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "<p>hello world</p>")

	// выделение не сохраняет описание
	rec := ts.do(t, http.MethodPost, path+"select/", `{"selection":`+selectHello+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, storedHTML(t, ts).Version)

	rec = ts.do(t, http.MethodPost, path+"commands/", `{"command":"bold"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[SessionResponse](t, rec)
	assert.True(t, res.Changed)
	assert.Equal(t, "<p><strong>hello</strong> world</p>", res.HTML)
	assert.Equal(t, []string{"bold"}, res.Marks)
	assert.True(t, res.CanUndo)

	stored := storedHTML(t, ts)
	assert.Equal(t, res.HTML, stored.HTML)
	assert.Equal(t, 2, stored.Version)

	// горячая клавиша идет тем же путем, что и панель инструментов
	rec = ts.do(t, http.MethodPost, path+"commands/", `{"key":"Ctrl+Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = decode[SessionResponse](t, rec)
	assert.True(t, res.Changed)
	assert.Equal(t, "<p>hello world</p>", res.HTML)
	assert.True(t, res.CanRedo)
	assert.Equal(t, "<p>hello world</p>", storedHTML(t, ts).HTML)

	rec = ts.do(t, http.MethodPost, path+"commands/", `{"key":"mod+shift+z"}`)
	assert.Equal(t, "<p><strong>hello</strong> world</p>", decode[SessionResponse](t, rec).HTML)
}

func TestSessionNoopCommandDoesNotPersist(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "<p>a</p>")

	// без выделения команда ничего не меняет
	rec := ts.do(t, http.MethodPost, path+"commands/", `{"command":"italic"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[SessionResponse](t, rec).Changed)
	assert.Equal(t, 1, storedHTML(t, ts).Version)
}

func TestSessionTypingAndTable(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "")

	rec := ts.do(t, http.MethodPost, path+"commands/", `{"selection":{"anchor":{"path":[0,0],"offset":0},"focus":{"path":[0,0],"offset":0}},"text":"title"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "<p>title</p>", decode[SessionResponse](t, rec).HTML)

	rec = ts.do(t, http.MethodPost, path+"commands/", `{"command":"insert-table","rows":2,"cols":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[SessionResponse](t, rec)
	assert.Equal(t, "<p>title</p><table><tr><td></td></tr><tr><td></td></tr></table><p></p>", res.HTML)
	assert.Equal(t, "table-cell", res.BlockKind)

	rec = ts.do(t, http.MethodPost, path+"commands/", `{"command":"insert-column"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, strings.Count(decode[SessionResponse](t, rec).HTML, "<td></td><td></td>"))

	assert.NotEmpty(t, res.Document)
	assert.Contains(t, storedHTML(t, ts).HTML, "<table>")
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "<p>a</p>")

	tests := []struct {
		name string
		path string
		body string
		want apierrors.DefinedError
	}{
		{"unknown command", path + "commands/", `{"command":"paint"}`, apierrors.ErrValidation},
		{"unknown hotkey", path + "commands/", `{"key":"mod+q"}`, apierrors.ErrValidation},
		{"nothing to do", path + "commands/", `{}`, apierrors.ErrCommandRequired},
		{"selection outside", path + "select/", `{"selection":{"anchor":{"path":[5,0],"offset":0},"focus":{"path":[5,0],"offset":0}}}`, apierrors.ErrInvalidSelection},
		{"offset outside", path + "commands/", `{"selection":{"anchor":{"path":[0,0],"offset":9},"focus":{"path":[0,0],"offset":9}},"text":"x"}`, apierrors.ErrInvalidSelection},
		{"bad session id", "/api/sessions/nope/commands/", `{"command":"bold"}`, apierrors.ErrInvalidSessionID},
		{"missing session", "/api/sessions/6f1c8a5e-7f3d-4a5b-9c44-3f0c1f8e2a11/select/", `{"selection":null}`, apierrors.ErrSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAPIError(t, ts.do(t, http.MethodPost, tt.path, tt.body), tt.want)
		})
	}
}

func TestCloseSession(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "<p>a</p>")

	require.Equal(t, 1, ts.s.sessions.Len())
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, path, "").Code)
	assert.Equal(t, 0, ts.s.sessions.Len())
	assertAPIError(t, ts.do(t, http.MethodDelete, path, ""), apierrors.ErrSessionNotFound)
}

func TestSessionsSweepJob(t *testing.T) {
	ts := newTestServer(t)
	openTestSession(t, ts, "<p>a</p>")

	jobs := ts.s.Jobs()
	require.Contains(t, jobs, "sessions_sweep")

	jobs["sessions_sweep"].Func()
	assert.Equal(t, 1, ts.s.sessions.Len())
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.MaxSessions = 1 })
	path := openTestSession(t, ts, "")

	rec := ts.do(t, http.MethodPost, entityPath+"sessions/", "")
	assertAPIError(t, rec, apierrors.ErrSessionLimit)

	// закрытие освобождает место
	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, path, "").Code)
	rec = ts.do(t, http.MethodPost, entityPath+"sessions/", "")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestDeleteDescriptionWaitsForRunningCommand(t *testing.T) {
	ts := newTestServer(t)
	path := openTestSession(t, ts, "<p>a</p>")
	id := uuid.FromStringOrNil(strings.Split(path, "/")[3])
	require.NotEqual(t, uuid.Nil, id)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- ts.s.sessions.Do(id, func(e *store.Entry) error {
			close(started)
			<-release
			if err := e.Session.Select(edtypes.Caret(edtypes.Path{0, 0}, 1)); err != nil {
				return err
			}
			e.Session.InsertText("b")
			return e.PersistErr
		})
	}()
	<-started

	deleted := make(chan int)
	go func() { deleted <- ts.do(t, http.MethodDelete, entityPath, "").Code }()
	close(release)

	require.NoError(t, <-done)
	require.Equal(t, http.StatusNoContent, <-deleted)

	// сохранение из команды произошло до удаления и не восстановило описание
	stored := storedHTML(t, ts)
	assert.Equal(t, "<p></p>", stored.HTML)
	assert.Zero(t, stored.Version)
	assertAPIError(t, ts.do(t, http.MethodGet, path, ""), apierrors.ErrSessionNotFound)
}

func TestSessionLimitConcurrentOpen(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.MaxSessions = 2 })

	codes := make(chan int, 10)
	for i := 0; i < 10; i++ {
		go func() { codes <- ts.do(t, http.MethodPost, entityPath+"sessions/", "").Code }()
	}

	created := 0
	for i := 0; i < 10; i++ {
		switch code := <-codes; code {
		case http.StatusCreated:
			created++
		default:
			assert.Equal(t, http.StatusTooManyRequests, code)
		}
	}
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, ts.s.sessions.Len())
}
