package docedit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/apierrors"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	s *Services
	e *echo.Echo
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, dao.Migrate(db))

	cfg := &config.Config{
		BodyLimit:         config.DefaultBodyLimit,
		SessionTTLMinutes: config.DefaultSessionTTL,
		HistoryLimit:      config.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := NewServices(db, cfg, "test")
	return &testServer{s: s, e: s.Echo()}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, want apierrors.DefinedError) {
	t.Helper()
	assert.Equal(t, want.StatusCode, rec.Code, rec.Body.String())
	got := decode[apierrors.DefinedError](t, rec)
	assert.Equal(t, want.Code, got.Code)
}

const entityPath = "/api/descriptions/issue/6f1c8a5e-7f3d-4a5b-9c44-3f0c1f8e2a10/"

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/_health/", "").Code)

	rec := ts.do(t, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", decode[map[string]any](t, rec)["version"])
	assert.Equal(t, "Docedit", rec.Header().Get(echo.HeaderServer))
}

func TestGetMissingDescription(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, entityPath, "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[DescriptionResponse](t, rec)
	assert.Equal(t, "<p></p>", res.HTML)
	assert.Equal(t, 0, res.Version)
	assert.Len(t, res.Document, 1)
}

func TestUpdateDescriptionHTML(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, entityPath, `{"html":"<div onclick=\"x()\">Hello <b>world</b></div><script>alert(1)</script><ul></ul>"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[DescriptionResponse](t, rec)
	assert.Equal(t, "<p>Hello <strong>world</strong></p><ul><li></li></ul>", res.HTML)
	assert.Equal(t, "Hello world", res.Text)
	assert.Equal(t, 1, res.Version)

	rec = ts.do(t, http.MethodGet, entityPath, "")
	assert.Equal(t, res.HTML, decode[DescriptionResponse](t, rec).HTML)

	rec = ts.do(t, http.MethodPut, entityPath, `{"html":"<p>second</p>"}`)
	assert.Equal(t, 2, decode[DescriptionResponse](t, rec).Version)
}

func TestUpdateDescriptionPlate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, entityPath, `{"document":[{"type":"ol","children":[{"type":"li","children":[{"text":"one","italic":true}]}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "<ol><li><em>one</em></li></ol>", decode[DescriptionResponse](t, rec).HTML)
}

func TestUpdateDescriptionErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
		want apierrors.DefinedError
	}{
		{"entity type", "/api/descriptions/user/6f1c8a5e-7f3d-4a5b-9c44-3f0c1f8e2a10/", `{"html":"<p>a</p>"}`, apierrors.ErrInvalidEntityType},
		{"entity id", "/api/descriptions/issue/42/", `{"html":"<p>a</p>"}`, apierrors.ErrInvalidEntityID},
		{"empty request", entityPath, `{}`, apierrors.ErrValidation},
		{"broken json", entityPath, `{"document":`, apierrors.ErrInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAPIError(t, ts.do(t, http.MethodPut, tt.path, tt.body), tt.want)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.BodyLimit = "1K" })

	body := `{"html":"<p>` + strings.Repeat("a", 4096) + `</p>"}`
	assertAPIError(t, ts.do(t, http.MethodPut, entityPath, body), apierrors.ErrEntityTooLarge)
}

func TestDeleteDescription(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPut, entityPath, `{"html":"<p>a</p>"}`)
	rec := ts.do(t, http.MethodPost, entityPath+"sessions/", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decode[SessionResponse](t, rec)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, entityPath, "").Code)
	assert.Equal(t, "<p></p>", decode[DescriptionResponse](t, ts.do(t, http.MethodGet, entityPath, "")).HTML)
	assertAPIError(t, ts.do(t, http.MethodGet, "/api/sessions/"+sess.ID.String()+"/", ""), apierrors.ErrSessionNotFound)
}

func TestDescriptionMarkdown(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPut, entityPath, `{"html":"<p><strong>a</strong></p><ul><li>b</li></ul>"}`)
	rec := ts.do(t, http.MethodGet, entityPath+"markdown/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "**a**")
	assert.Contains(t, rec.Body.String(), "- b")
}
