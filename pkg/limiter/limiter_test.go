package limiter

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityLimiter(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	unlimited := CommunityLimiter{}
	assert.True(t, unlimited.CanOpenSession("issue", id, 1000))
	assert.Equal(t, Unlimited, unlimited.GetRemainingSessions(1000))

	l := CommunityLimiter{MaxSessions: 2}
	assert.True(t, l.CanOpenSession("issue", id, 1))
	assert.False(t, l.CanOpenSession("issue", id, 2))
	assert.Equal(t, 1, l.GetRemainingSessions(1))
	assert.Equal(t, 0, l.GetRemainingSessions(5))
}

func TestExternalLimiter(t *testing.T) {
	allowed := uuid.Must(uuid.NewV4())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/can/open/session/issue/" + allowed.String():
			w.WriteHeader(http.StatusOK)
		case "/remain/sessions":
			w.Header().Set("X-Entity-Remain", r.URL.Query().Get("open"))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	host, err := url.Parse(srv.URL)
	require.NoError(t, err)
	l := NewExternalLimiter(host, CommunityLimiter{MaxSessions: 10})

	assert.True(t, l.CanOpenSession("issue", allowed, 0))
	assert.False(t, l.CanOpenSession("issue", uuid.Must(uuid.NewV4()), 0))
	// локальный лимит проверяется до запроса
	assert.False(t, l.CanOpenSession("issue", allowed, 10))

	assert.Equal(t, 3, l.GetRemainingSessions(3))
	assert.Equal(t, 2, l.GetRemainingSessions(8))
}

func TestExternalLimiterUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host, _ := url.Parse(srv.URL)
	srv.Close()

	l := NewExternalLimiter(host, CommunityLimiter{})
	l.client.RetryMax = 0
	assert.False(t, l.CanOpenSession("doc", uuid.Must(uuid.NewV4()), 0))
	assert.Zero(t, l.GetRemainingSessions(0))
}

func TestNew(t *testing.T) {
	_, ok := New(&config.Config{MaxSessions: 3}).(CommunityLimiter)
	assert.True(t, ok)

	_, ok = New(&config.Config{ExternalLimiter: &url.URL{Scheme: "http", Host: "localhost"}}).(*ExternalLimiter)
	assert.True(t, ok)
}
