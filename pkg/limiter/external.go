package limiter

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// ExternalLimiter проверяет локальный лимит, затем запрашивает внешний сервис.
// Ответ 200 разрешает открытие сессии, любой другой ответ или ошибка сети - запрещает.
type ExternalLimiter struct {
	host   *url.URL
	local  CommunityLimiter
	client *retryablehttp.Client
}

func NewExternalLimiter(host *url.URL, local CommunityLimiter) *ExternalLimiter {
	cl := retryablehttp.NewClient()
	cl.RetryMax = 2
	cl.RetryWaitMin = time.Millisecond * 100
	cl.RetryWaitMax = time.Second
	cl.Logger = slog.Default()
	return &ExternalLimiter{host: host, local: local, client: cl}
}

func (c ExternalLimiter) CanOpenSession(entityType string, entityID uuid.UUID, open int) bool {
	if !c.local.CanOpenSession(entityType, entityID, open) {
		return false
	}
	return c.doRequest(fmt.Sprintf("/can/open/session/%s/%s", entityType, entityID), open)
}

func (c ExternalLimiter) GetRemainingSessions(open int) int {
	remain := c.doRemainRequest("/remain/sessions", open)
	if remain < 0 {
		return 0
	}
	return min(remain, c.local.GetRemainingSessions(open))
}

func (c ExternalLimiter) resolve(path string, open int) string {
	u := c.host.ResolveReference(&url.URL{Path: path})
	u.RawQuery = url.Values{"open": {strconv.Itoa(open)}}.Encode()
	return u.String()
}

func (c ExternalLimiter) doRemainRequest(path string, open int) int {
	resp, err := c.client.Get(c.resolve(path, open))
	if err != nil {
		slog.Error("Request remains", "err", err)
		return -1
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		return -1
	}

	remain, err := strconv.Atoi(resp.Header.Get("X-Entity-Remain"))
	if err != nil {
		slog.Error("Parse remain answer", "raw", resp.Header.Get("X-Entity-Remain"), "err", err)
		return -1
	}
	return remain
}

func (c ExternalLimiter) doRequest(path string, open int) bool {
	resp, err := c.client.Get(c.resolve(path, open))
	if err != nil {
		slog.Error("Request access rule", "err", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == 200
}
