// Ограничение числа одновременно открытых сессий редактирования.
//
// CommunityLimiter считает только локальный лимит MAX_SESSIONS. ExternalLimiter дополнительно спрашивает
// разрешение у внешнего сервиса по EXTERNAL_LIMITER_URL.
package limiter

import (
	"log/slog"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/gofrs/uuid"
)

// Unlimited - остаток при отсутствии лимита.
const Unlimited = 99999999

type LimiterInt interface {
	// open - число уже открытых сессий сервера
	CanOpenSession(entityType string, entityID uuid.UUID, open int) bool
	GetRemainingSessions(open int) int
}

// New выбирает лимитер по конфигурации.
func New(cfg *config.Config) LimiterInt {
	local := CommunityLimiter{MaxSessions: cfg.MaxSessions}
	if cfg.ExternalLimiter == nil {
		slog.Info("Using Community limiter", "max_sessions", cfg.MaxSessions)
		return local
	}
	slog.Info("Using External limiter", "host", cfg.ExternalLimiter.Host)
	return NewExternalLimiter(cfg.ExternalLimiter, local)
}

type CommunityLimiter struct {
	MaxSessions int
}

func (c CommunityLimiter) CanOpenSession(entityType string, entityID uuid.UUID, open int) bool {
	return c.GetRemainingSessions(open) > 0
}

func (c CommunityLimiter) GetRemainingSessions(open int) int {
	if c.MaxSessions <= 0 {
		return Unlimited
	}
	return max(c.MaxSessions-open, 0)
}
