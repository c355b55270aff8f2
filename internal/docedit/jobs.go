package docedit

import (
	"log/slog"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/cronmanager"
)

// Jobs - периодические задачи сервиса.
func (s *Services) Jobs() cronmanager.JobRegistry {
	return cronmanager.JobRegistry{
		"sessions_sweep": cronmanager.Job{
			Func:     s.sweepSessions,
			Schedule: "* * * * *", // every minute
		},
	}
}

func (s *Services) sweepSessions() {
	if n := s.sessions.Sweep(time.Now()); n > 0 {
		slog.Info("Expired editing sessions closed", "count", n, "open", s.sessions.Len())
	}
}
