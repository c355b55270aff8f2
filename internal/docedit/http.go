// Пакет docedit - HTTP сервис редактора описаний задач, проектов, документов и спринтов.
//
// Основные возможности:
//   - Чтение и сохранение описаний в каноническом HTML редактора.
//   - Нормализация и конвертация значений редактора (HTML, Plate JSON, Markdown) без сохранения.
//   - Сессии редактирования на сервере: выделение, команды панели инструментов, горячие клавиши, история.
//     Каждое изменение документа сессии сохраняется в описание.
//   - Метрики Prometheus на отдельном порту и периодическая очистка истекших сессий.
package docedit

// @title Docedit API
// @version 1.0
// @description Редактор описаний.
// @BasePath /api/
import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/cronmanager"
	store "github.com/aisa-it/aiplan/docedit/internal/docedit/memory-store"
	"github.com/aisa-it/aiplan/docedit/pkg/limiter"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Services struct {
	db       *gorm.DB
	cfg      *config.Config
	version  string
	sessions *store.SessionStore
	limiter  limiter.LimiterInt
	metrics  *Metrics
}

func NewServices(db *gorm.DB, cfg *config.Config, version string) *Services {
	s := &Services{
		db:       db,
		cfg:      cfg,
		version:  version,
		sessions: store.NewSessionStore(cfg.SessionTTL(), cfg.MaxSessions),
		limiter:  limiter.New(cfg),
	}
	s.metrics = NewMetrics(s.sessions.Len, db)
	return s
}

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "Docedit")
		return next(c)
	}
}

// Echo собирает API сервер со всеми маршрутами и middleware.
func (s *Services) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		if code == http.StatusNotFound || code == http.StatusMethodNotAllowed {
			c.NoContent(code)
			return
		}
		if code >= http.StatusInternalServerError {
			slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		}
		EErrorMsgStatus(c, nil, code)
	}

	e.Use(ServerHeader)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     5,
		MinLength: 2048,
	}))
	if !s.cfg.MetricsDisabled {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  metricsNamespace,
			Subsystem:  "http",
			Registerer: s.metrics.Registry,
		}))
	}
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")

	s.AddDescriptionServices(apiGroup)
	s.AddEditorServices(apiGroup)
	s.AddSessionServices(apiGroup)

	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version":       s.version,
			"history_limit": s.cfg.HistoryLimit,
			"session_ttl":   s.cfg.SessionTTLMinutes,
		})
	})

	apiGroup.GET("_health/", func(c echo.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	return e
}

// MetricsEcho - сервер метрик Prometheus.
func (s *Services) MetricsEcho() *echo.Echo {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.HidePort = true
	metrics.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherer(s.metrics.Registry),
	}))
	return metrics
}

// Server запускает API, сервер метрик и периодические задачи. Возвращает управление после SIGINT/SIGTERM.
func Server(db *gorm.DB, c *config.Config, version string) {
	s := NewServices(db, c, version)

	cronManager := cronmanager.NewCronManager(s.Jobs())
	if err := cronManager.LoadJobs(); err != nil {
		slog.Error("Failed to load cron jobs", "err", err)
		return
	}
	cronManager.Start()
	slog.Info("Cron jobs scheduled", "jobs", cronManager.Scheduled())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := s.Echo()
	var metrics *echo.Echo
	if !c.MetricsDisabled {
		metrics = s.MetricsEcho()
		go func() {
			if err := metrics.Start(c.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server fail", "err", err)
			}
		}()
	}

	go func() {
		slog.Info("Start server", "addr", c.ListenAddr, "version", version)
		if err := e.Start(c.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server fail", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown", "err", err)
	}
	if metrics != nil {
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics server shutdown", "err", err)
		}
	}
	cronManager.Stop()
	slog.Info("Server stopped", "open_sessions", s.sessions.Len())
}
