// Конфигурация сервиса редактора описаний из переменных окружения.
//
// Основные возможности:
//   - Загрузка параметров по тегам env у полей Config.
//   - Маскировка секретов (DSN с паролем, токены) в логах.
//   - Значения по умолчанию для адресов, TTL сессий, глубины истории и лимита тела запроса.
package config

import (
	"log/slog"
	"net/url"
	"reflect"
	"strings"
	"time"
)

const (
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = ":2112"
	DefaultSessionTTL      = 30
	DefaultHistoryLimit    = 100
	DefaultBodyLimit       = "5M"
	DefaultSQLiteFile      = "docedit.db"
	defaultSlowQueryMillis = 200
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URL"`

	ListenAddr  string `env:"LISTEN_ADDR"`
	MetricsAddr string `env:"METRICS_ADDR"`
	BodyLimit   string `env:"BODY_LIMIT"`

	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES"`
	HistoryLimit      int `env:"HISTORY_LIMIT"`
	SlowQueryMillis   int `env:"SLOW_QUERY_MS"`

	MetricsDisabled bool `env:"METRICS_DISABLED"`

	// Лимит одновременно открытых сессий, 0 - без ограничений
	MaxSessions     int      `env:"MAX_SESSIONS"`
	ExternalLimiter *url.URL `env:"EXTERNAL_LIMITER_URL"`
}

// ReadConfig загружает конфигурацию из окружения и подставляет значения по умолчанию.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	if config.DatabaseDSN == "" {
		slog.Info("DATABASE_URL is empty, using sqlite file", "file", DefaultSQLiteFile)
		config.DatabaseDSN = DefaultSQLiteFile
	}
	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}
	if config.MetricsAddr == "" {
		config.MetricsAddr = DefaultMetricsAddr
	}
	if config.BodyLimit == "" {
		config.BodyLimit = DefaultBodyLimit
	}
	if config.SessionTTLMinutes <= 0 {
		config.SessionTTLMinutes = DefaultSessionTTL
	}
	// 0 в HISTORY_LIMIT не отключает историю, отрицательное значение - отключает
	if config.HistoryLimit == 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}
	if config.SlowQueryMillis <= 0 {
		config.SlowQueryMillis = defaultSlowQueryMillis
	}
	if config.MaxSessions < 0 {
		config.MaxSessions = 0
	}

	return config
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMillis) * time.Millisecond
}

// UsePostgres - DSN указывает на postgres, иначе это путь к файлу sqlite.
func (c *Config) UsePostgres() bool {
	return strings.HasPrefix(c.DatabaseDSN, "postgres://") ||
		strings.HasPrefix(c.DatabaseDSN, "postgresql://") ||
		strings.Contains(c.DatabaseDSN, "host=")
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if fEnvTag == "" || !Exist(fEnvTag) {
			continue
		}

		raw := GetEnv(fEnvTag)
		if raw == "" {
			continue
		}

		logValue := raw
		if isSecret(fName) {
			logValue = maskSecret(raw)
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(raw)
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		case *url.URL:
			if u := GetURLEnv(fEnvTag); u != nil {
				v.Field(i).Set(reflect.ValueOf(u))
			}
		}
	}
}

func isSecret(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "pass") || strings.Contains(f, "secret") ||
		strings.Contains(f, "token") || strings.Contains(f, "dsn")
}

// maskSecret оставляет первый и последний символ.
func maskSecret(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}
