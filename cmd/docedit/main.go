// Сервер редактора описаний. Читает конфигурацию из окружения, подключает БД (postgres или файл sqlite),
// выполняет миграции и запускает HTTP API.
//
// Пример запуска: go run ./cmd/docedit --trace --noMigration
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aisa-it/aiplan/docedit/internal/docedit"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/config"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/dao"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/gormlogger"
	"github.com/aisa-it/aiplan/docedit/internal/docedit/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var version string = "DEV"

func main() {
	noTranslateFlag := flag.Bool("noTranslate", false, "Turn off DB errors translate")
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	cfg := config.ReadConfig()

	slog.Info("Docedit start.")

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: !*noTranslateFlag,
		Logger:         gormlogger.NewGormLogger(slog.Default(), cfg.SlowQueryThreshold(), *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	if cfg.UsePostgres() {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(time.Minute * 15)
	} else {
		// sqlite допускает одного писателя
		sqlDB.SetMaxOpenConns(1)
	}

	if !*noMigration {
		slog.Info("Migrate models")
		if err := dao.Migrate(db); err != nil {
			slog.Error("Migration fail", "err", err)
			os.Exit(1)
		}
	}

	docedit.Server(db, cfg, version)
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.UsePostgres() {
		return utils.NewPostgresUUIDDialector(postgres.Config{
			DSN:                  cfg.DatabaseDSN,
			PreferSimpleProtocol: false,
		})
	}
	return sqlite.Open(cfg.DatabaseDSN)
}

// PrintBanner выводит заголовок приложения с версией.
func PrintBanner() {
	banner := `
     _                     _ _ _
  __| | ___   ___ ___  __| (_) |_
 / _  |/ _ \ / __/ _ \/ _  | | __|
| (_| | (_) | (_|  __/ (_| | | |_
 \__,_|\___/ \___\___|\__,_|_|\__| %s
Structured description editor
`
	fmt.Printf(banner, "\033[32m"+version+"\033[0m")
}
