// Package config загружает конфигурацию бота из окружения (.env поддерживается).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"orderbot/internal/constants"
)

var (
	// ErrMissingToken - не задан BOT_API_TOKEN.
	ErrMissingToken = errors.New("BOT_API_TOKEN не установлен")
	// ErrMissingDatabaseURL - не задан DATABASE_URL.
	ErrMissingDatabaseURL = errors.New("DATABASE_URL не установлен")
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string `env:"BOT_API_TOKEN"`
	BotUsername   string `env:"BOT_USERNAME"`
	DatabaseURL   string `env:"DATABASE_URL"`
	GroupChatID   int64  `env:"GROUP_CHAT_ID"`
	AppEnv        string `env:"APP_ENV" envDefault:"prod"`

	SheetsCredentialsFile string `env:"GOOGLE_SHEETS_CREDENTIALS_JSON"`
	SheetsSpreadsheetName string `env:"GOOGLE_SHEETS_SPREADSHEET_NAME"`
	SheetsSpreadsheetID   string `env:"GOOGLE_SHEETS_SPREADSHEET_ID"`

	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderTopic string   `env:"KAFKA_ORDER_TOPIC" envDefault:"ORDER_CREATED_TOPIC"`

	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIToken string `env:"ADMIN_API_TOKEN"`

	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"24h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	// Отсутствие .env не ошибка: переменные могут быть заданы иначе.
	_ = godotenv.Load()

	cfg := &Config{GroupChatID: constants.DefaultGroupChatID}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionIdleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL должен быть положительным: %s", cfg.SessionIdleTTL)
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL должен быть положительным: %s", cfg.SessionSweepInterval)
	}
	return cfg, nil
}

// Validate проверяет параметры, без которых бот не запускается.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return c.ValidateDatabase()
}

// ValidateDatabase проверяет только DATABASE_URL (для run_create_admin).
func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// IsDev сообщает, включен ли режим разработки.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// SheetsEnabled - зеркалирование в Google Sheets настроено.
func (c *Config) SheetsEnabled() bool {
	return c.SheetsCredentialsFile != "" && (c.SheetsSpreadsheetID != "" || c.SheetsSpreadsheetName != "")
}

// KafkaEnabled - публикация событий настроена.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// NewLogger создает логгер: development для APP_ENV=dev, иначе production.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
