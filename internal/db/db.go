// Package db хранит аккаунты и заказы в PostgreSQL.
// Package db is the PostgreSQL store for accounts and orders.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"orderbot/internal/apperr"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store - доступ к таблицам users и orders.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open подключается к базе, настраивает пул и применяет миграции.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	conn.SetMaxOpenConns(50)
	conn.SetMaxIdleConns(20)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %w", err)
	}
	logger.Info("Успешное подключение к базе данных")

	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("Миграции применены")

	return NewStore(conn, logger), nil
}

// NewStore оборачивает уже открытое соединение. Миграции не выполняются.
func NewStore(conn *sqlx.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: conn, logger: logger}
}

func migrate(ctx context.Context, conn *sqlx.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn.DB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Ping проверяет соединение (для /healthz).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx выполняет fn в транзакции; при ошибке или панике транзакция откатывается.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warn("Откат транзакции не удался", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation сообщает, нарушено ли ограничение уникальности.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}

// classify переводит ошибку драйвера в ошибку приложения.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.ErrNotFound
	case isUniqueViolation(err):
		return apperr.ErrAccountExists
	default:
		return apperr.Persistence(op, err)
	}
}
