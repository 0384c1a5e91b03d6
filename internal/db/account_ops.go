package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/models"
)

const accountColumns = `user_id, login, full_name, phone_number, password, role,
       telegram_id, telegram_username, last_login, created_at`

// CreateAccount создает аккаунт. Занятый логин дает apperr.ErrAccountExists,
// неизвестная роль - apperr.ValidationError.
func (s *Store) CreateAccount(ctx context.Context, acct models.Account) (models.Account, error) {
	if !models.ValidRole(acct.Role) {
		return models.Account{}, apperr.Invalid("role", acct.Role)
	}
	var created models.Account
	err := s.db.GetContext(ctx, &created, `
        INSERT INTO users (login, full_name, phone_number, password, role, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING `+accountColumns,
		acct.Login, acct.FullName, acct.PhoneNumber, acct.PasswordHash, acct.Role)
	if err != nil {
		s.logger.Error("CreateAccount: ошибка вставки аккаунта", zap.String("login", acct.Login), zap.Error(err))
		return models.Account{}, classify("create account", err)
	}
	s.logger.Info("Создан аккаунт", zap.String("login", created.Login), zap.String("role", created.Role))
	return created, nil
}

// FindAccountByLogin ищет аккаунт по логину.
func (s *Store) FindAccountByLogin(ctx context.Context, login string) (models.Account, error) {
	var acct models.Account
	err := s.db.GetContext(ctx, &acct, `SELECT `+accountColumns+` FROM users WHERE login = $1`, login)
	return acct, classify("find account by login", err)
}

// FindAccountByChannelIdentity ищет аккаунт, привязанный к telegram_id.
func (s *Store) FindAccountByChannelIdentity(ctx context.Context, channelID int64) (models.Account, error) {
	var acct models.Account
	err := s.db.GetContext(ctx, &acct, `SELECT `+accountColumns+` FROM users WHERE telegram_id = $1`, channelID)
	return acct, classify("find account by telegram id", err)
}

// RebindChannelIdentity binds channelID to the account. Any other account holding
// the same channel identity is unbound first, in the same transaction.
func (s *Store) RebindChannelIdentity(ctx context.Context, accountID, channelID int64, username string, at time.Time) (models.Account, error) {
	var acct models.Account
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
            UPDATE users SET telegram_id = NULL, telegram_username = NULL
            WHERE telegram_id = $1 AND user_id <> $2`, channelID, accountID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.logger.Info("Снята привязка telegram_id с другого аккаунта",
				zap.Int64("chat_id", channelID), zap.Int64("rows", n))
		}
		return tx.GetContext(ctx, &acct, `
            UPDATE users SET telegram_id = $1, telegram_username = $2, last_login = $3
            WHERE user_id = $4
            RETURNING `+accountColumns,
			channelID, nullString(username), at, accountID)
	})
	if err != nil {
		s.logger.Error("RebindChannelIdentity: ошибка привязки", zap.Int64("user_id", accountID),
			zap.Int64("chat_id", channelID), zap.Error(err))
		return models.Account{}, classify("rebind channel identity", err)
	}
	return acct, nil
}

// UnbindChannelIdentity снимает привязку telegram_id. Если привязки нет - apperr.ErrNotFound.
func (s *Store) UnbindChannelIdentity(ctx context.Context, channelID int64) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE users SET telegram_id = NULL, telegram_username = NULL
        WHERE telegram_id = $1`, channelID)
	if err != nil {
		return classify("unbind channel identity", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("unbind channel identity", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListAdminAccounts возвращает всех администраторов, привязанных и нет.
func (s *Store) ListAdminAccounts(ctx context.Context) ([]models.Account, error) {
	var admins []models.Account
	err := s.db.SelectContext(ctx, &admins,
		`SELECT `+accountColumns+` FROM users WHERE role = $1 ORDER BY user_id`, constants.ROLE_ADMIN)
	if err != nil {
		return nil, classify("list admins", err)
	}
	return admins, nil
}

// ListAdminAccountsByChannelIdentity - администраторы, привязанные к channelID.
func (s *Store) ListAdminAccountsByChannelIdentity(ctx context.Context, channelID int64) ([]models.Account, error) {
	var admins []models.Account
	err := s.db.SelectContext(ctx, &admins,
		`SELECT `+accountColumns+` FROM users WHERE role = $1 AND telegram_id = $2 ORDER BY user_id`,
		constants.ROLE_ADMIN, channelID)
	if err != nil {
		return nil, classify("list admins by telegram id", err)
	}
	return admins, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
