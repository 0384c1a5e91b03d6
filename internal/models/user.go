package models

import (
	"database/sql"
	"time"

	"orderbot/internal/constants"
)

// Account represents a seller or admin account.
// Account - аккаунт продавца или администратора.
type Account struct {
	ID               int64          `db:"user_id" json:"id"`
	Login            string         `db:"login" json:"login"`
	FullName         string         `db:"full_name" json:"full_name"`
	PhoneNumber      string         `db:"phone_number" json:"phone_number"`
	PasswordHash     string         `db:"password" json:"-"`
	Role             string         `db:"role" json:"role"`
	TelegramID       sql.NullInt64  `db:"telegram_id" json:"-"`
	TelegramUsername sql.NullString `db:"telegram_username" json:"-"`
	LastLogin        sql.NullTime   `db:"last_login" json:"-"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// IsAdmin сообщает, является ли аккаунт администратором.
func (a Account) IsAdmin() bool {
	return a.Role == constants.ROLE_ADMIN
}

// IsBound reports whether a Telegram identity is currently bound to the account.
func (a Account) IsBound() bool {
	return a.TelegramID.Valid && a.TelegramID.Int64 != 0
}

// AccountType возвращает отображаемое название роли.
// AccountType returns the display name of the role.
func (a Account) AccountType() string {
	if a.IsAdmin() {
		return "Admin"
	}
	return "Sotuvchi"
}

// ValidRole проверяет, что роль одна из двух поддерживаемых.
func ValidRole(role string) bool {
	return role == constants.ROLE_ADMIN || role == constants.ROLE_SELLER
}
