// Package auth проверяет логин и пароль, привязывает аккаунт к Telegram ID вызывающего
// и рассылает администраторам уведомления о входах и сменах привязки.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/formatters"
	"orderbot/internal/models"
)

// Flow - вход через админскую или обычную форму.
type Flow int

const (
	FlowRegular Flow = iota
	FlowAdmin
)

func (f Flow) String() string {
	if f == FlowAdmin {
		return "admin"
	}
	return "regular"
}

// Caller - Telegram-идентичность, с которой пришел запрос.
type Caller struct {
	ChannelID int64
	Username  string
}

// AccountStore is the storage the authenticator needs.
type AccountStore interface {
	FindAccountByLogin(ctx context.Context, login string) (models.Account, error)
	FindAccountByChannelIdentity(ctx context.Context, channelID int64) (models.Account, error)
	RebindChannelIdentity(ctx context.Context, accountID, channelID int64, username string, at time.Time) (models.Account, error)
	UnbindChannelIdentity(ctx context.Context, channelID int64) error
	ListAdminAccounts(ctx context.Context) ([]models.Account, error)
	ListAdminAccountsByChannelIdentity(ctx context.Context, channelID int64) ([]models.Account, error)
}

// Notifier delivers a text message to one chat.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Authenticator resolves callers to accounts and runs the rebinding protocol on login.
type Authenticator struct {
	store    AccountStore
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewAuthenticator создает Authenticator.
func NewAuthenticator(store AccountStore, notifier Notifier, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{store: store, notifier: notifier, now: time.Now, logger: logger}
}

// Resolve возвращает аккаунт, привязанный к Telegram ID. Нет привязки - apperr.ErrNotFound.
func (a *Authenticator) Resolve(ctx context.Context, channelID int64) (models.Account, error) {
	return a.store.FindAccountByChannelIdentity(ctx, channelID)
}

// Authenticate checks login and secret and binds the account to the caller.
//
// Unknown login, wrong secret and a non-admin account in the admin flow all
// return apperr.ErrAuthFailure. On success the previous binding is replaced,
// every bound admin gets a login notice, and when an admin account moved to a
// new identity the admins bound to the old identity get a rebind alert.
func (a *Authenticator) Authenticate(ctx context.Context, flow Flow, login, secret string, caller Caller) (models.Account, error) {
	acct, err := a.store.FindAccountByLogin(ctx, login)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		_ = CheckPassword(string(dummyHash), secret)
		a.logger.Info("вход отклонен", zap.String("flow", flow.String()), zap.Int64("chat_id", caller.ChannelID))
		return models.Account{}, apperr.ErrAuthFailure
	case err != nil:
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}

	if !CheckPassword(acct.PasswordHash, secret) || (flow == FlowAdmin && !acct.IsAdmin()) {
		a.logger.Info("вход отклонен", zap.String("flow", flow.String()), zap.Int64("chat_id", caller.ChannelID))
		return models.Account{}, apperr.ErrAuthFailure
	}

	movedFrom := int64(0)
	var oldAdmins []models.Account
	if acct.TelegramID.Valid && acct.TelegramID.Int64 != caller.ChannelID {
		movedFrom = acct.TelegramID.Int64
		// Список снимается до перепривязки: после нее старый ID уже ни к кому не привязан.
		oldAdmins, err = a.store.ListAdminAccountsByChannelIdentity(ctx, movedFrom)
		if err != nil {
			a.logger.Warn("не удалось получить админов по старому Telegram ID", zap.Int64("old_chat_id", movedFrom), zap.Error(err))
		}
	}

	updated, err := a.store.RebindChannelIdentity(ctx, acct.ID, caller.ChannelID, caller.Username, a.now().UTC())
	if err != nil {
		return models.Account{}, fmt.Errorf("rebind account %d: %w", acct.ID, err)
	}
	a.logger.Info("пользователь вошел в систему", zap.String("login", updated.Login), zap.String("role", updated.Role),
		zap.Int64("chat_id", caller.ChannelID), zap.Int64("old_chat_id", movedFrom))

	a.broadcastLogin(ctx, updated)
	if movedFrom != 0 && updated.IsAdmin() {
		alert := formatters.FormatRebindAlert(updated.Login, caller.ChannelID)
		for _, admin := range oldAdmins {
			if admin.IsBound() {
				a.send(ctx, admin.TelegramID.Int64, alert)
			}
		}
	}
	return updated, nil
}

func (a *Authenticator) broadcastLogin(ctx context.Context, acct models.Account) {
	admins, err := a.store.ListAdminAccounts(ctx)
	if err != nil {
		a.logger.Warn("не удалось получить список админов", zap.Error(err))
		return
	}
	if len(admins) == 0 {
		a.logger.Warn("админы не найдены, уведомление о входе не отправлено")
		return
	}
	notice := formatters.FormatLoginNotice(acct)
	for _, admin := range admins {
		if admin.IsBound() {
			a.send(ctx, admin.TelegramID.Int64, notice)
		}
	}
}

// Evict отвязывает аккаунт от Telegram ID и сообщает об этом выгнанному пользователю.
func (a *Authenticator) Evict(ctx context.Context, channelID int64) error {
	if err := a.store.UnbindChannelIdentity(ctx, channelID); err != nil {
		return err
	}
	a.logger.Info("пользователь выгнан из системы", zap.Int64("chat_id", channelID))
	a.send(ctx, channelID, constants.MSG_KICKED_NOTICE)
	return nil
}

func (a *Authenticator) send(ctx context.Context, chatID int64, text string) {
	if err := a.notifier.SendText(ctx, chatID, text); err != nil {
		a.logger.Warn("не удалось отправить уведомление", zap.Error(&apperr.NotificationError{Recipient: chatID, Err: err}))
	}
}
