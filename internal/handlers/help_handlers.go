package handlers

import (
	"context"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/formatters"
)

// handleHelpInput пересылает обращение всем привязанным администраторам.
func (bh *BotHandler) handleHelpInput(ctx context.Context, in incoming, c caller, log *zap.Logger) error {
	if !c.Bound {
		bh.Deps.SessionManager.Reset(in.ChatID)
		bh.sendText(in.ChatID, constants.MSG_NOT_LOGGED_IN)
		return nil
	}
	if in.Text == "" {
		bh.sendPlain(in.ChatID, constants.MSG_HELP_EMPTY)
		return nil
	}
	bh.Deps.SessionManager.Reset(in.ChatID)

	admins, err := bh.Deps.Store.ListAdminAccounts(ctx)
	if err != nil {
		return err
	}
	text := formatters.FormatHelpForward(c.Account, in.ChatID, in.Text)
	bound := 0
	for _, admin := range admins {
		if !admin.IsBound() {
			continue
		}
		bound++
		if err := bh.Deps.Messenger.SendText(ctx, admin.TelegramID.Int64, text); err != nil {
			log.Warn("Обращение не доставлено администратору",
				zap.Error(&apperr.NotificationError{Recipient: admin.TelegramID.Int64, Err: err}))
		}
	}
	if bound == 0 {
		bh.sendText(in.ChatID, constants.MSG_HELP_NO_ADMINS)
		return nil
	}
	bh.sendText(in.ChatID, constants.MSG_HELP_SENT)
	return nil
}
