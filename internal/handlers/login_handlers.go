package handlers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/auth"
	"orderbot/internal/constants"
	"orderbot/internal/orderform"
	"orderbot/internal/session"
)

func isLoginState(state string) bool {
	switch state {
	case constants.STATE_LOGIN_CHOOSE_TYPE,
		constants.STATE_LOGIN_ADMIN_LOGIN, constants.STATE_LOGIN_ADMIN_PASSWORD,
		constants.STATE_LOGIN_USER_LOGIN, constants.STATE_LOGIN_USER_PASSWORD:
		return true
	}
	return false
}

// startLoginForm открывает форму входа нужного типа.
func (bh *BotHandler) startLoginForm(chatID int64, admin bool) {
	sm := bh.Deps.SessionManager
	sm.Reset(chatID)
	if admin {
		sm.UpdateScratch(chatID, session.FormScratch{LoginFlow: auth.FlowAdmin.String()})
		sm.SetState(chatID, constants.STATE_LOGIN_ADMIN_LOGIN)
		bh.sendPlain(chatID, constants.MSG_ASK_ADMIN_LOGIN)
		return
	}
	sm.UpdateScratch(chatID, session.FormScratch{LoginFlow: auth.FlowRegular.String()})
	sm.SetState(chatID, constants.STATE_LOGIN_USER_LOGIN)
	bh.sendPlain(chatID, constants.MSG_ASK_USER_LOGIN)
}

// startLoginWithLogin - вход по ссылке-приглашению: логин уже известен, спрашиваем пароль.
func (bh *BotHandler) startLoginWithLogin(chatID int64, login string) {
	sm := bh.Deps.SessionManager
	sm.Reset(chatID)
	sm.UpdateScratch(chatID, session.FormScratch{LoginFlow: auth.FlowRegular.String(), Login: login})
	sm.SetState(chatID, constants.STATE_LOGIN_USER_PASSWORD)
	bh.sendPlain(chatID, constants.MSG_ASK_PASSWORD)
}

func (bh *BotHandler) handleLoginInput(ctx context.Context, in incoming, state string, log *zap.Logger) error {
	sm := bh.Deps.SessionManager
	switch state {
	case constants.STATE_LOGIN_CHOOSE_TYPE:
		switch in.Text {
		case constants.BTN_ADMIN_LOGIN:
			bh.startLoginForm(in.ChatID, true)
		case constants.BTN_USER_LOGIN:
			bh.startLoginForm(in.ChatID, false)
		default:
			bh.sendWithKeyboard(in.ChatID, constants.MSG_CHOOSE_BUTTON, loginTypeKeyboard())
		}
		return nil

	case constants.STATE_LOGIN_ADMIN_LOGIN, constants.STATE_LOGIN_USER_LOGIN:
		if in.Text == "" {
			if state == constants.STATE_LOGIN_ADMIN_LOGIN {
				bh.sendPlain(in.ChatID, constants.MSG_ASK_ADMIN_LOGIN)
			} else {
				bh.sendPlain(in.ChatID, constants.MSG_ASK_USER_LOGIN)
			}
			return nil
		}
		scratch := sm.GetScratch(in.ChatID)
		scratch.Login = in.Text
		sm.UpdateScratch(in.ChatID, scratch)
		next := constants.STATE_LOGIN_USER_PASSWORD
		if state == constants.STATE_LOGIN_ADMIN_LOGIN {
			next = constants.STATE_LOGIN_ADMIN_PASSWORD
		}
		sm.SetState(in.ChatID, next)
		bh.sendPlain(in.ChatID, constants.MSG_ASK_PASSWORD)
		return nil
	}

	// Пароль: сообщение удаляется из чата при любом исходе.
	bh.deleteMessageHelper(in.ChatID, in.MessageID)
	scratch := sm.GetScratch(in.ChatID)
	sm.Reset(in.ChatID)

	flow := auth.FlowRegular
	if state == constants.STATE_LOGIN_ADMIN_PASSWORD {
		flow = auth.FlowAdmin
	}

	acct, err := bh.Deps.Authenticator.Authenticate(ctx, flow, scratch.Login, in.Text,
		auth.Caller{ChannelID: in.ChatID, Username: in.Username})
	if errors.Is(err, apperr.ErrAuthFailure) {
		bh.sendPlain(in.ChatID, constants.MSG_AUTH_FAILED)
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("Успешный вход", zap.String("login", acct.Login), zap.String("flow", flow.String()))
	if acct.IsAdmin() {
		bh.sendPlain(in.ChatID, constants.MSG_ADMIN_LOGGED_IN)
		return nil
	}
	bh.sendWithKeyboard(in.ChatID, constants.MSG_USER_LOGGED_IN, orderform.UserMenuKeyboard())
	return nil
}
