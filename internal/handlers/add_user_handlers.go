package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/auth"
	"orderbot/internal/constants"
	"orderbot/internal/formatters"
	"orderbot/internal/models"
	"orderbot/internal/session"
	"orderbot/internal/utils"
)

func isAddUserState(state string) bool {
	return strings.HasPrefix(state, "add_user_")
}

// handleAddUserInput ведет форму /add_user. Ошибки ввода повторяют вопрос.
func (bh *BotHandler) handleAddUserInput(ctx context.Context, in incoming, state string, log *zap.Logger) error {
	sm := bh.Deps.SessionManager
	scratch := sm.GetScratch(in.ChatID)
	draft := &scratch.Draft

	switch state {
	case constants.STATE_ADD_USER_LOGIN:
		if in.Text == "" {
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_LOGIN_EMPTY)
			return nil
		}
		if utils.ValidateLogin(in.Text) != nil {
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_LOGIN_COMMAND)
			return nil
		}
		_, err := bh.Deps.Store.FindAccountByLogin(ctx, in.Text)
		switch {
		case err == nil:
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_LOGIN_TAKEN)
			return nil
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}
		draft.Login = in.Text
		bh.nextAddUserStep(in.ChatID, scratch, constants.STATE_ADD_USER_FULL_NAME, constants.MSG_ADD_USER_ASK_FULL_NAME, nil)

	case constants.STATE_ADD_USER_FULL_NAME:
		if in.Text == "" {
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_EMPTY_NAME)
			return nil
		}
		draft.FullName = in.Text
		bh.nextAddUserStep(in.ChatID, scratch, constants.STATE_ADD_USER_PHONE, constants.MSG_ADD_USER_ASK_PHONE, nil)

	case constants.STATE_ADD_USER_PHONE:
		if in.Text == "" {
			bh.sendPlain(in.ChatID, constants.MSG_EMPTY_PHONE)
			return nil
		}
		draft.PhoneNumber = in.Text
		bh.nextAddUserStep(in.ChatID, scratch, constants.STATE_ADD_USER_ROLE, constants.MSG_ADD_USER_ASK_ROLE, roleKeyboard())

	case constants.STATE_ADD_USER_ROLE:
		role, ok := utils.NormalizeRole(in.Text)
		if !ok {
			bh.sendWithKeyboard(in.ChatID, constants.MSG_ADD_USER_BAD_ROLE, roleKeyboard())
			return nil
		}
		draft.Role = role
		bh.nextAddUserStep(in.ChatID, scratch, constants.STATE_ADD_USER_PASSWORD, constants.MSG_ADD_USER_ASK_PASSWORD, nil)

	case constants.STATE_ADD_USER_PASSWORD:
		bh.deleteMessageHelper(in.ChatID, in.MessageID)
		hash, err := auth.HashPassword(in.Text)
		if errors.Is(err, auth.ErrPasswordTooShort) {
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_SHORT_PASS)
			return nil
		}
		if err != nil {
			return err
		}
		draft.PasswordHash = hash
		bh.nextAddUserStep(in.ChatID, scratch, constants.STATE_ADD_USER_CONFIRM, formatters.FormatAccountDraft(*draft), yesNoKeyboard())

	case constants.STATE_ADD_USER_CONFIRM:
		switch in.Text {
		case constants.BTN_YES:
			sm.Reset(in.ChatID)
			return bh.createAccount(ctx, in.ChatID, *draft, log)
		case constants.BTN_NO:
			sm.Reset(in.ChatID)
			bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_CANCELLED)
		default:
			bh.sendWithKeyboard(in.ChatID, constants.MSG_CHOOSE_YES_NO, yesNoKeyboard())
		}
	}
	return nil
}

func (bh *BotHandler) nextAddUserStep(chatID int64, scratch session.FormScratch, state, text string, keyboard [][]string) {
	bh.Deps.SessionManager.UpdateScratch(chatID, scratch)
	bh.Deps.SessionManager.SetState(chatID, state)
	if len(keyboard) > 0 {
		bh.sendWithKeyboard(chatID, text, keyboard)
		return
	}
	bh.sendPlain(chatID, text)
}

// createAccount сохраняет аккаунт и, если известен бот, отправляет QR-код приглашения.
func (bh *BotHandler) createAccount(ctx context.Context, chatID int64, draft session.AccountDraft, log *zap.Logger) error {
	created, err := bh.Deps.Store.CreateAccount(ctx, models.Account{
		Login:        draft.Login,
		FullName:     draft.FullName,
		PhoneNumber:  draft.PhoneNumber,
		PasswordHash: draft.PasswordHash,
		Role:         draft.Role,
	})
	switch {
	case errors.Is(err, apperr.ErrAccountExists):
		bh.sendPlain(chatID, constants.MSG_ADD_USER_LOGIN_TAKEN)
		return nil
	case err != nil:
		log.Error("Ошибка создания аккаунта", zap.String("login", draft.Login), zap.Error(err))
		bh.sendPlain(chatID, constants.MSG_ADD_USER_FAILED)
		return nil
	}
	log.Info("Админ добавил аккаунт", zap.String("login", created.Login), zap.String("role", created.Role))
	bh.sendPlain(chatID, constants.MSG_ADD_USER_CREATED)

	botUsername := bh.Deps.Config.BotUsername
	if botUsername == "" {
		return nil
	}
	png, link, err := utils.GenerateInviteQR(botUsername, created.Login)
	if err != nil {
		log.Warn("QR-код приглашения не создан", zap.String("login", created.Login), zap.Error(err))
		return nil
	}
	if err := bh.Deps.Messenger.SendPhoto(chatID, created.Login+".png", png, fmt.Sprintf(constants.MSG_ADD_USER_INVITE, link)); err != nil {
		log.Warn("QR-код приглашения не отправлен", zap.Error(err))
	}
	return nil
}
