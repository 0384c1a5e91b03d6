package handlers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/export"
	"orderbot/internal/formatters"
	"orderbot/internal/models"
	"orderbot/internal/orderform"
	"orderbot/internal/utils"
)

const (
	myOrdersFileName  = "buyurtmalar.csv"
	allOrdersFileName = "barcha_buyurtmalar.xlsx"
)

// handleCommand вызывается только для команд, прошедших guard-пайплайн.
func (bh *BotHandler) handleCommand(ctx context.Context, in incoming, c caller, log *zap.Logger) error {
	sm := bh.Deps.SessionManager
	switch in.Command {
	case constants.CMD_START:
		bh.handleStart(in, c)
	case constants.CMD_ADMIN:
		bh.startLoginForm(in.ChatID, true)
	case constants.CMD_ZAKAZ:
		sm.Reset(in.ChatID)
		bh.sendFormReplies(in.ChatID, bh.Deps.OrderForm.Start(in.ChatID).Replies)
	case constants.CMD_MY_ORDERS:
		return bh.sendOrdersCSV(ctx, in.ChatID, c.Account, log)
	case constants.CMD_HELP:
		sm.Reset(in.ChatID)
		sm.SetState(in.ChatID, constants.STATE_HELP_MESSAGE)
		bh.sendPlain(in.ChatID, constants.MSG_HELP_ASK)
	case constants.CMD_ADD_USER:
		sm.Reset(in.ChatID)
		sm.SetState(in.ChatID, constants.STATE_ADD_USER_LOGIN)
		bh.sendPlain(in.ChatID, constants.MSG_ADD_USER_ASK_LOGIN)
	case constants.CMD_ALL_ORDERS:
		return bh.sendAllOrders(ctx, in.ChatID, log)
	case constants.CMD_KICK_USER:
		return bh.handleKick(ctx, in, log)
	default:
		return fmt.Errorf("command %s passed the guards but has no handler", in.Command)
	}
	return nil
}

func (bh *BotHandler) handleStart(in incoming, c caller) {
	bh.Deps.SessionManager.Reset(in.ChatID)
	switch {
	case c.Bound && c.Account.IsAdmin():
		bh.sendNotice(in.ChatID, constants.MSG_ADMIN_ALREADY_IN)
	case c.Bound:
		bh.sendWithKeyboard(in.ChatID, constants.MSG_USER_ALREADY_IN, orderform.UserMenuKeyboard())
	default:
		if login, ok := utils.StartPayload(in.Args); ok {
			bh.startLoginWithLogin(in.ChatID, login)
			return
		}
		bh.Deps.SessionManager.SetState(in.ChatID, constants.STATE_LOGIN_CHOOSE_TYPE)
		bh.sendWithKeyboard(in.ChatID, constants.MSG_WELCOME_CHOOSE_LOGIN, loginTypeKeyboard())
	}
}

// sendOrdersCSV - /my_orders: заказы продавца CSV-файлом.
func (bh *BotHandler) sendOrdersCSV(ctx context.Context, chatID int64, acct models.Account, log *zap.Logger) error {
	orders, err := bh.Deps.Store.ListOrdersForAccount(ctx, acct.ID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		bh.sendText(chatID, constants.MSG_NO_ORDERS_YET)
		return nil
	}
	data, err := export.SellerOrdersCSV(orders)
	if err != nil {
		return err
	}
	if err := bh.Deps.Messenger.SendDocument(chatID, myOrdersFileName, data, constants.MSG_MY_ORDERS_CSV); err != nil {
		log.Warn("CSV не отправлен", zap.Error(err))
		bh.sendText(chatID, constants.MSG_SEND_FILE_FAILED)
	}
	return nil
}

// sendOrdersText - кнопка "Buyurtmalarni Ko'rish": заказы продавца текстом.
func (bh *BotHandler) sendOrdersText(ctx context.Context, chatID int64, acct models.Account) error {
	orders, err := bh.Deps.Store.ListOrdersForAccount(ctx, acct.ID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		bh.sendText(chatID, constants.MSG_NO_ORDERS_YET)
		return nil
	}
	bh.sendLong(chatID, formatters.FormatOrdersList(orders))
	return nil
}

// sendAllOrders - /all_orders: сводка текстом и Excel-файл.
func (bh *BotHandler) sendAllOrders(ctx context.Context, chatID int64, log *zap.Logger) error {
	orders, err := bh.Deps.Store.ListAllOrdersJoinedWithAccount(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		bh.sendText(chatID, constants.MSG_NO_ORDERS_AT_ALL)
		return nil
	}
	bh.sendLong(chatID, formatters.FormatAllOrdersDigest(orders))

	data, err := export.AllOrdersXLSX(orders)
	if err != nil {
		log.Error("Ошибка формирования Excel", zap.Error(err))
		bh.sendText(chatID, constants.MSG_SEND_FILE_FAILED)
		return nil
	}
	if err := bh.Deps.Messenger.SendDocument(chatID, allOrdersFileName, data, constants.MSG_ALL_ORDERS_XLSX); err != nil {
		log.Warn("Excel не отправлен", zap.Error(err))
		bh.sendText(chatID, constants.MSG_SEND_FILE_FAILED)
	}
	return nil
}

// handleKick - /kick_user <telegram_id>.
func (bh *BotHandler) handleKick(ctx context.Context, in incoming, log *zap.Logger) error {
	if in.Args == "" {
		bh.sendNotice(in.ChatID, constants.MSG_KICK_USAGE)
		return nil
	}
	target, err := utils.ParseChannelID(in.Args)
	if err != nil {
		bh.sendText(in.ChatID, constants.MSG_KICK_NOT_NUMERIC)
		return nil
	}

	err = bh.Deps.Authenticator.Evict(ctx, target)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		bh.sendText(in.ChatID, fmt.Sprintf(constants.MSG_KICK_NOT_FOUND, target))
		return nil
	case err != nil:
		log.Error("Ошибка при выгоне пользователя", zap.Int64("target_chat_id", target), zap.Error(err))
		bh.sendText(in.ChatID, fmt.Sprintf(constants.MSG_KICK_NOT_FOUND, target))
		return nil
	}
	// Незаконченные формы выгнанного пользователя больше не действительны.
	bh.Deps.SessionManager.Reset(target)
	bh.sendText(in.ChatID, fmt.Sprintf(constants.MSG_KICK_DONE, target))
	return nil
}
