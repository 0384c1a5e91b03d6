package handlers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/orderform"
	"orderbot/internal/utils"
)

// Run обрабатывает обновления до закрытия канала или отмены ctx.
// Разные чаты обрабатываются параллельно, сообщения одного чата - строго в порядке поступления.
func (bh *BotHandler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	d := newChatDispatcher(func(update tgbotapi.Update) {
		bh.HandleUpdate(ctx, update)
	})
	defer d.wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			d.dispatch(updateChatID(update), update)
		}
	}
}

// updateChatID возвращает чат обновления; обновления без сообщения попадают в общую очередь 0.
func updateChatID(update tgbotapi.Update) int64 {
	if update.Message == nil {
		return 0
	}
	return update.Message.Chat.ID
}

// chatDispatcher keeps one FIFO queue per chat. A chat's queue is drained by a single
// goroutine that exits once the queue is empty, so idle chats hold no goroutine.
type chatDispatcher struct {
	mu     sync.Mutex
	queues map[int64][]tgbotapi.Update
	wg     sync.WaitGroup
	handle func(tgbotapi.Update)
}

func newChatDispatcher(handle func(tgbotapi.Update)) *chatDispatcher {
	return &chatDispatcher{queues: make(map[int64][]tgbotapi.Update), handle: handle}
}

// dispatch ставит обновление в очередь чата и запускает обработчик очереди, если он не активен.
func (d *chatDispatcher) dispatch(chatID int64, update tgbotapi.Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	queue, active := d.queues[chatID]
	d.queues[chatID] = append(queue, update)
	if !active {
		d.wg.Add(1)
		go d.drain(chatID)
	}
}

func (d *chatDispatcher) drain(chatID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[chatID]
		if len(queue) == 0 {
			delete(d.queues, chatID)
			d.mu.Unlock()
			return
		}
		next := queue[0]
		d.queues[chatID] = queue[1:]
		d.mu.Unlock()

		d.handle(next)
	}
}

// wait ждет, пока все очереди будут обработаны.
func (d *chatDispatcher) wait() {
	d.wg.Wait()
}

// HandleUpdate обрабатывает одно обновление. Паника не роняет бота:
// она логируется, пользователь получает общее сообщение об ошибке.
func (bh *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	in := parseMessage(update.Message)
	if !in.Private {
		bh.logger.Debug("Сообщение не из личного чата проигнорировано", zap.Int64("chat_id", in.ChatID))
		return
	}
	bh.handleIncoming(ctx, in)
}

func (bh *BotHandler) handleIncoming(ctx context.Context, in incoming) {
	log := bh.logger.With(zap.String("correlation_id", utils.GenerateUUID()), zap.Int64("chat_id", in.ChatID))

	unlock := bh.Deps.SessionManager.LockChat(in.ChatID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			err := &apperr.UnexpectedError{Err: fmt.Errorf("panic: %v", r), Stack: string(debug.Stack())}
			log.Error("Паника при обработке сообщения", zap.Error(err), zap.String("stack", err.Stack))
			bh.sendText(in.ChatID, constants.MSG_GENERIC_ERROR)
		}
	}()

	if err := bh.process(ctx, in, log); err != nil {
		var unexpected *apperr.UnexpectedError
		if !errors.As(err, &unexpected) {
			err = &apperr.UnexpectedError{Err: err}
		}
		log.Error("Ошибка обработки сообщения", zap.Error(err), zap.String("state", bh.Deps.SessionManager.GetState(in.ChatID)))
		bh.sendText(in.ChatID, constants.MSG_GENERIC_ERROR)
	}
}

// parseMessage извлекает из сообщения все, что нужно обработчикам.
func parseMessage(msg *tgbotapi.Message) incoming {
	in := incoming{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      strings.TrimSpace(msg.Text),
		Private:   msg.Chat.IsPrivate(),
	}
	if msg.From != nil {
		in.Username = msg.From.UserName
	}
	if msg.IsCommand() {
		in.Command = "/" + strings.ToLower(msg.Command())
		in.Args = strings.TrimSpace(msg.CommandArguments())
	}
	return in
}

// resolveCaller находит аккаунт, привязанный к чату. Отсутствие привязки - не ошибка.
func (bh *BotHandler) resolveCaller(ctx context.Context, chatID int64) (caller, error) {
	acct, err := bh.Deps.Authenticator.Resolve(ctx, chatID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return caller{}, nil
	case err != nil:
		return caller{}, fmt.Errorf("resolve caller: %w", err)
	}
	return caller{Account: acct, Bound: true}, nil
}

func (bh *BotHandler) process(ctx context.Context, in incoming, log *zap.Logger) error {
	c, err := bh.resolveCaller(ctx, in.ChatID)
	if err != nil {
		return err
	}

	if in.Command != "" {
		log.Info("Команда", zap.String("command", in.Command), zap.Bool("bound", c.Bound))
		if rejection := checkCommand(in.Command, c); rejection != nil {
			log.Info("Команда отклонена", zap.String("command", in.Command), zap.String("reason", string(rejection.Kind)))
			bh.sendText(in.ChatID, rejection.Text)
			return nil
		}
		return bh.handleCommand(ctx, in, c, log)
	}

	state := bh.Deps.SessionManager.GetState(in.ChatID)
	log.Debug("Текущее состояние", zap.String("state", state))

	switch {
	case orderform.Owns(state):
		if !c.Bound {
			bh.Deps.SessionManager.Reset(in.ChatID)
			bh.sendText(in.ChatID, constants.MSG_NOT_LOGGED_IN)
			return nil
		}
		res, err := bh.Deps.OrderForm.Handle(ctx, in.ChatID, c.Account, in.Text)
		if err != nil {
			return err
		}
		bh.sendFormReplies(in.ChatID, res.Replies)
		return nil
	case isLoginState(state):
		return bh.handleLoginInput(ctx, in, state, log)
	case isAddUserState(state):
		if !c.Account.IsAdmin() {
			bh.Deps.SessionManager.Reset(in.ChatID)
			bh.sendText(in.ChatID, constants.MSG_NOT_ADMIN)
			return nil
		}
		return bh.handleAddUserInput(ctx, in, state, log)
	case state == constants.STATE_HELP_MESSAGE:
		return bh.handleHelpInput(ctx, in, c, log)
	}

	return bh.handleIdleText(ctx, in, c)
}

// handleIdleText обрабатывает кнопки меню вне форм.
func (bh *BotHandler) handleIdleText(ctx context.Context, in incoming, c caller) error {
	switch in.Text {
	case constants.BTN_ADMIN_LOGIN, constants.BTN_USER_LOGIN:
		bh.startLoginForm(in.ChatID, in.Text == constants.BTN_ADMIN_LOGIN)
		return nil
	case constants.BTN_ADD_ORDER:
		if !c.Bound {
			bh.sendText(in.ChatID, constants.MSG_NOT_LOGGED_IN)
			return nil
		}
		bh.sendFormReplies(in.ChatID, bh.Deps.OrderForm.Start(in.ChatID).Replies)
		return nil
	case constants.BTN_VIEW_ORDERS:
		if !c.Bound {
			bh.sendText(in.ChatID, constants.MSG_NOT_LOGGED_IN)
			return nil
		}
		return bh.sendOrdersText(ctx, in.ChatID, c.Account)
	}

	if !c.Bound {
		bh.sendWithKeyboard(in.ChatID, constants.MSG_WELCOME_CHOOSE_LOGIN, loginTypeKeyboard())
		bh.Deps.SessionManager.SetState(in.ChatID, constants.STATE_LOGIN_CHOOSE_TYPE)
		return nil
	}
	if c.Account.IsAdmin() {
		bh.sendNotice(in.ChatID, constants.MSG_ADMIN_ALREADY_IN)
		return nil
	}
	bh.sendWithKeyboard(in.ChatID, constants.MSG_CHOOSE_BUTTON, orderform.UserMenuKeyboard())
	return nil
}
