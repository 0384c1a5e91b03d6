// Package orderform ведет продавца по форме заказа: выбор товара, размер, количество,
// подтверждение или ручная смена цены, данные клиента и финальное подтверждение.
package orderform

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/formatters"
	"orderbot/internal/models"
	"orderbot/internal/pricing"
	"orderbot/internal/session"
)

// Reply - одно исходящее сообщение. Keyboard задает reply-клавиатуру построчно.
type Reply struct {
	Text           string
	Keyboard       [][]string
	RemoveKeyboard bool
	Markdown       bool
}

// Result is the outcome of one input: the replies to send, in order,
// and the persisted order when this input committed one.
type Result struct {
	Replies   []Reply
	Committed *models.PersistedOrder
}

// SessionStore is the part of the session manager the machine needs.
type SessionStore interface {
	GetState(chatID int64) string
	SetState(chatID int64, state string)
	ClearState(chatID int64)
	GetOrder(chatID int64) *session.WorkingOrder
	UpdateOrder(chatID int64, order *session.WorkingOrder)
	ClearOrder(chatID int64)
}

// Committer сохраняет подтвержденный заказ.
type Committer interface {
	Commit(ctx context.Context, acct models.Account, order *session.WorkingOrder) (models.PersistedOrder, error)
}

// Machine is the order-construction state machine. It keeps no state of its own:
// the current state and the working order live in the SessionStore, keyed by chat.
// Callers must serialize Handle calls per chat.
type Machine struct {
	sessions  SessionStore
	calc      *pricing.Calculator
	committer Committer
	logger    *zap.Logger
}

// NewMachine создает машину состояний формы заказа.
func NewMachine(sessions SessionStore, calc *pricing.Calculator, committer Committer, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{sessions: sessions, calc: calc, committer: committer, logger: logger}
}

// Owns сообщает, относится ли состояние к форме заказа.
func Owns(state string) bool {
	return strings.HasPrefix(state, "order_")
}

func prompt(text string, keyboard [][]string) Reply {
	if keyboard == nil {
		return Reply{Text: text, RemoveKeyboard: true, Markdown: true}
	}
	return Reply{Text: text, Keyboard: keyboard, Markdown: true}
}

func reject(text string) Reply {
	return Reply{Text: text}
}

func single(r Reply) Result {
	return Result{Replies: []Reply{r}}
}

// Start discards any order in progress and opens a fresh one at product selection.
func (m *Machine) Start(chatID int64) Result {
	m.sessions.ClearOrder(chatID)
	m.sessions.UpdateOrder(chatID, session.NewWorkingOrder())
	m.sessions.SetState(chatID, constants.STATE_ORDER_PRODUCT)
	m.logger.Debug("начат новый заказ", zap.Int64("chat_id", chatID))
	return single(prompt(constants.MSG_ASK_PRODUCT, productKeyboard(m.calc.Catalog())))
}

// Handle processes one text input in the chat's current order state.
// Invalid input re-prompts and leaves the state unchanged.
func (m *Machine) Handle(ctx context.Context, chatID int64, acct models.Account, input string) (Result, error) {
	state := m.sessions.GetState(chatID)
	if !Owns(state) {
		return Result{}, fmt.Errorf("orderform: chat %d is not in an order state (%s)", chatID, state)
	}
	input = strings.TrimSpace(input)
	order := m.sessions.GetOrder(chatID)

	var res Result
	switch state {
	case constants.STATE_ORDER_PRODUCT:
		res = m.onProduct(chatID, order, input)
	case constants.STATE_ORDER_SIZE:
		res = m.onSize(chatID, order, input)
	case constants.STATE_ORDER_CUSTOM_SIZE:
		res = m.onCustomSize(chatID, order, input)
	case constants.STATE_ORDER_QUANTITY:
		res = m.onQuantity(chatID, order, input)
	case constants.STATE_ORDER_SUM_CONFIRM:
		res = m.onSumConfirm(chatID, order, input)
	case constants.STATE_ORDER_PRICE_OVERRIDE:
		res = m.onPriceOverride(chatID, order, input)
	case constants.STATE_ORDER_OVERRIDE_CONFIRM:
		res = m.onSumConfirm(chatID, order, input)
	case constants.STATE_ORDER_ADD_MORE:
		res = m.onAddMore(chatID, order, input)
	case constants.STATE_ORDER_CUSTOMER_NAME:
		res = m.onText(chatID, order, input, constants.MSG_EMPTY_CUSTOMER_NAME, func(o *session.WorkingOrder, v string) { o.CustomerName = v },
			constants.STATE_ORDER_CUSTOMER_SURNAME, prompt(constants.MSG_ASK_CUSTOMER_SURNAME, nil))
	case constants.STATE_ORDER_CUSTOMER_SURNAME:
		res = m.onText(chatID, order, input, constants.MSG_EMPTY_SURNAME, func(o *session.WorkingOrder, v string) { o.CustomerSurname = v },
			constants.STATE_ORDER_CUSTOMER_PHONE, prompt(constants.MSG_ASK_CUSTOMER_PHONE, nil))
	case constants.STATE_ORDER_CUSTOMER_PHONE:
		res = m.onText(chatID, order, input, constants.MSG_EMPTY_PHONE, func(o *session.WorkingOrder, v string) { o.Phone = v },
			constants.STATE_ORDER_LOCATION, prompt(constants.MSG_ASK_LOCATION, locationKeyboard()))
	case constants.STATE_ORDER_LOCATION:
		res = m.onLocation(chatID, order, input)
	case constants.STATE_ORDER_ADDRESS:
		res = m.onText(chatID, order, input, constants.MSG_EMPTY_ADDRESS, func(o *session.WorkingOrder, v string) { o.Address = v },
			constants.STATE_ORDER_DELIVERY_TIME, prompt(constants.MSG_ASK_DELIVERY_TIME, deliveryKeyboard()))
	case constants.STATE_ORDER_DELIVERY_TIME:
		res = m.onDeliveryTime(chatID, order, input)
	case constants.STATE_ORDER_CUSTOM_DELIVERY:
		res = m.onCustomDelivery(chatID, order, input)
	case constants.STATE_ORDER_PREPAYMENT:
		res = m.onPrepayment(chatID, order, input)
	case constants.STATE_ORDER_COMMENTS:
		res = m.onComments(chatID, order, input)
	case constants.STATE_ORDER_FINAL_CONFIRM:
		return m.onFinalConfirm(ctx, chatID, acct, order, input)
	default:
		return Result{}, fmt.Errorf("orderform: unknown state %q", state)
	}
	return res, nil
}

func (m *Machine) advance(chatID int64, order *session.WorkingOrder, state string) {
	m.sessions.UpdateOrder(chatID, order)
	m.sessions.SetState(chatID, state)
}

func (m *Machine) onProduct(chatID int64, order *session.WorkingOrder, input string) Result {
	catalog := m.calc.Catalog()
	if !catalog.Has(input) {
		return Result{Replies: []Reply{
			reject(constants.MSG_BAD_PRODUCT),
			prompt(constants.MSG_ASK_PRODUCT, productKeyboard(catalog)),
		}}
	}
	order.StartLine(input)
	if catalog.IsFixedSize(input) {
		order.Size = constants.SIZE_NOT_APPLICABLE
		m.advance(chatID, order, constants.STATE_ORDER_QUANTITY)
		return single(prompt(constants.MSG_ASK_QUANTITY, quantityKeyboard()))
	}
	m.advance(chatID, order, constants.STATE_ORDER_SIZE)
	return single(prompt(constants.MSG_ASK_SIZE, sizeKeyboard(catalog)))
}

func (m *Machine) onSize(chatID int64, order *session.WorkingOrder, input string) Result {
	catalog := m.calc.Catalog()
	switch {
	case input == constants.BTN_CUSTOM_SIZE:
		m.sessions.SetState(chatID, constants.STATE_ORDER_CUSTOM_SIZE)
		return single(prompt(constants.MSG_ASK_CUSTOM_SIZE, nil))
	case catalog.IsCatalogSize(input):
		order.Size = input
		m.advance(chatID, order, constants.STATE_ORDER_QUANTITY)
		return single(prompt(constants.MSG_ASK_QUANTITY, quantityKeyboard()))
	default:
		return Result{Replies: []Reply{
			reject(constants.MSG_BAD_SIZE),
			prompt(constants.MSG_ASK_SIZE, sizeKeyboard(catalog)),
		}}
	}
}

// onCustomSize принимает любой непустой текст. Формат проверяется только при расчете цены.
func (m *Machine) onCustomSize(chatID int64, order *session.WorkingOrder, input string) Result {
	if input == "" {
		return single(reject(constants.MSG_EMPTY_SIZE))
	}
	order.Size = input
	m.advance(chatID, order, constants.STATE_ORDER_QUANTITY)
	return single(prompt(constants.MSG_ASK_QUANTITY, quantityKeyboard()))
}

// onQuantity считает позицию. Неверный формат нестандартного размера оставляет
// пользователя на вводе количества, к выбору размера форма не возвращается.
func (m *Machine) onQuantity(chatID int64, order *session.WorkingOrder, input string) Result {
	qty, err := pricing.ParseQuantity(input)
	if err != nil {
		return single(reject(constants.MSG_BAD_QUANTITY))
	}

	line, err := m.calc.ComputeLine(order.Product, order.Size, qty)
	switch {
	case apperr.IsValidation(err):
		m.logger.Debug("неверный формат размера", zap.Int64("chat_id", chatID), zap.String("size", order.Size))
		return single(reject(constants.MSG_BAD_SIZE_FORMAT))
	case err != nil:
		// Товар пропал из сессии или каталога: начинаем позицию заново.
		m.logger.Warn("не удалось рассчитать позицию", zap.Int64("chat_id", chatID), zap.Error(err))
		order.StartLine("")
		m.advance(chatID, order, constants.STATE_ORDER_PRODUCT)
		return Result{Replies: []Reply{
			reject(constants.MSG_BAD_PRODUCT),
			prompt(constants.MSG_ASK_PRODUCT, productKeyboard(m.calc.Catalog())),
		}}
	}

	order.SetPending(line)
	m.advance(chatID, order, constants.STATE_ORDER_SUM_CONFIRM)
	return single(prompt(formatters.FormatSumConfirm(line, false), yesNoKeyboard()))
}

// onSumConfirm обслуживает и первичное подтверждение суммы, и подтверждение после смены цены.
func (m *Machine) onSumConfirm(chatID int64, order *session.WorkingOrder, input string) Result {
	if order.Pending == nil {
		m.logger.Warn("нет позиции для подтверждения", zap.Int64("chat_id", chatID))
		m.advance(chatID, order, constants.STATE_ORDER_PRODUCT)
		return single(prompt(constants.MSG_ASK_PRODUCT, productKeyboard(m.calc.Catalog())))
	}

	switch input {
	case constants.BTN_YES:
		line, err := order.AcceptPending()
		if err != nil {
			return single(reject(constants.MSG_GENERIC_ERROR))
		}
		m.advance(chatID, order, constants.STATE_ORDER_ADD_MORE)
		m.logger.Debug("позиция добавлена", zap.Int64("chat_id", chatID),
			zap.String("product", line.Product), zap.Int("lines", len(order.Lines)))
		return single(Reply{Text: constants.MSG_LINE_ADDED, Keyboard: addMoreKeyboard()})
	case constants.BTN_NO:
		m.sessions.SetState(chatID, constants.STATE_ORDER_PRICE_OVERRIDE)
		return single(prompt(formatters.FormatPriceOverridePrompt(*order.Pending), nil))
	default:
		return single(reject(constants.MSG_CHOOSE_YES_NO))
	}
}

func (m *Machine) onPriceOverride(chatID int64, order *session.WorkingOrder, input string) Result {
	price, err := pricing.ParsePrice(input)
	if err != nil {
		return single(reject(constants.MSG_BAD_PRICE))
	}
	if order.Pending == nil {
		m.advance(chatID, order, constants.STATE_ORDER_PRODUCT)
		return single(prompt(constants.MSG_ASK_PRODUCT, productKeyboard(m.calc.Catalog())))
	}
	line, err := pricing.Override(*order.Pending, price)
	if err != nil {
		return single(reject(constants.MSG_BAD_PRICE))
	}
	order.SetPending(line)
	m.advance(chatID, order, constants.STATE_ORDER_OVERRIDE_CONFIRM)
	return single(prompt(formatters.FormatSumConfirm(line, true), yesNoKeyboard()))
}

func (m *Machine) onAddMore(chatID int64, order *session.WorkingOrder, input string) Result {
	switch input {
	case constants.BTN_ADD_ORDER:
		order.StartLine("")
		m.advance(chatID, order, constants.STATE_ORDER_PRODUCT)
		return single(prompt(constants.MSG_ASK_PRODUCT, productKeyboard(m.calc.Catalog())))
	case constants.BTN_FINISH_ORDER:
		m.advance(chatID, order, constants.STATE_ORDER_CUSTOMER_NAME)
		return single(prompt(constants.MSG_ASK_CUSTOMER_NAME, nil))
	default:
		return single(Reply{Text: constants.MSG_CHOOSE_OPTION, Keyboard: addMoreKeyboard()})
	}
}

// onText - общий шаг для полей, которые должны быть непустыми и сохраняются как есть.
func (m *Machine) onText(chatID int64, order *session.WorkingOrder, input, emptyMsg string,
	set func(*session.WorkingOrder, string), next string, nextPrompt Reply) Result {
	if input == "" {
		return single(reject(emptyMsg))
	}
	set(order, input)
	m.advance(chatID, order, next)
	return single(nextPrompt)
}

func (m *Machine) onLocation(chatID int64, order *session.WorkingOrder, input string) Result {
	for _, loc := range constants.Locations {
		if input == loc {
			order.Location = input
			m.advance(chatID, order, constants.STATE_ORDER_ADDRESS)
			return single(prompt(constants.MSG_ASK_ADDRESS, nil))
		}
	}
	return single(Reply{Text: constants.MSG_CHOOSE_OPTION, Keyboard: locationKeyboard()})
}

func (m *Machine) onDeliveryTime(chatID int64, order *session.WorkingOrder, input string) Result {
	switch input {
	case constants.BTN_TODAY, constants.BTN_TOMORROW:
		order.DeliveryTime = input
		m.advance(chatID, order, constants.STATE_ORDER_PREPAYMENT)
		return single(prompt(constants.MSG_ASK_PREPAYMENT, nil))
	case constants.BTN_CUSTOM_DELIVERY:
		m.sessions.SetState(chatID, constants.STATE_ORDER_CUSTOM_DELIVERY)
		return single(prompt(constants.MSG_ASK_CUSTOM_DELIVERY, nil))
	default:
		return single(Reply{Text: constants.MSG_BAD_DELIVERY_TIME, Keyboard: deliveryKeyboard()})
	}
}

// onCustomDelivery сохраняет дату доставки как есть и повторяет ее продавцу.
func (m *Machine) onCustomDelivery(chatID int64, order *session.WorkingOrder, input string) Result {
	if input == "" {
		return single(reject(constants.MSG_EMPTY_DELIVERY))
	}
	order.DeliveryTime = input
	m.advance(chatID, order, constants.STATE_ORDER_PREPAYMENT)
	return Result{Replies: []Reply{
		{Text: fmt.Sprintf(constants.MSG_DELIVERY_SAVED, input)},
		prompt(constants.MSG_ASK_PREPAYMENT, nil),
	}}
}

func (m *Machine) onPrepayment(chatID int64, order *session.WorkingOrder, input string) Result {
	amount, err := pricing.ParsePrepayment(input)
	if err != nil {
		return single(reject(constants.MSG_BAD_PREPAYMENT))
	}
	order.Prepayment = amount
	m.advance(chatID, order, constants.STATE_ORDER_COMMENTS)
	return single(prompt(constants.MSG_ASK_COMMENTS, nil))
}

// NormalizeComment приводит варианты "нет комментария" к пустой строке.
func NormalizeComment(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, token := range constants.NoCommentTokens {
		if lower == token {
			return ""
		}
	}
	return strings.TrimSpace(input)
}

func (m *Machine) onComments(chatID int64, order *session.WorkingOrder, input string) Result {
	order.Comments = NormalizeComment(input)
	m.advance(chatID, order, constants.STATE_ORDER_FINAL_CONFIRM)
	return single(prompt(formatters.FormatOrderSummary(order), yesNoKeyboard()))
}

// onFinalConfirm commits or discards the order. A failed commit keeps the order
// and the confirmation state so that pressing "Ha" again retries.
func (m *Machine) onFinalConfirm(ctx context.Context, chatID int64, acct models.Account, order *session.WorkingOrder, input string) (Result, error) {
	switch input {
	case constants.BTN_YES:
		persisted, err := m.committer.Commit(ctx, acct, order)
		if err != nil {
			m.logger.Error("не удалось сохранить заказ", zap.Int64("chat_id", chatID), zap.Int64("user_id", acct.ID), zap.Error(err))
			return single(Reply{Text: constants.MSG_ORDER_SAVE_FAILED, Keyboard: yesNoKeyboard()}), nil
		}
		m.sessions.ClearOrder(chatID)
		m.sessions.ClearState(chatID)
		m.logger.Info("заказ сохранен", zap.Int64("chat_id", chatID), zap.Int64("order_id", persisted.ID),
			zap.String("total", persisted.TotalPrice.String()))
		return Result{
			Replies: []Reply{
				{Text: constants.MSG_ORDER_SAVED},
				prompt(constants.MSG_ORDER_NEXT_ACTION, UserMenuKeyboard()),
			},
			Committed: &persisted,
		}, nil
	case constants.BTN_NO:
		m.sessions.ClearOrder(chatID)
		m.sessions.ClearState(chatID)
		m.logger.Debug("заказ отменен", zap.Int64("chat_id", chatID))
		return single(Reply{Text: constants.MSG_ORDER_DISCARDED, Keyboard: UserMenuKeyboard()}), nil
	default:
		return single(reject(constants.MSG_CHOOSE_YES_NO)), nil
	}
}
