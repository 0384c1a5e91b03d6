// Package commit сохраняет подтвержденный заказ и затем, без гарантий доставки,
// уведомляет администраторов, группу и внешние зеркала (Google Sheets, Kafka).
package commit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"orderbot/internal/apperr"
	"orderbot/internal/formatters"
	"orderbot/internal/models"
	"orderbot/internal/session"
)

// ErrEmptyOrder возвращается при попытке сохранить заказ без позиций.
var ErrEmptyOrder = errors.New("order has no line items")

// OrderWriter сохраняет заказ и возвращает его с присвоенным ID.
type OrderWriter interface {
	InsertOrder(ctx context.Context, order models.PersistedOrder) (models.PersistedOrder, error)
}

// AdminDirectory lists administrator accounts.
type AdminDirectory interface {
	ListAdminAccounts(ctx context.Context) ([]models.Account, error)
}

// Notifier delivers a text message to one chat.
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Mirror - внешний приемник сохраненных заказов. Ошибки зеркал только логируются.
type Mirror interface {
	Name() string
	MirrorOrder(ctx context.Context, acct models.Account, order models.PersistedOrder) error
}

// Pipeline is the order commit pipeline. Persistence is the only step whose
// failure reaches the caller; everything after it is advisory.
type Pipeline struct {
	orders      OrderWriter
	admins      AdminDirectory
	notifier    Notifier
	groupChatID int64
	mirrors     []Mirror
	now         func() time.Time
	logger      *zap.Logger
}

// NewPipeline создает конвейер сохранения заказа. groupChatID == 0 отключает рассылку в группу.
func NewPipeline(orders OrderWriter, admins AdminDirectory, notifier Notifier, groupChatID int64, logger *zap.Logger, mirrors ...Mirror) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		orders:      orders,
		admins:      admins,
		notifier:    notifier,
		groupChatID: groupChatID,
		mirrors:     mirrors,
		now:         time.Now,
		logger:      logger,
	}
}

// BuildOrder превращает незавершенный заказ в запись для сохранения. Суммы считаются заново.
func BuildOrder(acct models.Account, order *session.WorkingOrder, at time.Time) models.PersistedOrder {
	items := append([]models.LineItem(nil), order.Lines...)
	total := order.Total()
	return models.PersistedOrder{
		UserID:             acct.ID,
		Products:           formatters.FormatProducts(items),
		Items:              items,
		TotalPrice:         total,
		Payment:            order.Prepayment,
		RemainingPayment:   total.Sub(order.Prepayment),
		CustomerName:       order.CustomerName,
		CustomerSurname:    order.CustomerSurname,
		PhoneNumber:        order.Phone,
		Location:           order.Location,
		DetailedAddress:    order.Address,
		DeliveryTime:       order.DeliveryTime,
		AdditionalComments: order.Comments,
		OrderDate:          at.UTC(),
	}
}

// Commit persists the order, then notifies admins, broadcasts to the group and
// feeds the mirrors. Only a persistence failure is returned.
func (p *Pipeline) Commit(ctx context.Context, acct models.Account, order *session.WorkingOrder) (models.PersistedOrder, error) {
	if order == nil || !order.HasLines() {
		return models.PersistedOrder{}, ErrEmptyOrder
	}

	record := BuildOrder(acct, order, p.now())
	saved, err := p.orders.InsertOrder(ctx, record)
	if err != nil {
		if !apperr.IsPersistence(err) {
			err = apperr.Persistence("insert order", err)
		}
		return models.PersistedOrder{}, err
	}
	if len(saved.Items) == 0 {
		saved.Items = record.Items
	}

	p.logger.Info("заказ записан в БД", zap.Int64("order_id", saved.ID), zap.Int64("user_id", acct.ID))
	p.fanOut(ctx, acct, saved)
	return saved, nil
}

func (p *Pipeline) fanOut(ctx context.Context, acct models.Account, order models.PersistedOrder) {
	text := formatters.FormatNewOrderNotice(acct, order)

	admins, err := p.admins.ListAdminAccounts(ctx)
	if err != nil {
		p.logger.Error("не удалось получить список админов", zap.Error(err))
	}
	for _, admin := range admins {
		if !admin.IsBound() {
			continue
		}
		p.send(ctx, admin.TelegramID.Int64, text)
	}

	if p.groupChatID != 0 {
		p.send(ctx, p.groupChatID, text)
	}

	for _, m := range p.mirrors {
		if err := m.MirrorOrder(ctx, acct, order); err != nil {
			p.logger.Warn("ошибка зеркалирования заказа", zap.String("mirror", m.Name()),
				zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}
}

func (p *Pipeline) send(ctx context.Context, chatID int64, text string) {
	if err := p.notifier.SendText(ctx, chatID, text); err != nil {
		nerr := &apperr.NotificationError{Recipient: chatID, Err: err}
		p.logger.Warn("не удалось отправить уведомление о заказе", zap.Error(nerr))
	}
}
