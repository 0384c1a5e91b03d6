// Package events publishes order-created events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderbot/internal/models"
)

// OrderCreatedType - значение поля type события.
const OrderCreatedType = "order_created"

// OrderCreated - тело события о новом заказе.
type OrderCreated struct {
	EventID          string            `json:"event_id"`
	Type             string            `json:"type"`
	OccurredAt       time.Time         `json:"occurred_at"`
	OrderID          int64             `json:"order_id"`
	Login            string            `json:"login"`
	Role             string            `json:"role"`
	TotalPrice       decimal.Decimal   `json:"total_price"`
	Payment          decimal.Decimal   `json:"payment"`
	RemainingPayment decimal.Decimal   `json:"remaining_payment"`
	Items            []models.LineItem `json:"items"`
	Products         string            `json:"products"`
	Location         string            `json:"location"`
	DeliveryTime     string            `json:"delivery_time"`
}

// NewOrderCreated собирает событие по сохраненному заказу.
func NewOrderCreated(acct models.Account, order models.PersistedOrder, at time.Time) OrderCreated {
	return OrderCreated{
		EventID:          uuid.NewString(),
		Type:             OrderCreatedType,
		OccurredAt:       at.UTC(),
		OrderID:          order.ID,
		Login:            acct.Login,
		Role:             acct.Role,
		TotalPrice:       order.TotalPrice,
		Payment:          order.Payment,
		RemainingPayment: order.RemainingPayment,
		Items:            order.Items,
		Products:         order.Products,
		Location:         order.Location,
		DeliveryTime:     order.DeliveryTime,
	}
}

// Publisher sends order events through a sarama sync producer.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
	logger   *zap.Logger
}

// NewProducer создает синхронного продюсера с подтверждением от всех реплик.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	conf.Producer.RequiredAcks = sarama.WaitForAll

	client, err := sarama.NewClient(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// NewPublisher wraps producer for topic.
func NewPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{producer: producer, topic: topic, now: time.Now, logger: logger}
}

// Name implements commit.Mirror.
func (p *Publisher) Name() string { return "kafka" }

// MirrorOrder публикует событие order_created. Ключ сообщения - ID заказа.
func (p *Publisher) MirrorOrder(ctx context.Context, acct models.Account, order models.PersistedOrder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	event := NewOrderCreated(acct, order, p.now())
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(order.ID, 10)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.EventID, err)
	}
	p.logger.Info("Событие заказа опубликовано",
		zap.String("event_id", event.EventID),
		zap.Int64("order_id", order.ID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close закрывает продюсера.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
