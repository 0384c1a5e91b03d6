package db

import (
	"context"

	"go.uber.org/zap"

	"orderbot/internal/models"
)

const orderColumns = `o.id, o.user_id, o.products, o.items, o.total_price, o.payment, o.remaining_payment,
       o.customer_name, o.customer_surname, o.phone_number, o.location, o.detailed_address,
       o.delivery_time, o.additional_comments, o.order_date`

// InsertOrder сохраняет заказ и возвращает его с присвоенным ID.
// InsertOrder writes the order row once; orders are never updated afterwards.
func (s *Store) InsertOrder(ctx context.Context, order models.PersistedOrder) (models.PersistedOrder, error) {
	rows, err := s.db.NamedQueryContext(ctx, `
        INSERT INTO orders (
            user_id, products, items, total_price, payment, remaining_payment,
            customer_name, customer_surname, phone_number, location,
            detailed_address, delivery_time, additional_comments, order_date
        ) VALUES (
            :user_id, :products, :items, :total_price, :payment, :remaining_payment,
            :customer_name, :customer_surname, :phone_number, :location,
            :detailed_address, :delivery_time, :additional_comments, :order_date
        ) RETURNING id`, order)
	if err != nil {
		s.logger.Error("InsertOrder: ошибка вставки заказа", zap.Int64("user_id", order.UserID), zap.Error(err))
		return order, classify("insert order", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&order.ID); err != nil {
			return order, classify("insert order", err)
		}
	}
	if err := rows.Err(); err != nil {
		return order, classify("insert order", err)
	}
	s.logger.Info("Заказ сохранен", zap.Int64("order_id", order.ID), zap.Int64("user_id", order.UserID))
	return order, nil
}

// ListOrdersForAccount возвращает заказы аккаунта по возрастанию ID.
func (s *Store) ListOrdersForAccount(ctx context.Context, userID int64) ([]models.PersistedOrder, error) {
	var orders []models.PersistedOrder
	err := s.db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders o WHERE o.user_id = $1 ORDER BY o.id`, userID)
	if err != nil {
		s.logger.Error("ListOrdersForAccount: ошибка выборки", zap.Int64("user_id", userID), zap.Error(err))
		return nil, classify("list orders for account", err)
	}
	return orders, nil
}

// ListAllOrdersJoinedWithAccount - все заказы с данными продавца, сгруппированные по логину.
func (s *Store) ListAllOrdersJoinedWithAccount(ctx context.Context) ([]models.OrderWithAccount, error) {
	var orders []models.OrderWithAccount
	err := s.db.SelectContext(ctx, &orders, `
        SELECT `+orderColumns+`,
               u.login, u.full_name, u.role, u.phone_number AS account_phone,
               COALESCE(u.telegram_username, '') AS telegram_username
        FROM orders o
        JOIN users u ON u.user_id = o.user_id
        ORDER BY u.login, o.id`)
	if err != nil {
		s.logger.Error("ListAllOrdersJoinedWithAccount: ошибка выборки", zap.Error(err))
		return nil, classify("list all orders", err)
	}
	return orders, nil
}
