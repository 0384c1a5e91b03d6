package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem - одна позиция заказа: товар, размер, количество и цена за единицу.
// LineItem is one product entry of an order.
type LineItem struct {
	Product   string          `json:"product"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total всегда равен UnitPrice × Quantity.
// Total is always UnitPrice × Quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// PersistedOrder is an order row as written once on final confirmation.
// PersistedOrder - заказ, сохраненный при финальном подтверждении. После записи не изменяется.
type PersistedOrder struct {
	ID                 int64           `db:"id" json:"id"`
	UserID             int64           `db:"user_id" json:"user_id"`
	Products           string          `db:"products" json:"products"`
	Items              LineItems       `db:"items" json:"items,omitempty"`
	TotalPrice         decimal.Decimal `db:"total_price" json:"total_price"`
	Payment            decimal.Decimal `db:"payment" json:"payment"`
	RemainingPayment   decimal.Decimal `db:"remaining_payment" json:"remaining_payment"`
	CustomerName       string          `db:"customer_name" json:"customer_name"`
	CustomerSurname    string          `db:"customer_surname" json:"customer_surname"`
	PhoneNumber        string          `db:"phone_number" json:"phone_number"`
	Location           string          `db:"location" json:"location"`
	DetailedAddress    string          `db:"detailed_address" json:"detailed_address"`
	DeliveryTime       string          `db:"delivery_time" json:"delivery_time"`
	AdditionalComments string          `db:"additional_comments" json:"additional_comments"`
	OrderDate          time.Time       `db:"order_date" json:"order_date"`
}

// OrderWithAccount - заказ вместе с данными аккаунта продавца (для /all_orders и выгрузок).
// OrderWithAccount joins an order with its owner's account fields.
type OrderWithAccount struct {
	PersistedOrder
	Login            string `db:"login" json:"login"`
	FullName         string `db:"full_name" json:"full_name"`
	Role             string `db:"role" json:"role"`
	AccountPhone     string `db:"account_phone" json:"account_phone"`
	TelegramUsername string `db:"telegram_username" json:"telegram_username"`
}
