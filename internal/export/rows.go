// Package export renders order lists as CSV and XLSX documents and as
// spreadsheet rows.
package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"orderbot/internal/models"
)

const dateLayout = "2006-01-02 15:04:05"

// SellerOrderHeaders - колонки выгрузки /my_orders.
var SellerOrderHeaders = []string{
	"Buyurtma ID", "Mahsulotlar", "Umumiy summa", "To'langan",
	"Qoldiq", "Mijoz Ismi", "Mijoz Familiyasi",
	"Telefon", "Manzil", "Yetkazib berish muddati", "Buyurtma sana",
}

// AllOrderHeaders - колонки выгрузки /all_orders и зеркала в Google Sheets.
var AllOrderHeaders = []string{
	"Login", "F.I.O", "Telefon", "Buyurtma ID", "Mahsulotlar", "Umumiy summa",
	"Oldindan to'lov", "Qoldiq to'lov", "Mijoz Ismi", "Mijoz Familiyasi",
	"Mijoz Telefoni", "Joylashuv", "Batafsil manzil", "Yetkazib berish vaqti",
	"Izohlar", "Buyurtma sana",
}

// amount печатает сумму без разделителей, до двух знаков после запятой.
func amount(d decimal.Decimal) string {
	return d.Round(2).String()
}

func address(o models.PersistedOrder) string {
	switch {
	case o.Location == "":
		return o.DetailedAddress
	case o.DetailedAddress == "":
		return o.Location
	default:
		return o.Location + ", " + o.DetailedAddress
	}
}

// SellerRow - строка заказа для выгрузки продавцу.
func SellerRow(o models.PersistedOrder) []string {
	return []string{
		strconv.FormatInt(o.ID, 10),
		o.Products,
		amount(o.TotalPrice),
		amount(o.Payment),
		amount(o.RemainingPayment),
		o.CustomerName,
		o.CustomerSurname,
		o.PhoneNumber,
		address(o),
		o.DeliveryTime,
		o.OrderDate.UTC().Format(dateLayout),
	}
}

// AccountOrderRow - строка заказа вместе с данными аккаунта, в порядке AllOrderHeaders.
func AccountOrderRow(acct models.Account, o models.PersistedOrder) []string {
	return []string{
		acct.Login,
		acct.FullName,
		acct.PhoneNumber,
		strconv.FormatInt(o.ID, 10),
		o.Products,
		amount(o.TotalPrice),
		amount(o.Payment),
		amount(o.RemainingPayment),
		o.CustomerName,
		o.CustomerSurname,
		o.PhoneNumber,
		o.Location,
		o.DetailedAddress,
		o.DeliveryTime,
		o.AdditionalComments,
		o.OrderDate.UTC().Format(dateLayout),
	}
}

// JoinedRow - AccountOrderRow для строки выборки /all_orders.
func JoinedRow(o models.OrderWithAccount) []string {
	return AccountOrderRow(models.Account{
		Login:       o.Login,
		FullName:    o.FullName,
		PhoneNumber: o.AccountPhone,
	}, o.PersistedOrder)
}
