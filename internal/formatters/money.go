// Package formatters собирает тексты сообщений бота: суммы, позиции заказа, сводки и уведомления.
package formatters

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currency = "so'm"

// FormatAmount округляет сумму до целых сумов и разделяет тысячи запятой: 1400000 -> "1,400,000".
func FormatAmount(amount decimal.Decimal) string {
	s := amount.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	// Разделители вставляются слева направо.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatMoney formats amount with the currency suffix, e.g. "1,400,000 so'm".
func FormatMoney(amount decimal.Decimal) string {
	return FormatAmount(amount) + " " + currency
}
