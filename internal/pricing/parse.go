package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity - наибольшее количество в одной позиции.
const MaxQuantity = 10000

// maxAmount ограничивает вводимые цену и предоплату.
var maxAmount = decimal.New(1, 15)

var (
	plainInteger = regexp.MustCompile(`^\d+$`)
	// Не больше двух знаков после точки: суммы хранятся как NUMERIC(20,2).
	plainAmount = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// stripSeparators убирает разделители тысяч: "1,500 000" -> "1500000".
func stripSeparators(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, " ", "")
}

// ParseQuantity accepts a positive integer up to MaxQuantity, thousands separators allowed.
func ParseQuantity(input string) (int, error) {
	s := stripSeparators(input)
	if !plainInteger.MatchString(s) {
		return 0, ErrInvalidQuantity
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > MaxQuantity {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// ParsePrice разбирает положительную цену, введенную оператором, с точностью до двух знаков.
func ParsePrice(input string) (decimal.Decimal, error) {
	s := stripSeparators(input)
	if !plainAmount.MatchString(s) {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() || d.GreaterThan(maxAmount) {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

// ParsePrepayment разбирает неотрицательную сумму предоплаты. Знак минус не принимается.
func ParsePrepayment(input string) (decimal.Decimal, error) {
	s := stripSeparators(input)
	if !plainAmount.MatchString(s) {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.GreaterThan(maxAmount) {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}
