package pricing

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"orderbot/internal/apperr"
	"orderbot/internal/constants"
	"orderbot/internal/models"
)

var (
	// ErrUnknownProduct - товара нет в каталоге.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInvalidSizeFormat - в размере не ровно два положительных числа в допустимых пределах.
	ErrInvalidSizeFormat = apperr.Invalid("size", "expected two dimensions in centimeters")
	// ErrInvalidQuantity - количество не положительное целое или слишком большое.
	ErrInvalidQuantity = apperr.Invalid("quantity", "not a positive integer within range")
	// ErrInvalidPrice - цена не положительное число или больше двух знаков после точки.
	ErrInvalidPrice = apperr.Invalid("price", "not a positive amount with at most two decimals")
)

// MaxDimension - наибольшая сторона нестандартного размера, см.
const MaxDimension = 1000

var (
	digitGroups = regexp.MustCompile(`\d+`)
	// Каталожная цена указана за м², размеры вводятся в сантиметрах.
	squareCentimetersPerMeter = decimal.NewFromInt(10000)
)

// Calculator derives unit price and line total for a catalog product.
// Calculator считает цену позиции, в том числе по площади для товаров с размером.
type Calculator struct {
	catalog *Catalog
}

// NewCalculator создает калькулятор поверх каталога.
func NewCalculator(catalog *Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// Catalog возвращает каталог калькулятора.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// ComputeLine builds a pending line item for product, size and quantity.
// Fixed-size products take the catalog price as is and get the "N/A" size.
// Other products are priced per square meter: unit = price × (W×H)/10000.
func (c *Calculator) ComputeLine(product, size string, quantity int) (models.LineItem, error) {
	price, ok := c.catalog.UnitPrice(product)
	if !ok {
		return models.LineItem{}, fmt.Errorf("%w: %q", ErrUnknownProduct, product)
	}
	if quantity <= 0 || quantity > MaxQuantity {
		return models.LineItem{}, ErrInvalidQuantity
	}

	if c.catalog.IsFixedSize(product) {
		return models.LineItem{
			Product:   product,
			Size:      constants.SIZE_NOT_APPLICABLE,
			Quantity:  quantity,
			UnitPrice: price,
		}, nil
	}

	area, err := Area(size)
	if err != nil {
		return models.LineItem{}, err
	}
	return models.LineItem{
		Product:   product,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: price.Mul(area),
	}, nil
}

// Override replaces the unit price of line. The area derivation is not reapplied.
// Override заменяет цену за единицу; итог позиции пересчитывается как price × quantity.
func Override(line models.LineItem, unitPrice decimal.Decimal) (models.LineItem, error) {
	if !unitPrice.IsPositive() || !unitPrice.Equal(unitPrice.Round(2)) {
		return line, ErrInvalidPrice
	}
	line.UnitPrice = unitPrice
	return line, nil
}

// Area возвращает площадь в м² для размера вида "<ширина>x<длина>" в сантиметрах.
func Area(size string) (decimal.Decimal, error) {
	w, h, err := ParseDimensions(size)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(w * h).Div(squareCentimetersPerMeter), nil
}

// ParseDimensions extracts exactly two positive integers, each at most MaxDimension,
// from a free-form size such as "200x500".
func ParseDimensions(size string) (int64, int64, error) {
	groups := digitGroups.FindAllString(size, -1)
	if len(groups) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, size)
	}
	dims := make([]int64, 2)
	for i, g := range groups {
		n, err := strconv.ParseInt(g, 10, 32)
		if err != nil || n <= 0 || n > MaxDimension {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, size)
		}
		dims[i] = n
	}
	return dims[0], dims[1], nil
}
