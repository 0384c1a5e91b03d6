// Package pricing содержит каталог товаров и расчет стоимости позиций заказа.
package pricing

import (
	"github.com/shopspring/decimal"
)

type catalogEntry struct {
	name      string
	price     int64 // сум за штуку или за м² для товаров с размером
	fixedSize bool
}

// Порядок записей определяет порядок кнопок на клавиатуре.
var defaultEntries = []catalogEntry{
	{name: "PREMIUM", price: 900000},
	{name: "KAPSULA", price: 550000},
	{name: "MILANO", price: 1500000},
	{name: "COMFORT", price: 2800000},
	{name: "SULTAN", price: 1200000},
	{name: "SOFT MEMORY", price: 1200000},
	{name: "MONDO", price: 900000},
	{name: "SOFT SLEEP", price: 450000},
	{name: "RELAX", price: 550000},
	{name: "LIGHT", price: 350000},
	{name: "STRONG", price: 500000},
	{name: "DETSKIY MATRAS", price: 250000},
	{name: "TOPPER 5cm", price: 490000},
	{name: "TOPPER 8cm", price: 650000},
	{name: "Sovutadigan Yostiq", price: 160000, fixedSize: true},
	{name: "16 HOLLOFAYBER Yostig", price: 120000, fixedSize: true},
	{name: "NM 2X1.8", price: 200000, fixedSize: true},
	{name: "NM 2.1×1.7", price: 210000, fixedSize: true},
	{name: "NM 2x1.6", price: 190000, fixedSize: true},
	{name: "NM 2x0.5", price: 150000, fixedSize: true},
}

var defaultSizes = []string{
	"190x90", "200x90", "200x100", "200x120", "200x150",
	"200x160", "200x180", "200x200", "210x170", "210x180",
}

// Catalog - статический прайс-лист: цена товара, признак фиксированного размера и стандартные размеры.
// Catalog is the static price list. It is read-only after construction.
type Catalog struct {
	products []string
	prices   map[string]decimal.Decimal
	fixed    map[string]bool
	sizes    []string
	sizeSet  map[string]bool
}

// DefaultCatalog возвращает каталог магазина.
func DefaultCatalog() *Catalog {
	return newCatalog(defaultEntries, defaultSizes)
}

func newCatalog(entries []catalogEntry, sizes []string) *Catalog {
	c := &Catalog{
		products: make([]string, 0, len(entries)),
		prices:   make(map[string]decimal.Decimal, len(entries)),
		fixed:    make(map[string]bool),
		sizes:    append([]string(nil), sizes...),
		sizeSet:  make(map[string]bool, len(sizes)),
	}
	for _, e := range entries {
		c.products = append(c.products, e.name)
		c.prices[e.name] = decimal.NewFromInt(e.price)
		if e.fixedSize {
			c.fixed[e.name] = true
		}
	}
	for _, s := range sizes {
		c.sizeSet[s] = true
	}
	return c
}

// Products возвращает названия товаров в порядке отображения.
func (c *Catalog) Products() []string {
	return append([]string(nil), c.products...)
}

// UnitPrice returns the catalog price of product.
func (c *Catalog) UnitPrice(product string) (decimal.Decimal, bool) {
	p, ok := c.prices[product]
	return p, ok
}

// Has reports whether product is in the catalog.
func (c *Catalog) Has(product string) bool {
	_, ok := c.prices[product]
	return ok
}

// IsFixedSize сообщает, что товар продается без выбора размера.
func (c *Catalog) IsFixedSize(product string) bool {
	return c.fixed[product]
}

// Sizes возвращает стандартные размеры (без кнопки нестандартного размера).
func (c *Catalog) Sizes() []string {
	return append([]string(nil), c.sizes...)
}

// IsCatalogSize reports whether size is one of the standard sizes.
func (c *Catalog) IsCatalogSize(size string) bool {
	return c.sizeSet[size]
}
