package session

import (
	"errors"

	"github.com/shopspring/decimal"

	"orderbot/internal/models"
)

// ErrNoPendingLine возвращается при подтверждении позиции, которой нет.
var ErrNoPendingLine = errors.New("no pending line item")

// WorkingOrder накапливает позиции и данные клиента одного незавершенного заказа.
// WorkingOrder is the in-progress order of a single chat.
// Lines only ever grow by confirming Pending; nothing else appends to them.
type WorkingOrder struct {
	Lines   []models.LineItem
	Pending *models.LineItem

	// Выбор текущей позиции до расчета цены.
	Product string
	Size    string

	CustomerName    string
	CustomerSurname string
	Phone           string
	Location        string
	Address         string
	DeliveryTime    string
	Prepayment      decimal.Decimal
	Comments        string
}

// NewWorkingOrder создает пустой заказ.
func NewWorkingOrder() *WorkingOrder {
	return &WorkingOrder{Lines: make([]models.LineItem, 0)}
}

// StartLine начинает новую позицию: сбрасывает выбор размера и неподтвержденную позицию.
func (o *WorkingOrder) StartLine(product string) {
	o.Product = product
	o.Size = ""
	o.Pending = nil
}

// SetPending записывает рассчитанную, но еще не подтвержденную позицию.
func (o *WorkingOrder) SetPending(line models.LineItem) {
	o.Pending = &line
}

// AcceptPending appends the pending line to Lines and clears it.
func (o *WorkingOrder) AcceptPending() (models.LineItem, error) {
	if o.Pending == nil {
		return models.LineItem{}, ErrNoPendingLine
	}
	line := *o.Pending
	o.Lines = append(o.Lines, line)
	o.Pending = nil
	o.Product = ""
	o.Size = ""
	return line, nil
}

// Total - сумма итогов подтвержденных позиций. Pending не учитывается.
func (o *WorkingOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Remaining = Total - Prepayment. Может быть отрицательным при переплате.
func (o *WorkingOrder) Remaining() decimal.Decimal {
	return o.Total().Sub(o.Prepayment)
}

// HasLines сообщает, есть ли хотя бы одна подтвержденная позиция.
func (o *WorkingOrder) HasLines() bool {
	return len(o.Lines) > 0
}

// Clone returns a deep copy; the session store never shares slices with callers.
func (o *WorkingOrder) Clone() *WorkingOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = append(make([]models.LineItem, 0, len(o.Lines)), o.Lines...)
	if o.Pending != nil {
		p := *o.Pending
		c.Pending = &p
	}
	return &c
}
