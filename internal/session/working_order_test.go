package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbot/internal/models"
)

func line(product string, qty int, unit int64) models.LineItem {
	return models.LineItem{Product: product, Size: "N/A", Quantity: qty, UnitPrice: decimal.NewFromInt(unit)}
}

func TestAcceptPending(t *testing.T) {
	o := NewWorkingOrder()

	_, err := o.AcceptPending()
	assert.ErrorIs(t, err, ErrNoPendingLine)

	o.StartLine("NM 2x0.5")
	o.SetPending(line("NM 2x0.5", 3, 150000))
	accepted, err := o.AcceptPending()
	require.NoError(t, err)
	assert.Equal(t, "NM 2x0.5", accepted.Product)
	assert.Nil(t, o.Pending)
	assert.Empty(t, o.Product)
	assert.Len(t, o.Lines, 1)

	// повторное подтверждение не дублирует позицию
	_, err = o.AcceptPending()
	assert.ErrorIs(t, err, ErrNoPendingLine)
	assert.Len(t, o.Lines, 1)
}

func TestTotals(t *testing.T) {
	o := NewWorkingOrder()
	o.SetPending(line("LIGHT", 2, 700000))
	_, _ = o.AcceptPending()
	o.SetPending(line("NM 2x0.5", 3, 150000))
	_, _ = o.AcceptPending()
	// неподтвержденная позиция в сумму не входит
	o.SetPending(line("PREMIUM", 1, 900000))

	assert.True(t, decimal.NewFromInt(1850000).Equal(o.Total()))

	o.Prepayment = decimal.NewFromInt(500000)
	assert.True(t, decimal.NewFromInt(1350000).Equal(o.Remaining()))

	o.Prepayment = decimal.NewFromInt(2000000)
	assert.True(t, decimal.NewFromInt(-150000).Equal(o.Remaining()))
}

func TestCloneIsDeep(t *testing.T) {
	o := NewWorkingOrder()
	o.SetPending(line("LIGHT", 2, 700000))
	_, _ = o.AcceptPending()
	o.SetPending(line("PREMIUM", 1, 900000))

	c := o.Clone()
	c.Lines[0].Quantity = 5
	c.Pending.Quantity = 7
	c.Lines = append(c.Lines, line("X", 1, 1))

	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.Equal(t, 1, o.Pending.Quantity)
	assert.Len(t, o.Lines, 1)

	var nilOrder *WorkingOrder
	assert.Nil(t, nilOrder.Clone())
}
