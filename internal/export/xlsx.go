package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"orderbot/internal/models"
)

// OrdersSheet - имя листа в выгрузке.
const OrdersSheet = "Buyurtmalar"

// numericColumns - индексы денежных колонок AllOrderHeaders, пишутся числами.
var numericColumns = map[int]bool{5: true, 6: true, 7: true}

// AllOrdersXLSX строит книгу Excel со всеми заказами.
func AllOrdersXLSX(orders []models.OrderWithAccount) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(OrdersSheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, header := range AllOrderHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(OrdersSheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(AllOrderHeaders), 1)
	if err := f.SetCellStyle(OrdersSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for r, o := range orders {
		row := JoinedRow(o)
		money := []float64{
			o.TotalPrice.InexactFloat64(),
			o.Payment.InexactFloat64(),
			o.RemainingPayment.InexactFloat64(),
		}
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var v interface{} = value
			if numericColumns[c] {
				v = money[c-5]
			}
			if err := f.SetCellValue(OrdersSheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(OrdersSheet, "E", "E", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
