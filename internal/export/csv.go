package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"orderbot/internal/models"
)

// SellerOrdersCSV renders the caller's orders, header row first.
func SellerOrdersCSV(orders []models.PersistedOrder) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(SellerOrderHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, o := range orders {
		if err := w.Write(SellerRow(o)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", o.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
