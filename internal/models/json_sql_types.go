package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LineItems - позиции заказа, хранимые в колонке JSONB.
// LineItems is stored as a JSON array; a NULL column scans to an empty list.
type LineItems []LineItem

// Value реализует driver.Valuer для LineItems. Возвращает строку:
// lib/pq передает []byte как bytea, а не как текст JSON.
func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]LineItem(li))
	if err != nil {
		return nil, fmt.Errorf("marshal line items: %w", err)
	}
	return string(b), nil
}

// Scan реализует sql.Scanner для LineItems.
func (li *LineItems) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*li = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line items: unsupported column type %T", src)
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("unmarshal line items: %w", err)
	}
	*li = items
	return nil
}
