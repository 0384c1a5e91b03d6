package orderform

import (
	"orderbot/internal/constants"
	"orderbot/internal/pricing"
)

// rows раскладывает кнопки по perRow в ряд.
func rows(items []string, perRow int) [][]string {
	out := make([][]string, 0, (len(items)+perRow-1)/perRow)
	for i := 0; i < len(items); i += perRow {
		end := i + perRow
		if end > len(items) {
			end = len(items)
		}
		out = append(out, append([]string(nil), items[i:end]...))
	}
	return out
}

func productKeyboard(c *pricing.Catalog) [][]string {
	return rows(c.Products(), 2)
}

func sizeKeyboard(c *pricing.Catalog) [][]string {
	kb := rows(c.Sizes(), 2)
	return append(kb, []string{constants.BTN_CUSTOM_SIZE})
}

func quantityKeyboard() [][]string {
	return rows(constants.QuantityButtons, 5)
}

func yesNoKeyboard() [][]string {
	return [][]string{{constants.BTN_YES, constants.BTN_NO}}
}

func addMoreKeyboard() [][]string {
	return [][]string{{constants.BTN_ADD_ORDER, constants.BTN_FINISH_ORDER}}
}

func locationKeyboard() [][]string {
	return rows(constants.Locations, 2)
}

func deliveryKeyboard() [][]string {
	return [][]string{{constants.BTN_TODAY, constants.BTN_TOMORROW}, {constants.BTN_CUSTOM_DELIVERY}}
}

// UserMenuKeyboard - главное меню продавца.
func UserMenuKeyboard() [][]string {
	return [][]string{{constants.BTN_ADD_ORDER, constants.BTN_VIEW_ORDERS}}
}
