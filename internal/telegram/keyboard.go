package telegram

import (
	"fmt"

	"github.com/WhoYa/EverNeed-Door/internal/domain"
	"github.com/go-telegram/bot/models"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// BackRow is a single back button row.
func BackRow(callbackData string) []models.InlineKeyboardButton {
	return ButtonRow(InlineButton("🔙 Назад", callbackData))
}

// PaginationRow creates a pagination row with prev/next buttons.
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton

	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage-1)))
	}

	row = append(row, InlineButton(
		fmt.Sprintf("%d/%d", currentPage+1, totalPages),
		"cur",
	))

	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage+1)))
	}

	return row
}

// ProductSelectionKeyboard renders one toggle button per product with a
// check mark on currently selected ids, plus a confirm row.
func ProductSelectionKeyboard(products []domain.Product, selected map[int64]bool) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, p := range products {
		mark := ""
		if selected[p.ID] {
			mark = "✅ "
		}
		rows = append(rows, ButtonRow(
			InlineButton(fmt.Sprintf("%s%s", mark, p.Name), fmt.Sprintf("select_product_%d", p.ID)),
		))
	}
	rows = append(rows, ButtonRow(
		InlineButton("✅ Готово", "confirm_product_selection"),
	))
	rows = append(rows, ButtonRow(
		InlineButton("⬅️ Назад", "wizard_back"),
	))
	return InlineKeyboard(rows...)
}

// SelectedSet turns a selection slice into a lookup map for rendering.
func SelectedSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
