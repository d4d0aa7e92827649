package grocery

import (
	"strings"

	"github.com/dukerupert/basket/internal/model"
)

// Filter returns the items whose name or category contains search,
// case-insensitively. A blank search returns items unchanged.
func Filter(items []model.GroceryItem, search string) []model.GroceryItem {
	keyword := strings.ToLower(strings.TrimSpace(search))
	if keyword == "" {
		return items
	}

	var matched []model.GroceryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), keyword) ||
			strings.Contains(strings.ToLower(item.Category), keyword) {
			matched = append(matched, item)
		}
	}
	return matched
}
