package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/basket/internal/model"
)

func sampleItems() []model.GroceryItem {
	return []model.GroceryItem{
		{ID: 1, Name: "Milk", Category: "Dairy"},
		{ID: 2, Name: "Eggs", Category: "Breakfast"},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty query returns all", "", []string{"Milk", "Eggs"}},
		{"blank query returns all", "   ", []string{"Milk", "Eggs"}},
		{"name substring", "egg", []string{"Eggs"}},
		{"case insensitive", "  MILK ", []string{"Milk"}},
		{"category substring", "dair", []string{"Milk"}},
		{"category match on other item", "break", []string{"Eggs"}},
		{"no match", "bread", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, item := range Filter(sampleItems(), tt.search) {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	Filter(items, "egg")
	assert.Equal(t, sampleItems(), items)
}
