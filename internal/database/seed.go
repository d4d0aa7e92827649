package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/basket/internal/model"
)

// DefaultItems are inserted into an empty table, in this order.
var DefaultItems = []model.InsertPayload{
	{Name: "Sữa tươi", Quantity: 2, Category: "Thực phẩm"},
	{Name: "Trứng gà", Quantity: 10, Category: "Thực phẩm"},
	{Name: "Bánh mì", Quantity: 1, Category: "Ăn sáng"},
}

// SeedIfEmpty inserts DefaultItems when grocery_items has no rows and
// returns how many rows it wrote. Each item gets created_at = now + index ms
// so the seed order survives the newest-first listing.
func SeedIfEmpty(ctx context.Context, db *sql.DB, now time.Time) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM grocery_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	base := now.UnixMilli()
	for i, item := range DefaultItems {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		bought := 0
		if item.Bought {
			bought = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO grocery_items (name, quantity, category, bought, created_at) VALUES (?, ?, ?, ?, ?)`,
			item.Name, quantity, item.Category, bought, base+int64(i),
		)
		if err != nil {
			return 0, fmt.Errorf("seed item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(DefaultItems), nil
}
