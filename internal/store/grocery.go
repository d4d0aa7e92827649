package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/basket/internal/model"
)

// GroceryStore is the only reader and writer of the grocery_items table.
type GroceryStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db, now: time.Now}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var id, name, quantity, category, bought, createdAt any
	if err := scanner.Scan(&id, &name, &quantity, &category, &bought, &createdAt); err != nil {
		return nil, err
	}
	item := normalizeRow(id, name, quantity, category, bought, createdAt)
	return &item, nil
}

// normalizeRow coerces loosely typed column values into a GroceryItem.
// Non-numeric or non-positive quantity becomes 1, NULL text becomes "",
// and bought is true only when the stored value is exactly 1.
func normalizeRow(id, name, quantity, category, bought, createdAt any) model.GroceryItem {
	item := model.GroceryItem{
		Name:     asString(name),
		Quantity: 1,
		Category: asString(category),
	}
	if n, ok := asNumber(id); ok {
		item.ID = int64(n)
	}
	if n, ok := asNumber(quantity); ok && n >= 1 {
		item.Quantity = int(n)
	}
	if n, ok := asNumber(bought); ok && n == 1 {
		item.Bought = true
	}
	if n, ok := asNumber(createdAt); ok {
		item.CreatedAt = int64(n)
	}
	return item
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case []byte:
		return asNumber(string(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// normalizePayload trims the name, rejects it when empty and clamps quantity.
func normalizePayload(p model.InsertPayload) (model.InsertPayload, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if p.Quantity < 1 {
		p.Quantity = 1
	}
	return p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const itemCols = `id, name, quantity, category, bought, created_at`

func (s *GroceryStore) List(ctx context.Context) ([]model.GroceryItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemCols+` FROM grocery_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storageErr("list items", err)
	}
	defer rows.Close()

	items := []model.GroceryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list items", err)
	}
	return items, nil
}

// Get returns the item with the given id, or (nil, nil) if it does not exist.
func (s *GroceryStore) Get(ctx context.Context, id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get item", err)
	}
	return item, nil
}

func (s *GroceryStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grocery_items`).Scan(&count); err != nil {
		return 0, storageErr("count items", err)
	}
	return count, nil
}

// Insert stores a new item stamped with the current time and returns it.
func (s *GroceryStore) Insert(ctx context.Context, p model.InsertPayload) (*model.GroceryItem, error) {
	p, err := normalizePayload(p)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (name, quantity, category, bought, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Quantity, p.Category, boolInt(p.Bought), s.now().UnixMilli(),
	)
	if err != nil {
		return nil, storageErr("insert item", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("last insert id", err)
	}
	return s.Get(ctx, id)
}

// Update overwrites the writable fields of an existing item and reports the
// number of rows affected. A missing id affects 0 rows and is not an error.
func (s *GroceryStore) Update(ctx context.Context, p model.UpdatePayload) (int64, error) {
	payload, err := normalizePayload(p.InsertPayload)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET name = ?, quantity = ?, category = ?, bought = ? WHERE id = ?`,
		payload.Name, payload.Quantity, payload.Category, boolInt(payload.Bought), p.ID,
	)
	if err != nil {
		return 0, storageErr("update item", err)
	}
	return rowsAffected(result)
}

// ToggleBought flips bought in a single statement so two close toggles
// cannot interleave a read and a write.
func (s *GroceryStore) ToggleBought(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET bought = CASE WHEN bought = 1 THEN 0 ELSE 1 END WHERE id = ?`,
		id,
	)
	if err != nil {
		return 0, storageErr("toggle bought", err)
	}
	return rowsAffected(result)
}

func (s *GroceryStore) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return 0, storageErr("delete item", err)
	}
	return rowsAffected(result)
}

// BulkUpsertByName inserts each item whose name has no case-insensitive match
// among existing rows (or earlier items of the same batch). Existing rows are
// never modified. The batch commits as a whole; it returns the number inserted.
func (s *GroceryStore) BulkUpsertByName(ctx context.Context, items []model.InsertPayload) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	payloads := make([]model.InsertPayload, 0, len(items))
	for _, item := range items {
		p, err := normalizePayload(item)
		if err != nil {
			return 0, err
		}
		payloads = append(payloads, p)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin tx", err)
	}
	defer tx.Rollback()

	existing, err := existingNames(ctx, tx)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, p := range payloads {
		key := strings.ToLower(p.Name)
		if existing[key] {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO grocery_items (name, quantity, category, bought, created_at) VALUES (?, ?, ?, ?, ?)`,
			p.Name, p.Quantity, p.Category, boolInt(p.Bought), s.now().UnixMilli(),
		)
		if err != nil {
			return 0, storageErr(fmt.Sprintf("upsert item %q", p.Name), err)
		}
		existing[key] = true
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit upsert", err)
	}
	return inserted, nil
}

// existingNames returns the lower-cased names already stored. Folding happens
// here rather than with SQL lower(), which only folds ASCII.
func existingNames(ctx context.Context, tx *sql.Tx) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM grocery_items`)
	if err != nil {
		return nil, storageErr("list names", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("scan name", err)
		}
		names[strings.ToLower(name.String)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list names", err)
	}
	return names, nil
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr("rows affected", err)
	}
	return n, nil
}
