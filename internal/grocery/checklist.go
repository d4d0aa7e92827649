package grocery

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/dukerupert/basket/internal/feed"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/store"
)

// Banner messages shown for background failures.
const (
	MsgLoadFailed   = "Could not load the list. Please try again."
	MsgToggleFailed = "Could not update the item."
	MsgDeleteFailed = "Could not delete the item. Please try again."
	MsgImportFailed = "Import failed. Check your connection and try again."
)

// Repository is the part of the item store the checklist drives.
type Repository interface {
	List(ctx context.Context) ([]model.GroceryItem, error)
	Insert(ctx context.Context, p model.InsertPayload) (*model.GroceryItem, error)
	Update(ctx context.Context, p model.UpdatePayload) (int64, error)
	ToggleBought(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	BulkUpsertByName(ctx context.Context, items []model.InsertPayload) (int, error)
}

// Source supplies suggestion records for ImportFromFeed.
type Source interface {
	Fetch(ctx context.Context) ([]feed.Record, error)
}

// State is a point-in-time copy of the checklist view.
type State struct {
	Items        []model.GroceryItem
	TotalItems   int
	Search       string
	Loading      bool
	Refreshing   bool
	Importing    bool
	ErrorMessage string
}

// Checklist keeps an in-memory copy of the stored items and reloads it from
// the repository after every mutation. The copy is never written back.
type Checklist struct {
	repo   Repository
	source Source
	logger *slog.Logger

	mu           sync.RWMutex
	items        []model.GroceryItem
	search       string
	loading      bool
	refreshing   bool
	importing    bool
	errorMessage string
}

func NewChecklist(repo Repository, source Source, logger *slog.Logger) *Checklist {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checklist{repo: repo, source: source, logger: logger}
}

// Load replaces the items with the repository's full list. On failure the
// previous items are kept and the error banner is set. showSpinner toggles
// the loading flag; reloads after mutations pass false.
func (c *Checklist) Load(ctx context.Context, showSpinner bool) {
	if showSpinner {
		c.setFlag(&c.loading, true)
		defer c.setFlag(&c.loading, false)
	}

	items, err := c.repo.List(ctx)
	if err != nil {
		c.fail("load items", err, MsgLoadFailed)
		return
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// Refresh reloads the list while the refreshing flag is set.
func (c *Checklist) Refresh(ctx context.Context) {
	c.setFlag(&c.refreshing, true)
	defer c.setFlag(&c.refreshing, false)
	c.Load(ctx, false)
}

// Save inserts a new item, or updates an existing one when v.ID is set.
// Errors are returned to the caller and never touch the error banner.
func (c *Checklist) Save(ctx context.Context, v model.FormValues) error {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return &store.ValidationError{Field: "name", Message: "must not be empty"}
	}

	payload := model.InsertPayload{
		Name:     name,
		Quantity: parseQuantity(v.Quantity),
		Category: strings.TrimSpace(v.Category),
		Bought:   v.Bought,
	}

	if v.ID != 0 {
		n, err := c.repo.Update(ctx, model.UpdatePayload{ID: v.ID, InsertPayload: payload})
		if err != nil {
			return fmt.Errorf("save item: %w", err)
		}
		if n == 0 {
			c.logger.Debug("update matched no rows", "id", v.ID)
		}
	} else {
		if _, err := c.repo.Insert(ctx, payload); err != nil {
			return fmt.Errorf("save item: %w", err)
		}
	}

	c.Load(ctx, false)
	return nil
}

func parseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Toggle flips the bought flag of an item and reloads.
func (c *Checklist) Toggle(ctx context.Context, id int64) {
	if _, err := c.repo.ToggleBought(ctx, id); err != nil {
		c.fail("toggle item", err, MsgToggleFailed, "id", id)
		return
	}
	c.Load(ctx, false)
}

// Remove deletes an item and reloads.
func (c *Checklist) Remove(ctx context.Context, id int64) {
	if _, err := c.repo.Delete(ctx, id); err != nil {
		c.fail("delete item", err, MsgDeleteFailed, "id", id)
		return
	}
	c.Load(ctx, false)
}

// ImportFromFeed fetches suggestions, inserts those whose names are not yet
// on the list and reloads. The importing flag is cleared on every path.
func (c *Checklist) ImportFromFeed(ctx context.Context) {
	c.setFlag(&c.importing, true)
	defer c.setFlag(&c.importing, false)

	if c.source == nil {
		c.fail("import items", &feed.ImportError{Reason: "no feed configured"}, MsgImportFailed)
		return
	}

	records, err := c.source.Fetch(ctx)
	if err != nil {
		c.fail("import items", err, MsgImportFailed)
		return
	}

	inserted, err := c.repo.BulkUpsertByName(ctx, feed.MapRecords(records))
	if err != nil {
		c.fail("import items", err, MsgImportFailed)
		return
	}
	c.logger.Info("imported suggestions", "received", len(records), "inserted", inserted)

	c.Load(ctx, false)
}

func (c *Checklist) SetSearch(search string) {
	c.mu.Lock()
	c.search = search
	c.mu.Unlock()
}

// Items returns the items matching the current search.
func (c *Checklist) Items() []model.GroceryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(Filter(c.items, c.search))
}

func (c *Checklist) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Checklist) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errorMessage
}

func (c *Checklist) ClearError() {
	c.mu.Lock()
	c.errorMessage = ""
	c.mu.Unlock()
}

func (c *Checklist) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Items:        clone(Filter(c.items, c.search)),
		TotalItems:   len(c.items),
		Search:       c.search,
		Loading:      c.loading,
		Refreshing:   c.refreshing,
		Importing:    c.importing,
		ErrorMessage: c.errorMessage,
	}
}

func (c *Checklist) setFlag(flag *bool, v bool) {
	c.mu.Lock()
	*flag = v
	c.mu.Unlock()
}

func (c *Checklist) fail(op string, err error, message string, args ...any) {
	c.logger.Error(op+" failed", append(args, "error", err)...)
	c.mu.Lock()
	c.errorMessage = message
	c.mu.Unlock()
}

func clone(items []model.GroceryItem) []model.GroceryItem {
	out := make([]model.GroceryItem, len(items))
	copy(out, items)
	return out
}
