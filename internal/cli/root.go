// Package cli is the command-line front end of the checklist.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/basket/internal/config"
	"github.com/dukerupert/basket/internal/database"
	"github.com/dukerupert/basket/internal/feed"
	"github.com/dukerupert/basket/internal/grocery"
	"github.com/dukerupert/basket/internal/logging"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/store"
)

type rootOptions struct {
	configPath string
	dbPath     string
}

// NewRootCmd builds the basket command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "basket",
		Short:         "Basket - a personal grocery checklist",
		Long:          `Basket keeps a grocery checklist in a local SQLite file. Add, edit, tick off, remove and search items, or import suggestions from a remote list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to the config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the SQLite database (overrides config)")

	cmd.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newToggleCmd(opts),
		newRemoveCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is one bootstrapped session: schema, seed and a first load.
type app struct {
	db        *sql.DB
	store     *store.GroceryStore
	checklist *grocery.Checklist
}

func openApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	seeded, err := database.SeedIfEmpty(ctx, db, time.Now())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}
	if seeded > 0 {
		logger.Debug("seeded default items", "count", seeded)
	}

	gs := store.NewGroceryStore(db)
	checklist := grocery.NewChecklist(gs, feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout), logger)
	checklist.Load(ctx, true)
	if err := bannerErr(checklist); err != nil {
		db.Close()
		return nil, err
	}

	return &app{db: db, store: gs, checklist: checklist}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// bannerErr turns a pending error banner into a command error.
func bannerErr(c *grocery.Checklist) error {
	if msg := c.ErrorMessage(); msg != "" {
		c.ClearError()
		return errors.New(msg)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func printItems(w io.Writer, items []model.GroceryItem, total int) {
	if total == 0 {
		fmt.Fprintln(w, "Your list is empty.")
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No items match.")
		return
	}
	for _, item := range items {
		mark := " "
		if item.Bought {
			mark = "x"
		}
		cat := ""
		if item.Category != "" {
			cat = fmt.Sprintf(" [%s]", item.Category)
		}
		fmt.Fprintf(w, "%4d  [%s] %s x%d%s\n", item.ID, mark, item.Name, item.Quantity, cat)
	}
	if len(items) != total {
		fmt.Fprintf(w, "\nShowing %d of %d items.\n", len(items), total)
	}
}
