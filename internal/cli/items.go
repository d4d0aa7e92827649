package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/basket/internal/model"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.checklist.SetSearch(search)
			st := a.checklist.State()
			printItems(cmd.OutOrStdout(), st.Items, st.TotalItems)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show items whose name or category contains this text")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var values model.FormValues

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			values.Name = strings.Join(args, " ")
			if err := a.checklist.Save(cmd.Context(), values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s.\n", strings.TrimSpace(values.Name))
			return bannerErr(a.checklist)
		},
	}
	cmd.Flags().StringVarP(&values.Quantity, "qty", "q", "1", "Quantity")
	cmd.Flags().StringVarP(&values.Category, "category", "c", "", "Category")
	cmd.Flags().BoolVar(&values.Bought, "bought", false, "Mark as already bought")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		quantity string
		category string
		bought   bool
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an item's name, quantity, category or bought state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := a.store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("item %d not found", id)
			}

			values := model.FormValues{
				ID:       id,
				Name:     current.Name,
				Quantity: strconv.Itoa(current.Quantity),
				Category: current.Category,
				Bought:   current.Bought,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				values.Name = name
			}
			if flags.Changed("qty") {
				values.Quantity = quantity
			}
			if flags.Changed("category") {
				values.Category = category
			}
			if flags.Changed("bought") {
				values.Bought = bought
			}

			if err := a.checklist.Save(cmd.Context(), values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d.\n", id)
			return bannerErr(a.checklist)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&quantity, "qty", "q", "", "New quantity")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category (empty clears it)")
	cmd.Flags().BoolVar(&bought, "bought", false, "Bought state")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip an item between bought and not bought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.checklist.Toggle(cmd.Context(), id)
			if err := bannerErr(a.checklist); err != nil {
				return err
			}
			st := a.checklist.State()
			printItems(cmd.OutOrStdout(), st.Items, st.TotalItems)
			return nil
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.checklist.Remove(cmd.Context(), id)
			if err := bannerErr(a.checklist); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d items on the list.\n", a.checklist.TotalItems())
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import suggested items from the configured feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			before := a.checklist.TotalItems()
			a.checklist.ImportFromFeed(cmd.Context())
			if err := bannerErr(a.checklist); err != nil {
				return err
			}
			after := a.checklist.TotalItems()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new items, %d on the list.\n", after-before, after)
			return nil
		},
	}
}
