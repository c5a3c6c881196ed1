package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/query"
	"github.com/pathlens/pathlens/pkg/viewstore"
)

// newViewsCmd creates the views command group for managing saved views.
func newViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved views",
		Long: `Manage saved views.

A saved view is a named query: filters, focus, comparisons, and sort,
stored in the configured backend (file by default). Saved views are also
served by the HTTP API, so the CLI and a running server share one set.`,
	}

	cmd.AddCommand(newViewsListCmd())
	cmd.AddCommand(newViewsSaveCmd())
	cmd.AddCommand(newViewsShowCmd())
	cmd.AddCommand(newViewsRunCmd())
	cmd.AddCommand(newViewsDeleteCmd())
	return cmd
}

// newViewsListCmd creates the "views list" subcommand.
func newViewsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openViews(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			views, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list views: %w", err)
			}
			if len(views) == 0 {
				printInfo("No saved views yet")
				printNextStep("Save one", "pathlens views save <name> --category frontend")
				return nil
			}

			for _, v := range views {
				fmt.Println("  " + StyleValue.Render(fmt.Sprintf("%-24s", truncate(v.Name, 24))) +
					" " + StyleDim.Render(v.ID))
				if enc := query.EncodeQuery(v.Query); enc != "" {
					printDetail("%s", enc)
				}
			}
			printNewline()
			printDetail("%d view(s)", len(views))
			return nil
		},
	}
}

// newViewsSaveCmd creates the "views save" subcommand.
func newViewsSaveCmd() *cobra.Command {
	var (
		flags       queryFlags
		focus       string
		compare     []string
		gap         bool
		fromURL     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the view described by flags or a share URL",
		Long: `Save the view described by flags or a share URL.

The view is built exactly like 'url encode' builds one; alternatively
--from-url imports an existing share link.

Examples:
  pathlens views save "Frontend backlog" --category frontend --status available
  pathlens views save "React neighborhood" --focus react
  pathlens views save "Imported" --from-url "https://paths.example.com/?cat=backend"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q query.ViewQuery
			var err error
			if fromURL != "" {
				q = decodeShared(fromURL)
			} else {
				q, err = buildQuery(flags, focus, compare, gap)
				if err != nil {
					return err
				}
			}

			view := viewstore.New(args[0], description, q)
			if err := view.Validate(); err != nil {
				return err
			}

			store, err := openViews(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), view); err != nil {
				return fmt.Errorf("save view: %w", err)
			}
			printSuccess("Saved view %q", view.Name)
			printDetail("id: %s", view.ID)
			printNextStep("Run it", "pathlens views run "+view.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "focus on this concept's neighborhood")
	cmd.Flags().StringSliceVar(&compare, "compare", nil, "compare these paths")
	cmd.Flags().BoolVar(&gap, "gap", false, "skill-gap view: everything not yet completed")
	cmd.Flags().StringVar(&fromURL, "from-url", "", "import the view from a share URL")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	flags.register(cmd)
	return cmd
}

// newViewsShowCmd creates the "views show" subcommand.
func newViewsShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openViews(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			view, err := getView(cmd, store, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			printKeyValue("name", view.Name)
			if view.Description != "" {
				printKeyValue("description", view.Description)
			}
			printKeyValue("id", view.ID)
			printKeyValue("updated", view.UpdatedAt.Local().Format("2006-01-02 15:04"))
			printLink("params", query.EncodeQuery(view.Query))
			printNewline()
			printQuery(view.Query)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	return cmd
}

// newViewsRunCmd creates the "views run" subcommand.
func newViewsRunCmd() *cobra.Command {
	var ro runOpts

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Execute a saved view against a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openViews(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			view, err := getView(cmd, store, args[0])
			if err != nil {
				return err
			}
			printInfo("Running view %q", view.Name)
			return runView(cmd.Context(), cmd, view.Query, ro)
		},
	}

	ro.register(cmd)
	return cmd
}

// newViewsDeleteCmd creates the "views delete" subcommand.
func newViewsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openViews(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, viewstore.ErrNotFound) {
					return fmt.Errorf("no view with id %s", args[0])
				}
				return fmt.Errorf("delete view: %w", err)
			}
			printSuccess("Deleted view %s", args[0])
			return nil
		},
	}
}

// openViews opens the configured saved-view store.
func openViews(cmd *cobra.Command) (viewstore.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenViewStore(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("open view store: %w", err)
	}
	return store, nil
}

// getView fetches a view, translating the store's not-found error into a
// user-facing message.
func getView(cmd *cobra.Command, store viewstore.Store, id string) (*viewstore.SavedView, error) {
	view, err := store.Get(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, viewstore.ErrNotFound) {
			return nil, fmt.Errorf("no view with id %s (try 'pathlens views list')", id)
		}
		return nil, fmt.Errorf("load view: %w", err)
	}
	return view, nil
}
