package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/query"
)

// newFocusCmd creates the focus command: isolate the neighborhood of one
// concept via breadth-first traversal.
func newFocusCmd() *cobra.Command {
	var (
		flags     queryFlags
		ro        runOpts
		depth     int
		direction string
		noStart   bool
	)

	cmd := &cobra.Command{
		Use:   "focus <concept-id>",
		Short: "Isolate the neighborhood of one concept",
		Long: `Isolate the neighborhood of one concept.

Focus mode walks the graph breadth-first from the given concept and keeps
only the concepts it reaches. Filters still apply: the displayed set is the
intersection of the neighborhood and the filtered view, while the traversal
itself ignores filters so the neighborhood is always structurally complete.

Examples:
  pathlens focus react -d roadmap.json
  pathlens focus react -d roadmap.json --edges up --depth 2
  pathlens focus react -d roadmap.json --category frontend --exclude-start`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := query.Direction(direction)
			if !dir.Valid() {
				return fmt.Errorf("invalid direction: %s (must be up, down, or both)", direction)
			}

			q := query.NewFocusQuery(args[0])
			q.Traversal.Direction = dir
			q.Traversal.MaxDepth = depth
			q.Traversal.IncludeStart = !noStart
			if err := flags.apply(&q); err != nil {
				return err
			}
			return runView(cmd.Context(), cmd, q, ro)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", query.Unbounded, "maximum traversal depth (-1 = unbounded)")
	cmd.Flags().StringVar(&direction, "edges", string(query.DirectionBoth), "edges to walk: up (prerequisites), down (dependents), both")
	cmd.Flags().BoolVar(&noStart, "exclude-start", false, "drop the start concept from the result")
	cmd.Flags().IntVar(&ro.budget, "budget", 0, "traversal visit budget (0 = default, -1 = unbounded)")
	flags.register(cmd)
	ro.register(cmd)
	return cmd
}
