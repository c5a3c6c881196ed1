package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/query"
)

// newCompareCmd creates the compare command: join the one-hop neighborhoods
// of several paths with a set operation.
func newCompareCmd() *cobra.Command {
	var (
		flags queryFlags
		ro    runOpts
		join  string
	)

	cmd := &cobra.Command{
		Use:   "compare <concept-id> <concept-id> [concept-id...]",
		Short: "Compare learning paths with set algebra",
		Long: `Compare learning paths with set algebra.

Each argument names a path anchor; its one-hop neighborhood (the concept,
its prerequisites, and its dependents) forms one input set. The join
operation combines the sets: union keeps concepts in any path,
intersection keeps the shared core, difference starts from the first path
and removes the others in order.

Examples:
  pathlens compare react node -d roadmap.json
  pathlens compare react node --join intersection -d roadmap.json
  pathlens compare react node sql --join difference --sort hours -d roadmap.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jt := query.JoinType(join)
			if !jt.Valid() {
				return fmt.Errorf("invalid join: %s (must be union, intersection, or difference)", join)
			}

			q := query.NewComparisonQuery(args...)
			q.Join.Type = jt
			if err := flags.apply(&q); err != nil {
				return err
			}
			return runView(cmd.Context(), cmd, q, ro)
		},
	}

	cmd.Flags().StringVar(&join, "join", string(query.JoinUnion), "set operation: union (default), intersection, difference")
	flags.register(cmd)
	ro.register(cmd)
	return cmd
}
