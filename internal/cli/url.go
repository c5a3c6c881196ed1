package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/query"
)

// newURLCmd creates the url command group: encode views as share links and
// decode links back into views.
func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Encode and decode shareable view URLs",
		Long: `Encode and decode shareable view URLs.

A share URL carries the complete view: filters, focus, comparisons, sort.
Decoding is fail-closed; a malformed or incompatible URL yields the empty
view instead of an error, matching what a server would execute for it.`,
	}

	cmd.AddCommand(newURLEncodeCmd())
	cmd.AddCommand(newURLDecodeCmd())
	cmd.AddCommand(newURLDiffCmd())
	return cmd
}

// newURLEncodeCmd creates the "url encode" subcommand.
func newURLEncodeCmd() *cobra.Command {
	var (
		flags   queryFlags
		focus   string
		compare []string
		gap     bool
		base    string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a share URL from view flags",
		Long: `Build a share URL from view flags.

With --base the full URL is printed; otherwise just the parameter string.
Equal views always encode to byte-identical strings, so the output is safe
to use as a deduplication key.

Examples:
  pathlens url encode --category frontend --status available
  pathlens url encode --focus react --base https://paths.example.com
  pathlens url encode --compare react,node --sort hours`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := buildQuery(flags, focus, compare, gap)
			if err != nil {
				return err
			}
			if base != "" {
				fmt.Println(query.ShareURL(base, q))
				return nil
			}
			fmt.Println(query.EncodeQuery(q))
			return nil
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "focus on this concept's neighborhood")
	cmd.Flags().StringSliceVar(&compare, "compare", nil, "compare these paths")
	cmd.Flags().BoolVar(&gap, "gap", false, "skill-gap view: everything not yet completed")
	cmd.Flags().StringVar(&base, "base", "", "base URL to prepend")
	flags.register(cmd)
	return cmd
}

// newURLDecodeCmd creates the "url decode" subcommand.
func newURLDecodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <url-or-query-string>",
		Short: "Decode a share URL back into its view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := decodeShared(args[0])
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(q)
			}
			if !q.HasActiveFilters() {
				printInfo("Empty view (no filters); malformed input decodes to this as well")
				return nil
			}
			printQuery(q)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decoded view as JSON")
	return cmd
}

// newURLDiffCmd creates the "url diff" subcommand.
func newURLDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <url-a> <url-b>",
		Short: "Show which view fields differ between two share URLs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := decodeShared(args[0]), decodeShared(args[1])
			if query.Equal(a, b) {
				printSuccess("Views are equivalent")
				return nil
			}

			changes := query.Diff(a, b)
			fields := make([]string, 0, len(changes))
			for f := range changes {
				fields = append(fields, f)
			}
			sort.Strings(fields)

			printInfo("%d field(s) differ", len(changes))
			for _, f := range fields {
				ch := changes[f]
				printKeyValue(f, fmt.Sprintf("%s %s %s",
					formatFieldValue(ch.From), iconArrow, formatFieldValue(ch.To)))
			}
			return nil
		},
	}
}

// buildQuery assembles a view from the encode flags: mode builders first,
// then the shared filter flags on top.
func buildQuery(flags queryFlags, focus string, compare []string, gap bool) (query.ViewQuery, error) {
	q := query.NewEmptyQuery()
	if gap {
		q = query.NewSkillGapQuery("")
	}
	if focus != "" {
		q = query.Compose(q, query.NewFocusQuery(focus))
	}
	if len(compare) > 0 {
		q = query.Compose(q, query.NewComparisonQuery(compare...))
	}
	if err := flags.apply(&q); err != nil {
		return query.ViewQuery{}, err
	}
	return q, nil
}

// decodeShared decodes either a full URL or a bare parameter string.
func decodeShared(raw string) query.ViewQuery {
	if strings.Contains(raw, "://") {
		return query.DecodeURL(raw)
	}
	return query.DecodeQuery(strings.TrimPrefix(raw, "?"))
}

// printQuery lists the active fields of a view, one key-value line each.
func printQuery(q query.ViewQuery) {
	if q.Category != "" {
		printKeyValue("category", q.Category)
	}
	if len(q.Status) > 0 {
		printKeyValue("status", strings.Join(q.Status, ", "))
	}
	if len(q.ProgressionLevel) > 0 {
		levels := make([]string, len(q.ProgressionLevel))
		for i, l := range q.ProgressionLevel {
			levels[i] = fmt.Sprintf("%d", l)
		}
		printKeyValue("levels", strings.Join(levels, ", "))
	}
	if q.Search != "" {
		printKeyValue("search", q.Search)
	}
	if q.Filters != nil {
		printKeyValue("filters", fmt.Sprintf("%d clause(s)", len(q.Filters.Clauses)))
	}
	if q.FocusMode {
		printKeyValue("mode", "focus")
	}
	if q.Traversal != nil {
		t := q.Traversal
		depth := "unbounded"
		if t.MaxDepth != query.Unbounded {
			depth = fmt.Sprintf("%d", t.MaxDepth)
		}
		printKeyValue("traversal", fmt.Sprintf("from %s, %s, depth %s", t.StartNodeID, t.Direction, depth))
	}
	if q.SkillGapMode {
		printKeyValue("mode", "skill gap")
	}
	if len(q.ComparePaths) > 0 {
		printKeyValue("compare", strings.Join(q.ComparePaths, ", "))
	}
	if q.Join != nil {
		printKeyValue("join", string(q.Join.Type))
	}
	if q.SortBy != "" {
		dir := string(q.SortDirection)
		if dir == "" {
			dir = string(query.SortAsc)
		}
		printKeyValue("sort", string(q.SortBy)+" "+dir)
	}
}

// formatFieldValue renders one side of a diff compactly.
func formatFieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "—"
	case string:
		if val == "" {
			return "—"
		}
		return val
	case bool:
		if val {
			return "on"
		}
		return "off"
	case query.StringList:
		if len(val) == 0 {
			return "—"
		}
		return strings.Join(val, ",")
	case []string:
		if len(val) == 0 {
			return "—"
		}
		return strings.Join(val, ",")
	case query.IntList:
		if len(val) == 0 {
			return "—"
		}
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}
