package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/internal/config"
	"github.com/pathlens/pathlens/pkg/cache"
	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
	"github.com/pathlens/pathlens/pkg/pipeline"
	"github.com/pathlens/pathlens/pkg/query"
)

// queryFlags holds the filter, sort, and pagination flags shared by every
// command that builds a view from the command line.
type queryFlags struct {
	category string   // keep only this category
	status   []string // keep only these completion states
	levels   []int    // keep only these progression levels
	search   string   // case-insensitive name/description/skills match
	sortBy   string   // progression, name, hours, or status
	sortDir  string   // asc or desc
	offset   int      // pagination offset
	limit    int      // pagination limit (-1 = all)
}

// register adds the shared view flags to cmd.
func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "filter by category")
	cmd.Flags().StringSliceVar(&f.status, "status", nil, "filter by status (completed, in_progress, available, locked)")
	cmd.Flags().IntSliceVar(&f.levels, "level", nil, "filter by progression level")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "search names, descriptions, and skills")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "sort by: progression, name, hours, status")
	cmd.Flags().StringVar(&f.sortDir, "direction", "", "sort direction: asc (default), desc")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "skip the first N results")
	cmd.Flags().IntVar(&f.limit, "limit", -1, "return at most N results (-1 = all)")
}

// apply copies the flag values onto q, validating enumerated fields.
func (f *queryFlags) apply(q *query.ViewQuery) error {
	if f.category != "" {
		q.Category = f.category
	}
	for _, s := range f.status {
		if !concept.Status(s).Valid() {
			return fmt.Errorf("invalid status: %s (must be completed, in_progress, available, or locked)", s)
		}
	}
	if len(f.status) > 0 {
		q.Status = query.StringList(f.status)
	}
	if len(f.levels) > 0 {
		q.ProgressionLevel = query.IntList(f.levels)
	}
	if f.search != "" {
		q.Search = f.search
	}

	if f.sortBy != "" {
		field := query.SortField(f.sortBy)
		if !field.Valid() {
			return fmt.Errorf("invalid sort field: %s (must be progression, name, hours, or status)", f.sortBy)
		}
		q.SortBy = field
	}
	switch f.sortDir {
	case "", string(query.SortAsc):
		// ascending is the builder default
	case string(query.SortDesc):
		q.SortDirection = query.SortDesc
	default:
		return fmt.Errorf("invalid sort direction: %s (must be 'asc' or 'desc')", f.sortDir)
	}

	q.Offset = f.offset
	q.Limit = f.limit
	return nil
}

// build constructs a fresh query from the flags alone.
func (f *queryFlags) build() (query.ViewQuery, error) {
	q := query.NewEmptyQuery()
	if err := f.apply(&q); err != nil {
		return query.ViewQuery{}, err
	}
	return q, nil
}

// runOpts holds the execution flags shared by commands that run a view.
type runOpts struct {
	dataset string // dataset reference, overrides the config default
	noCache bool   // disable caching entirely
	refresh bool   // bypass cache reads, still write
	asJSON  bool   // emit the raw result as JSON
	output  string // JSON output file (stdout if empty)
	budget  int    // focus traversal visit budget (0 = pipeline default)
}

// register adds the shared execution flags to cmd.
func (r *runOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.dataset, "dataset", "d", "", "dataset file or URL (overrides config)")
	cmd.Flags().BoolVar(&r.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&r.refresh, "refresh", false, "bypass cached data")
	cmd.Flags().BoolVar(&r.asJSON, "json", false, "print the raw result as JSON")
	cmd.Flags().StringVarP(&r.output, "output", "o", "", "write JSON result to file (stdout if empty, implies --json)")
}

// newQueryCmd creates the query command: the general filtered, sorted,
// paginated listing over one dataset.
func newQueryCmd() *cobra.Command {
	var flags queryFlags
	var ro runOpts

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query concepts in a learning-path dataset",
		Long: `Query concepts in a learning-path dataset.

Filters combine with AND semantics; sorting and pagination are applied last.

Examples:
  pathlens query -d roadmap.json --category frontend
  pathlens query -d roadmap.json --status available,in_progress --sort hours
  pathlens query -d roadmap.json -s "testing" --limit 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.build()
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cmd, q, ro)
		},
	}

	flags.register(cmd)
	ro.register(cmd)
	return cmd
}

// runView executes q against the resolved dataset and displays the result.
// This is the shared tail of query, focus, compare, and views run. The
// stages run individually so the loaded snapshot is available for display.
func runView(ctx context.Context, cmd *cobra.Command, q query.ViewQuery, ro runOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ref, err := datasetRef(ro.dataset, cfg)
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{
		Dataset:     ref,
		Query:       q,
		Refresh:     ro.refresh,
		VisitBudget: ro.budget,
		Logger:      logger,
	}
	opts.SetQueryDefaults()

	done := timed(logger)
	snap, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	exec := engine.New(snap, &engine.Config{
		Logger:      logger,
		VisitBudget: opts.EngineBudget(),
	})
	res, hit, err := runner.ExecuteWithCacheInfo(ctx, exec, snap.Fingerprint(), opts)
	if err != nil {
		return err
	}
	done(fmt.Sprintf("Matched %d of %d concepts", res.TotalCount, snap.NodeCount()))

	if ro.asJSON || ro.output != "" {
		return writeResultJSON(res, ro.output)
	}

	showResult(snap, res, hit)
	printShare(cfg, q)
	return nil
}

// showResult prints the node listing, traversal details, and the stats line.
func showResult(src concept.Source, res *engine.Result, cached bool) {
	printNewline()
	printResultNodes(src, res)
	printNewline()
	printStats(len(res.NodeIDs), res.TotalCount, res.Stats.TotalHours, cached)
	if res.IsFocused {
		printDetail("Neighborhood: %d concepts", len(res.FocusPath))
		if res.Truncated {
			printWarning("Traversal stopped at the visit budget; the neighborhood may be incomplete")
		}
	}
}

// printShare prints the share link for the executed view. With no base URL
// configured the bare parameter string is shown instead.
func printShare(cfg config.Config, q query.ViewQuery) {
	enc := query.EncodeQuery(q)
	if enc == "" {
		return
	}
	if cfg.Server.BaseURL != "" {
		printNextStep("Share", query.ShareURL(cfg.Server.BaseURL, q))
		return
	}
	printNextStep("Share params", enc)
}

// writeResultJSON writes the result as indented JSON to path (or stdout).
func writeResultJSON(res *engine.Result, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}

// datasetRef resolves the dataset reference: the flag wins, then the config
// default, then an error telling the user where to set one.
func datasetRef(flag string, cfg config.Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.Dataset != "" {
		return cfg.Dataset, nil
	}
	return "", fmt.Errorf("no dataset given (pass --dataset or set dataset in the config file)")
}

// newRunner builds a pipeline runner backed by the configured cache.
// With noCache the null cache is used regardless of configuration.
func newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), nil
	}
	backend, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(backend, nil, logger), nil
}

// nopCloser lets stdout stand in where an owned file is expected.
// Closing it must not close the real stdout.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, truncating any existing file.
// An empty path selects stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
