package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/internal/api"
	"github.com/pathlens/pathlens/internal/config"
	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve command: run the HTTP API over one dataset.
func newServeCmd() *cobra.Command {
	var (
		listen    string
		dataset   string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

The dataset is loaded once at startup and served immutably; restart the
server to pick up dataset changes. Share URLs produced by the CLI execute
identically against /api/v1/query.

Examples:
  pathlens serve -d roadmap.json
  pathlens serve -d https://example.com/roadmap.json --listen :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if dataset != "" {
				cfg.Dataset = dataset
			}
			if noMetrics {
				cfg.Server.Metrics = false
			}
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&dataset, "dataset", "d", "", "dataset file or URL (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

// runServe loads the dataset, assembles the server, and blocks until the
// context is cancelled or the listener fails.
func runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	done := timed(logger)
	snap, err := runner.Load(ctx, pipeline.Options{
		Dataset: cfg.Dataset,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	done(fmt.Sprintf("Loaded %d concepts, %d edges", snap.NodeCount(), snap.EdgeCount()))

	if cycles := concept.CycleEdges(snap); len(cycles) > 0 {
		logger.Warn("dataset has prerequisite cycles; concepts on them can never unlock",
			"edges", len(cycles), "first", fmt.Sprintf("%s -> %s", cycles[0][0], cycles[0][1]))
	}

	views, err := cfg.OpenViewStore(ctx)
	if err != nil {
		return fmt.Errorf("open view store: %w", err)
	}
	defer views.Close()

	srv, err := api.New(api.Options{
		Snapshot:    snap,
		Views:       views,
		Cache:       runner.Cache,
		Listen:      cfg.Server.Listen,
		BaseURL:     cfg.Server.BaseURL,
		Metrics:     cfg.Server.Metrics,
		VisitBudget: cfg.Server.VisitBudget,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
