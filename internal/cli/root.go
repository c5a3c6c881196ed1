package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/internal/config"
	"github.com/pathlens/pathlens/pkg/buildinfo"
)

// appName is used for user-facing paths (cache directory, config lookup).
const appName = "pathlens"

// Execute runs the pathlens CLI and returns an error if any command fails.
//
// The context is threaded through to every command, so cancelling it (for
// example from a signal handler) cancels in-flight work.
//
// A logger is attached to the context before any command runs; commands
// retrieve it with loggerFromContext. It logs to stderr at info level, or
// debug when --verbose is set.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the root command with all subcommands attached.
func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Pathlens turns learning-path graphs into queryable, shareable views",
		Long:         `Pathlens is a CLI tool for querying learning-path concept graphs: filter and sort concepts, isolate the neighborhood of a topic, compare paths, and share any view as a URL that reconstructs it exactly.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("config", "", "config file (default ./pathlens.toml, then ~/.config/pathlens/config.toml)")

	root.AddCommand(newQueryCmd())
	root.AddCommand(newFocusCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newURLCmd())
	root.AddCommand(newViewsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExploreCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// loadConfig reads the configuration honoring the global --config flag.
// Commands that need no configuration never call this, so a broken config
// file does not break unrelated commands like completion.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(path)
}
