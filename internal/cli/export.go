package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/export"
	"github.com/pathlens/pathlens/pkg/pipeline"
	"github.com/pathlens/pathlens/pkg/query"
)

// newExportCmd creates the export command: render the subgraph a view
// selects as DOT, SVG, PDF, or PNG.
func newExportCmd() *cobra.Command {
	var (
		flags      queryFlags
		focus      string
		dataset    string
		output     string
		formatsStr string
		detailed   bool
		scale      float64
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a view as DOT, SVG, PDF, or PNG",
		Long: `Export a view as DOT, SVG, PDF, or PNG.

The exported graph contains exactly the concepts the view selects, with
their edges, tinted by status. In focus mode the start concept is
highlighted. PDF and PNG need rsvg-convert on PATH; DOT and SVG render
in-process.

With one format, --output names the file directly. With several, it is the
base path and each format appends its extension.

Examples:
  pathlens export -d roadmap.json --category frontend -o frontend.svg
  pathlens export -d roadmap.json --focus react -f svg,png -o react
  pathlens export -d roadmap.json -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseExportFormats(formatsStr)
			if err != nil {
				return err
			}

			q, err := flags.build()
			if err != nil {
				return err
			}
			if focus != "" {
				q = query.Compose(q, query.NewFocusQuery(focus))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ref, err := datasetRef(dataset, cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Dataset:  ref,
				Query:    q,
				Refresh:  refresh,
				Formats:  formats,
				Detailed: detailed,
				Scale:    scale,
				Logger:   loggerFromContext(ctx),
			}

			spinner := newSpinnerWithContext(ctx, "Rendering view...")
			spinner.Start()
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				spinner.StopWithError("Export failed")
				return err
			}
			spinner.Stop()

			if err := writeArtifacts(result.Artifacts, formats, exportBase(output, ref), output); err != nil {
				return err
			}
			printStats(len(result.QueryResult.NodeIDs), result.QueryResult.TotalCount,
				result.QueryResult.Stats.TotalHours, result.CacheInfo.ExportHit)
			return nil
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "focus on this concept's neighborhood")
	cmd.Flags().StringVarP(&dataset, "dataset", "d", "", "dataset file or URL (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include hours and skills on each node")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached data")
	flags.register(cmd)
	return cmd
}

// parseExportFormats parses the --format flag. Empty means SVG.
func parseExportFormats(s string) ([]export.Format, error) {
	if s == "" {
		return []export.Format{export.FormatSVG}, nil
	}
	var formats []export.Format
	for _, part := range strings.Split(s, ",") {
		formats = append(formats, export.Format(strings.TrimSpace(part)))
	}
	if err := pipeline.ValidateFormats(formats); err != nil {
		return nil, err
	}
	return formats, nil
}

// exportBase derives the base output path. An empty output falls back to
// the dataset's file name; an output carrying a known format extension has
// it stripped so multi-format runs do not produce "view.svg.png".
func exportBase(output, dataset string) string {
	if output == "" {
		base := filepath.Base(dataset)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if base == "" || base == "." || base == string(filepath.Separator) {
			base = "view"
		}
		return base
	}
	ext := filepath.Ext(output)
	if export.Format(strings.TrimPrefix(ext, ".")).Valid() {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each rendered format to disk. With a single format
// and an explicit output path the artifact goes there verbatim; otherwise
// every format gets base.<format>.
func writeArtifacts(artifacts map[export.Format][]byte, formats []export.Format, base, output string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return fmt.Errorf("no %s artifact was rendered", format)
		}

		path := base + "." + string(format)
		if output != "" && len(formats) == 1 {
			path = output
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
