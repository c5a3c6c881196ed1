// Package export renders query results as shareable artifacts.
//
// The result subgraph is converted to Graphviz DOT and optionally rendered
// to SVG in-process. PDF and PNG conversion shell out to rsvg-convert.
//
// # Usage
//
// Render the nodes a query selected:
//
//	res := exec.Execute(q)
//	dot := export.ToDOT(snapshot, res, export.Options{})
//	svg, err := export.RenderSVG(ctx, dot)
package export

import (
	"context"
	"fmt"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
)

// Format identifies an export output format.
type Format string

// Supported export formats.
const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	switch f {
	case FormatDOT, FormatSVG, FormatPDF, FormatPNG:
		return true
	}
	return false
}

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatDOT, FormatSVG, FormatPDF, FormatPNG}
}

// Render produces the artifact for a result in the given format.
func Render(ctx context.Context, src concept.Source, res *engine.Result, format Format, opts Options) ([]byte, error) {
	dot := ToDOT(src, res, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPDF:
		return RenderPDF(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot, opts.scaleOrDefault())
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
