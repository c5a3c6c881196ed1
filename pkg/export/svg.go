package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// RenderSVG renders a DOT graph to SVG in-process.
// The context bounds layout time; dense graphs can take seconds.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("invalid DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render SVG: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([^"]+)"`)
)

// normalizeViewBox rebuilds the outer svg element so the view box starts at
// the origin and the dimensions carry no unit suffix. Graphviz emits
// translated coordinates and point units that break naive embedding.
func normalizeViewBox(svg []byte) []byte {
	tagLoc := svgTagRe.FindIndex(svg)
	if tagLoc == nil {
		return svg
	}
	tag := svg[tagLoc[0]:tagLoc[1]]

	vb := viewBoxRe.FindSubmatch(tag)
	if vb == nil {
		return svg
	}
	dims := strings.Fields(string(vb[1]))
	if len(dims) != 4 {
		return svg
	}
	width, werr := strconv.ParseFloat(dims[2], 64)
	height, herr := strconv.ParseFloat(dims[3], 64)
	if werr != nil || herr != nil || width == 0 || height == 0 {
		return svg
	}

	rebuilt := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		width, height, width, height)

	out := make([]byte, 0, len(svg)-len(tag)+len(rebuilt))
	out = append(out, svg[:tagLoc[0]]...)
	out = append(out, rebuilt...)
	return append(out, svg[tagLoc[1]:]...)
}
