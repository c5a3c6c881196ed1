package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
)

// Options configures export rendering.
type Options struct {
	// Detailed includes category, status, and estimated hours in node
	// labels. When false, only the concept name is shown.
	Detailed bool

	// Scale applies to PNG output. A scale of 2.0 produces a 2x resolution
	// image suitable for high-DPI displays. Zero means 1.0.
	Scale float64
}

func (o Options) scaleOrDefault() float64 {
	if o.Scale <= 0 {
		return 1.0
	}
	return o.Scale
}

// ToDOT converts a query result to Graphviz DOT. Only nodes the query
// selected appear; edges are kept when both endpoints survived. The
// resulting DOT string can be rendered with [RenderSVG], [RenderPDF], or
// [RenderPNG].
//
// Node fills follow status so progress is visible at a glance; locked
// concepts are additionally dashed. In a focused result the start node is
// drawn with a heavier outline.
func ToDOT(src concept.Source, res *engine.Result, opts Options) string {
	selected := make(map[string]struct{}, len(res.NodeIDs))
	for _, id := range res.NodeIDs {
		selected[id] = struct{}{}
	}

	focusStart := ""
	if res.IsFocused && res.Query.Traversal != nil {
		focusStart = res.Query.Traversal.StartNodeID
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range res.NodeIDs {
		n, ok := src.NodeByID(id)
		if !ok {
			continue
		}
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, id == focusStart)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range src.Edges() {
		if _, ok := selected[e.From]; !ok {
			continue
		}
		if _, ok := selected[e.To]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n concept.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed {
		return name
	}

	parts := []string{}
	if n.Category != "" {
		parts = append(parts, fmt.Sprintf("category: %s", n.Category))
	}
	if n.Status != "" {
		parts = append(parts, fmt.Sprintf("status: %s", n.Status))
	}
	if n.EstimatedHours > 0 {
		parts = append(parts, fmt.Sprintf("hours: %g", n.EstimatedHours))
	}
	if len(parts) == 0 {
		return name
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n concept.Node, label string, focusStart bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}

	switch n.Status {
	case concept.StatusCompleted:
		attrs = append(attrs, "fillcolor=palegreen")
	case concept.StatusInProgress:
		attrs = append(attrs, "fillcolor=khaki")
	case concept.StatusAvailable:
		attrs = append(attrs, "fillcolor=lightblue")
	case concept.StatusLocked:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}

	if focusStart {
		attrs = append(attrs, "penwidth=2.5", "color=darkorange")
	}
	return attrs
}
