package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorTeal  = lipgloss.Color("44")  // primary accent
	colorGreen = lipgloss.Color("42")  // success, completed
	colorAmber = lipgloss.Color("214") // warnings, in progress
	colorRed   = lipgloss.Color("204") // errors
	colorBlue  = lipgloss.Color("39")  // links, commands
	colorWhite = lipgloss.Color("252") // values
	colorGray  = lipgloss.Color("246") // secondary text
	colorDim   = lipgloss.Color("241") // muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle is the bold heading style.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)

	// StyleLink underlines URLs and share strings.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim de-emphasizes supporting text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue highlights data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning colors warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleSpinner  = lipgloss.NewStyle().Foreground(colorTeal)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// Status colors mirror the progression semantics: green for done, amber for
// in flight, teal for reachable, dim for locked.
var statusStyles = map[concept.Status]lipgloss.Style{
	concept.StatusCompleted:  lipgloss.NewStyle().Foreground(colorGreen),
	concept.StatusInProgress: lipgloss.NewStyle().Foreground(colorAmber),
	concept.StatusAvailable:  lipgloss.NewStyle().Foreground(colorTeal),
	concept.StatusLocked:     lipgloss.NewStyle().Foreground(colorDim),
}

// statusStyle returns the display style for a node status.
// Unknown statuses render dim rather than breaking the layout.
func statusStyle(s concept.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return StyleDim
}

// =============================================================================
// Status Markers
// =============================================================================

// iconArrow separates before/after pairs and prefixes written paths.
const iconArrow = "→"

// A marker is a one-character status glyph with its tint.
type marker struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// line prints msg behind the marker's tinted glyph.
func (m marker) line(msg string) {
	fmt.Println(m.style.Render(m.icon) + " " + msg)
}

// =============================================================================
// Status Output
// =============================================================================

// printSuccess reports a completed action.
func printSuccess(format string, args ...any) {
	markSuccess.line(fmt.Sprintf(format, args...))
}

// printError reports a failure without exiting.
func printError(format string, args ...any) {
	markError.line(fmt.Sprintf(format, args...))
}

// printWarning reports a non-fatal problem. The message text is tinted
// along with the glyph.
func printWarning(format string, args ...any) {
	markWarning.line(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo reports neutral progress.
func printInfo(format string, args ...any) {
	markInfo.line(fmt.Sprintf(format, args...))
}

// printDetail adds an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a path that was just written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints one aligned label/value row.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printLink prints an aligned row whose value renders as a link.
func printLink(key, url string) {
	fmt.Println(styleKey.Render(key) + " " + StyleLink.Render(url))
}

// =============================================================================
// Result Display
// =============================================================================

// printResultNodes prints the page of nodes a query returned, one line per
// concept. Ids that no longer resolve against the source are skipped; that
// only happens when a cached result outlives a dataset edit.
func printResultNodes(src concept.Source, res *engine.Result) {
	for _, id := range res.NodeIDs {
		n, ok := src.NodeByID(id)
		if !ok {
			continue
		}
		printNode(n)
	}
}

// printNode prints a single concept line: status, name, and the dim
// attribute column (category, level, hours, id).
func printNode(n concept.Node) {
	badge := statusStyle(n.Status).Render(fmt.Sprintf("%-11s", n.Status))
	name := StyleValue.Render(fmt.Sprintf("%-28s", truncate(n.Name, 28)))
	attrs := StyleDim.Render(fmt.Sprintf("%-12s L%-2d %6s  %s",
		truncate(n.Category, 12), n.ProgressionLevel, formatHours(n.EstimatedHours), n.ID))
	fmt.Println("  " + badge + " " + name + " " + attrs)
}

// printStats prints result statistics on a single line.
func printStats(shown, matched int, hours float64, cached bool) {
	parts := []string{
		fmt.Sprintf("%d of %d concepts", shown, matched),
	}
	if hours > 0 {
		parts = append(parts, formatHours(hours)+" total")
	}

	origin := styleComputed.Render("computed")
	if cached {
		origin = styleCached.Render("cached")
	}
	parts = append(parts, origin)

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// formatHours renders an hour count compactly: whole hours without a
// fraction, fractional hours with one decimal.
func formatHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.1fh", h)
}

// truncate shortens s to max runes, replacing the tail with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
