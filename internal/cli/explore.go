package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pathlens/pathlens/pkg/concept"
	"github.com/pathlens/pathlens/pkg/engine"
	"github.com/pathlens/pathlens/pkg/pipeline"
	"github.com/pathlens/pathlens/pkg/query"
)

// newExploreCmd creates the explore command: an interactive concept browser.
func newExploreCmd() *cobra.Command {
	var (
		flags   queryFlags
		dataset string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse a dataset interactively",
		Long: `Browse a dataset interactively.

The browser lists the concepts the view selects. Press enter on a concept
to jump into its neighborhood, esc to come back, q to quit. Filter flags
narrow the initial listing the same way they narrow 'query'.

Examples:
  pathlens explore -d roadmap.json
  pathlens explore -d roadmap.json --category backend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.build()
			if err != nil {
				return err
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

			snap, err := runner.Load(ctx, pipeline.Options{
				Dataset: ref,
				Logger:  loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			exec := engine.New(snap, &engine.Config{
				Logger:      loggerFromContext(ctx),
				VisitBudget: pipeline.DefaultVisitBudget,
			})

			p := tea.NewProgram(newExploreModel(snap, exec, q))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&dataset, "dataset", "d", "", "dataset file or URL (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)
	return cmd
}

// =============================================================================
// exploreModel - Interactive concept browsing
// =============================================================================

// exploreModel is the bubbletea model for the concept browser. It holds the
// browse query as the home view and swaps in a focus query when a concept
// is selected.
type exploreModel struct {
	src    concept.Source
	exec   *engine.Executor
	browse query.ViewQuery

	ids     []string
	total   int
	focused string // id under focus, empty in browse mode

	cursor int
	offset int
	height int
}

// newExploreModel builds the model and runs the initial browse query.
func newExploreModel(src concept.Source, exec *engine.Executor, browse query.ViewQuery) exploreModel {
	m := exploreModel{
		src:    src,
		exec:   exec,
		browse: browse,
		height: 15,
	}
	m.runBrowse()
	return m
}

// runBrowse re-executes the home query and resets the viewport.
func (m *exploreModel) runBrowse() {
	res := m.exec.Execute(m.browse)
	m.ids = res.NodeIDs
	m.total = res.TotalCount
	m.focused = ""
	m.cursor = 0
	m.offset = 0
}

// runFocus executes a focus query rooted at id on top of the home view's
// filters and swaps the listing to the neighborhood.
func (m *exploreModel) runFocus(id string) {
	res := m.exec.Execute(query.Compose(m.browse, query.NewFocusQuery(id)))
	m.ids = res.NodeIDs
	m.total = res.TotalCount
	m.focused = id
	m.cursor = 0
	m.offset = 0
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.focused != "" {
				m.runBrowse()
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.ids)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.cursor < len(m.ids) {
				m.runFocus(m.ids[m.cursor])
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := "Explore"
	help := "↑/↓ navigate  ⏎ focus  q quit"
	if m.focused != "" {
		name := m.focused
		if n, ok := m.src.NodeByID(m.focused); ok {
			name = n.Name
		}
		title = "Focus: " + name
		help = "↑/↓ navigate  ⏎ refocus  esc back  q quit"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(help))
	b.WriteString("\n\n")

	if len(m.ids) == 0 {
		b.WriteString(StyleDim.Render("  no concepts match"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.ids) {
		end = len(m.ids)
	}

	for i := m.offset; i < end; i++ {
		n, ok := m.src.NodeByID(m.ids[i])
		if !ok {
			continue
		}
		b.WriteString(m.conceptLine(n, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.ids))))
	return b.String()
}

// conceptLine renders one listing row.
func (m exploreModel) conceptLine(n concept.Node, current bool) string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	badge := statusStyle(n.Status).Render(fmt.Sprintf("%-11s", n.Status))
	attrs := fmt.Sprintf("%-12s L%-2d %6s",
		truncate(n.Category, 12), n.ProgressionLevel, formatHours(n.EstimatedHours))

	name := fmt.Sprintf("%-28s", truncate(n.Name, 28))
	if current {
		return cursor + badge + " " + lipgloss.NewStyle().Bold(true).Foreground(colorTeal).Render(name) + " " + StyleDim.Render(attrs)
	}
	return cursor + badge + " " + StyleValue.Render(name) + " " + StyleDim.Render(attrs)
}
