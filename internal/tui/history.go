// Package tui provides the interactive Bubble Tea browser for run history.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/model"
	"github.com/theirongolddev/sessmeter/internal/report"
	"github.com/theirongolddev/sessmeter/internal/store"
	"github.com/theirongolddev/sessmeter/internal/tui/theme"
)

// RunsLoadedMsg is sent when the history query finishes.
type RunsLoadedMsg struct {
	Runs []model.Run
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	historyPath string
	filter      store.RunFilter

	runs    []model.Run
	loaded  bool
	loadErr error

	table      table.Model
	spinner    spinner.Model
	showDetail bool

	width  int
	height int
}

const (
	minTableHeight = 5
	chromeHeight   = 8 // title, help line and margins
	detailHeight   = 12
)

var columns = []table.Column{
	{Title: "When", Width: 16},
	{Title: "Project", Width: 10},
	{Title: "Phase", Width: 5},
	{Title: "Session", Width: 14},
	{Title: "Total", Width: 12},
	{Title: "Tools", Width: 6},
	{Title: "Turns", Width: 6},
}

// NewApp creates the history browser.
func NewApp(historyPath string, filter store.RunFilter) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	t.SetStyles(tableStyles())

	return App{
		historyPath: historyPath,
		filter:      filter,
		table:       t,
		spinner:     sp,
	}
}

func tableStyles() table.Styles {
	th := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(th.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(th.Accent)
	s.Cell = s.Cell.Foreground(th.TextPrimary)
	s.Selected = s.Selected.
		Foreground(th.TextPrimary).
		Background(th.AccentDim).
		Bold(true)
	return s
}

// Init starts loading the history.
func (a App) Init() tea.Cmd {
	return tea.Batch(loadRunsCmd(a.historyPath, a.filter), a.spinner.Tick)
}

// loadRunsCmd queries the history database off the UI goroutine.
func loadRunsCmd(path string, filter store.RunFilter) tea.Cmd {
	return func() tea.Msg {
		h, err := store.Open(path)
		if err != nil {
			return RunsLoadedMsg{Err: err}
		}
		defer func() { _ = h.Close() }()

		runs, err := h.ListRuns(filter)
		if err != nil {
			return RunsLoadedMsg{Err: err}
		}
		return RunsLoadedMsg{Runs: runs}
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case RunsLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.runs = msg.Runs
		a.table.SetRows(runRows(a.runs))
		a.table.SetCursor(0)
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "enter", "d":
			a.showDetail = !a.showDetail
			a.resize()
			return a, nil
		case "r":
			a.loaded = false
			return a, tea.Batch(loadRunsCmd(a.historyPath, a.filter), a.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) resize() {
	h := a.height - chromeHeight
	if a.showDetail {
		h -= detailHeight
	}
	a.table.SetHeight(max(h, minTableHeight))
}

func runRows(runs []model.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		phase := "-"
		if r.Phase > 0 {
			phase = strconv.Itoa(r.Phase)
		}
		project := r.Project
		if project == "" {
			project = "-"
		}
		rows[i] = table.Row{
			r.AnalyzedAt.Local().Format("Jan 02 15:04"),
			project,
			phase,
			truncate(r.SessionID, 14),
			cli.FormatNumber(r.Metrics.GrandTotal()),
			strconv.Itoa(r.Metrics.ToolCalls),
			strconv.Itoa(r.Metrics.UserMessages),
		}
	}
	return rows
}

// Selected returns the run under the cursor.
func (a App) Selected() (model.Run, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.runs) {
		return model.Run{}, false
	}
	return a.runs[i], true
}

// View renders the browser.
func (a App) View() string {
	th := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(th.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(th.Red)

	var b strings.Builder
	b.WriteString("\n")
	title := "  sessmeter history"
	if a.filter.Project != "" {
		title += "  " + mutedStyle.Render("project="+a.filter.Project)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case !a.loaded:
		b.WriteString("  " + a.spinner.View() + mutedStyle.Render(" Loading runs..."))
		b.WriteString("\n")
	case a.loadErr != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  Could not read history: %s", a.loadErr)))
		b.WriteString("\n")
	case len(a.runs) == 0:
		b.WriteString(mutedStyle.Render("  No runs recorded yet. Analyse a session first."))
		b.WriteString("\n")
	default:
		b.WriteString(a.table.View())
		b.WriteString("\n")
		if a.showDetail {
			if r, ok := a.Selected(); ok {
				b.WriteString(renderDetail(r))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  j/k move  enter details  r reload  q quit"))
	return b.String()
}

func renderDetail(r model.Run) string {
	th := theme.Active
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderAccent).
		Padding(0, 1).
		MarginLeft(2)
	label := lipgloss.NewStyle().Foreground(th.TextMuted)
	value := lipgloss.NewStyle().Foreground(th.TextPrimary)

	m := r.Metrics
	line := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-20s", k)) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("File", r.FilePath))
	if r.Phase > 0 {
		b.WriteString(line("Section", report.PhaseHeading(r.Phase)))
	}
	b.WriteString(line("Input / Output", cli.FormatNumber(m.InputTokens)+" / "+cli.FormatNumber(m.OutputTokens)))
	b.WriteString(line("Cache create / read", cli.FormatNumber(m.CacheCreationTokens)+" / "+cli.FormatNumber(m.CacheReadTokens)))
	b.WriteString(line("API calls", strconv.Itoa(m.APICalls)))
	b.WriteString(line("Messages (u/a)", fmt.Sprintf("%d / %d", m.UserMessages, m.AssistantMessages)))

	tools := m.SortedTools()
	pairs := make([]string, len(tools))
	for i, tc := range tools {
		pairs[i] = fmt.Sprintf("%s:%d", tc.Name, tc.Count)
	}
	b.WriteString(line("Tools", strings.Join(pairs, ", ")))

	return box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
