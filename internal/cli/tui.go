package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// =============================================================================
// Messages
// =============================================================================

type progressMsg struct {
	explored, pruned, best int
}

type solvedMsg struct {
	result cover.Result
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// SolveModel - Live search progress
// =============================================================================

// SolveModel is the bubbletea model showing a running search.
type SolveModel struct {
	Source   string
	Vertices int
	Edges    int

	Explored     int
	Pruned       int
	Best         int
	Initial      int
	Improvements int

	Start   time.Time
	Elapsed time.Duration

	Done     bool
	Stopping bool
	Result   cover.Result
	Err      error

	cancel context.CancelFunc
}

// NewSolveModel creates a model for a search over g. cancel is called when
// the user quits.
func NewSolveModel(source string, g *graph.Graph, cancel context.CancelFunc) SolveModel {
	return SolveModel{
		Source:   source,
		Vertices: g.N(),
		Edges:    g.M(),
		Initial:  -1,
		Start:    time.Now(),
		cancel:   cancel,
	}
}

func (m SolveModel) Init() tea.Cmd {
	return tick()
}

func (m SolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Stopping && m.cancel != nil {
				m.cancel()
			}
			m.Stopping = true
		}
	case progressMsg:
		if m.Initial < 0 {
			m.Initial = msg.best
		} else if msg.best < m.Best {
			m.Improvements++
		}
		m.Explored, m.Pruned, m.Best = msg.explored, msg.pruned, msg.best
	case solvedMsg:
		m.Done = true
		m.Result, m.Err = msg.result, msg.err
		m.Elapsed = time.Since(m.Start)
		if msg.err == nil {
			m.Best = msg.result.Size
			m.Explored = msg.result.Stats.Explored
			m.Pruned = msg.result.Stats.Pruned
		}
		return m, tea.Quit
	case tickMsg:
		m.Elapsed = time.Time(msg).Sub(m.Start)
		return m, tick()
	}
	return m, nil
}

func (m SolveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Placing stations"))
	b.WriteString(" " + StyleDim.Render(m.Source))
	b.WriteString("\n\n")

	best := "—"
	if m.Initial >= 0 {
		best = fmt.Sprint(m.Best)
	}
	initial := "—"
	if m.Initial >= 0 {
		initial = fmt.Sprint(m.Initial)
	}

	rows := [][]string{
		{"graph", fmt.Sprintf("%d vertices, %d edges", m.Vertices, m.Edges)},
		{"best", best},
		{"initial", initial},
		{"improved", fmt.Sprint(m.Improvements)},
		{"explored", fmt.Sprint(m.Explored)},
		{"pruned", fmt.Sprint(m.Pruned)},
		{"elapsed", m.Elapsed.Round(100 * time.Millisecond).String()},
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			if row == 1 {
				return StyleStation
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	switch {
	case m.Done && m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	case m.Done && m.Result.Exact:
		b.WriteString(StyleSuccess.Render(iconSuccess + " minimum found"))
	case m.Done:
		b.WriteString(StyleWarning.Render(iconWarning + " stopped early; best cover kept"))
	case m.Stopping:
		b.WriteString(StyleDim.Render("stopping…"))
	default:
		b.WriteString(StyleDim.Render("q stop and keep best"))
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Runner
// =============================================================================

// solveWithTUI runs the search under a live bubbletea view drawn on out.
// Quitting the view stops the search and keeps the best cover found.
func solveWithTUI(ctx context.Context, out io.Writer, runner *pipeline.Runner, g *graph.Graph, opts pipeline.Options) (cover.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSolveModel(opts.Source, g, cancel), tea.WithOutput(out))
	opts.Progress = func(explored, pruned, best int) {
		p.Send(progressMsg{explored: explored, pruned: pruned, best: best})
	}

	done := make(chan solvedMsg, 1)
	go func() {
		res, err := runner.Solve(ctx, g, opts)
		msg := solvedMsg{result: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return cover.Result{}, fmt.Errorf("progress view: %w", err)
	}
	cancel()
	msg := <-done
	return msg.result, msg.err
}
