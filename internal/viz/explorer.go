package viz

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/quad"
)

const (
	minTolExp = -15
	maxTolExp = -1
)

type resultMsg struct {
	outcome *experiment.Outcome
	err     error
}

// Explorer re-integrates the selected integrand whenever the tolerance,
// integrand, or worker count changes.
type Explorer struct {
	registry *experiment.Registry
	names    []string
	cursor   int
	tolExp   int
	cfg      quad.Config
	busy     bool

	outcome *experiment.Outcome
	err     error
}

func NewExplorer(reg *experiment.Registry, cfg quad.Config, integrand string, tol float64) Explorer {
	m := Explorer{
		registry: reg,
		names:    reg.List(),
		tolExp:   clampTol(int(math.Round(math.Log10(tol)))),
		cfg:      cfg,
	}
	for i, n := range m.names {
		if n == integrand {
			m.cursor = i
		}
	}
	return m
}

func clampTol(e int) int {
	return max(minTolExp, min(maxTolExp, e))
}

func (m Explorer) Selected() string { return m.names[m.cursor] }

func (m Explorer) Tolerance() float64 { return math.Pow(10, float64(m.tolExp)) }

func (m Explorer) Init() tea.Cmd {
	return m.compute()
}

func (m Explorer) compute() tea.Cmd {
	reg, name, tol, cfg := m.registry, m.Selected(), m.Tolerance(), m.cfg
	return func() tea.Msg {
		in, err := reg.Get(name)
		if err != nil {
			return resultMsg{err: err}
		}
		exp, err := experiment.New(reg, experiment.Config{
			Integrand: name,
			Lower:     in.Lower,
			Upper:     in.Upper,
			Tolerance: tol,
			Quad:      cfg,
		})
		if err != nil {
			return resultMsg{err: err}
		}
		out, err := exp.Run(context.Background())
		return resultMsg{outcome: out, err: err}
	}
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.busy = false
		m.outcome, m.err = msg.outcome, msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.tolExp > minTolExp {
			m.tolExp--
		}
	case "down", "j":
		if m.tolExp < maxTolExp {
			m.tolExp++
		}
	case "tab":
		m.cursor = (m.cursor + 1) % len(m.names)
	case "shift+tab":
		m.cursor = (m.cursor - 1 + len(m.names)) % len(m.names)
	case "p":
		if m.cfg.Workers > 1 {
			m.cfg.Workers = 1
		} else {
			m.cfg.Workers = runtime.NumCPU()
		}
	case "r":
	default:
		return m, nil
	}
	m.busy = true
	return m, m.compute()
}

func (m Explorer) View() string {
	var b strings.Builder

	b.WriteString(Title.Render("gkquad explorer"))
	b.WriteString("  ")
	b.WriteString(Subtle.Render(fmt.Sprintf("tol 1e%d  workers %d", m.tolExp, m.cfg.Workers)))
	b.WriteString("\n\n")

	for i, n := range m.names {
		if i == m.cursor {
			b.WriteString(MetricValue.Render("▸ " + n))
		} else {
			b.WriteString(Subtle.Render("  " + n))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StatusFail.Render(m.err.Error()))
	case m.outcome == nil || m.busy:
		b.WriteString(Subtle.Render("integrating..."))
	default:
		b.WriteString(RenderSummary(m.outcome, m.cfg.MaxEvals))
	}

	b.WriteString("\n\n")
	b.WriteString(KeyHint.Render("↑/↓ tolerance  tab integrand  p parallel  r rerun  q quit"))
	return b.String()
}

func RunExplorer(reg *experiment.Registry, cfg quad.Config, integrand string, tol float64) error {
	_, err := tea.NewProgram(NewExplorer(reg, cfg, integrand, tol)).Run()
	return err
}
