package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gkquad/internal/analysis"
	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/integrands"
	"github.com/san-kum/gkquad/internal/quad"
)

func TestFinite(t *testing.T) {
	got := finite([]float64{1, math.Inf(1), -2, math.NaN(), math.Inf(-1)})
	want := []float64{1, 1, -2, 0, -2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("finite[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	all := finite([]float64{math.NaN(), math.Inf(1)})
	if all[0] != 0 || all[1] != 0 {
		t.Errorf("all non-finite = %v, want zeros", all)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fraction float64
		filled   int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.fraction, 10)
		if n := strings.Count(bar, "█"); n != tt.filled {
			t.Errorf("ProgressBar(%v) filled %d, want %d", tt.fraction, n, tt.filled)
		}
		if n := strings.Count(bar, "░"); n != 10-tt.filled {
			t.Errorf("ProgressBar(%v) empty %d, want %d", tt.fraction, n, 10-tt.filled)
		}
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil) != "" {
		t.Error("empty input should render nothing")
	}
	s := Sparkline([]float64{0, 1, 2})
	if s != "▁▄█" {
		t.Errorf("Sparkline = %q", s)
	}
	if flat := Sparkline([]float64{3, 3, 3}); flat != "▁▁▁" {
		t.Errorf("flat Sparkline = %q", flat)
	}
}

func TestPlotIntegrand(t *testing.T) {
	sin := integrands.Sin()
	out, err := PlotIntegrand(sin.Func(), 0, math.Pi, "sin", integrands.Params(sin.GetParams()))
	if err != nil {
		t.Fatalf("PlotIntegrand: %v", err)
	}
	if !strings.Contains(out, "sin") {
		t.Error("plot missing caption")
	}

	pole := integrands.Pole()
	if _, err := PlotIntegrand(pole.Func(), 0, 1, "pole", integrands.Params(pole.GetParams())); err != nil {
		t.Fatalf("PlotIntegrand(pole): %v", err)
	}
}

func TestPlotSweep(t *testing.T) {
	if PlotSweep(nil) != "" {
		t.Error("empty sweep should render nothing")
	}
	rows := []analysis.SweepRow{
		{Tol: 1e-2, TrueErr: 1e-4},
		{Tol: 1e-4, TrueErr: 1e-8},
		{Tol: 1e-6, TrueErr: 0},
	}
	if out := PlotSweep(rows); !strings.Contains(out, "true error") {
		t.Errorf("unexpected sweep caption:\n%s", out)
	}
	rows[0].TrueErr = math.NaN()
	if out := PlotSweep(rows); !strings.Contains(out, "indicator") {
		t.Errorf("expected indicator caption:\n%s", out)
	}
}

func runOutcome(t *testing.T, name string, cfg quad.Config) *experiment.Outcome {
	t.Helper()
	reg := experiment.NewRegistry()
	in, err := reg.Get(name)
	if err != nil {
		t.Fatal(err)
	}
	exp, err := experiment.New(reg, experiment.Config{
		Integrand: name,
		Lower:     in.Lower,
		Upper:     in.Upper,
		Tolerance: 1e-8,
		Quad:      cfg,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRenderSummary(t *testing.T) {
	cfg := quad.DefaultConfig()
	cfg.RecordLeaves = true

	out := runOutcome(t, "sin", cfg)
	s := RenderSummary(out, cfg.MaxEvals)
	for _, want := range []string{"sin", "converged", "exact", "evaluations"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "not converged") {
		t.Errorf("sin reported as not converged:\n%s", s)
	}

	cfg.MaxEvals = 300
	out = runOutcome(t, "pole", cfg)
	if s := RenderSummary(out, cfg.MaxEvals); !strings.Contains(s, "not converged") {
		t.Errorf("pole summary should report non-convergence:\n%s", s)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExplorerKeys(t *testing.T) {
	reg := experiment.NewRegistry()
	m := NewExplorer(reg, quad.DefaultConfig(), "sin", 1e-10)

	if m.Selected() != "sin" {
		t.Fatalf("selected %q, want sin", m.Selected())
	}
	if m.tolExp != -10 {
		t.Fatalf("tolExp = %d, want -10", m.tolExp)
	}

	m, _ = m.handleKey(key("up"))
	if m.tolExp != -11 {
		t.Errorf("up: tolExp = %d, want -11", m.tolExp)
	}
	m, _ = m.handleKey(key("down"))
	m, _ = m.handleKey(key("down"))
	if m.tolExp != -9 {
		t.Errorf("down: tolExp = %d, want -9", m.tolExp)
	}

	m.tolExp = minTolExp
	m, _ = m.handleKey(key("up"))
	if m.tolExp != minTolExp {
		t.Errorf("tolerance went below the floor: %d", m.tolExp)
	}

	m.cursor = len(m.names) - 1
	m, _ = m.handleKey(key("tab"))
	if m.cursor != 0 {
		t.Errorf("tab should wrap to 0, got %d", m.cursor)
	}
	m, _ = m.handleKey(key("shift+tab"))
	if m.cursor != len(m.names)-1 {
		t.Errorf("shift+tab should wrap to last, got %d", m.cursor)
	}

	m, _ = m.handleKey(key("p"))
	if m.cfg.Workers < 1 {
		t.Errorf("workers = %d", m.cfg.Workers)
	}
	m, _ = m.handleKey(key("p"))
	if m.cfg.Workers != 1 {
		t.Errorf("second toggle: workers = %d, want 1", m.cfg.Workers)
	}

	_, cmd := m.handleKey(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExplorerCompute(t *testing.T) {
	m := NewExplorer(experiment.NewRegistry(), quad.DefaultConfig(), "gaussian", 1e-8)
	if !strings.Contains(m.View(), "integrating") {
		t.Error("view before first result should show progress")
	}

	msg := m.Init()()
	updated, _ := m.Update(msg)
	m = updated.(Explorer)

	if m.err != nil {
		t.Fatalf("compute: %v", m.err)
	}
	if m.outcome == nil || m.outcome.Integrand != "gaussian" {
		t.Fatalf("unexpected outcome %+v", m.outcome)
	}
	if !strings.Contains(m.View(), "gaussian") {
		t.Error("view missing integrand name")
	}
}
