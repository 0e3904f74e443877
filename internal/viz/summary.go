package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/gkquad/internal/analysis"
	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/quad"
)

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// Status renders the outcome's convergence state.
func Status(out *experiment.Outcome) string {
	switch {
	case out.Err == nil:
		return StatusOK.Render("converged")
	case out.Result != nil && out.Result.Guard == quad.GuardDegenerate:
		return StatusWarn.Render("degenerate")
	default:
		return StatusFail.Render("not converged")
	}
}

// RenderSummary renders one integration as a panel.
func RenderSummary(out *experiment.Outcome, maxEvals int64) string {
	res := out.Result
	var b strings.Builder

	b.WriteString(Title.Render(fmt.Sprintf("∫ %s on [%g, %g]", out.Integrand, out.Lower, out.Upper)))
	b.WriteString("\n\n")
	b.WriteString(row("status", Status(out)) + "\n")
	b.WriteString(row("value", fmt.Sprintf("%.16g", res.Value)) + "\n")
	if out.HasExact {
		b.WriteString(row("exact", fmt.Sprintf("%.16g", out.Exact)) + "\n")
		b.WriteString(row("true error", fmt.Sprintf("%.3e", out.TrueError())) + "\n")
	}
	b.WriteString(row("indicator", fmt.Sprintf("%.3e", res.AbsErr)) + "\n")
	b.WriteString(row("tolerance", fmt.Sprintf("%g", out.Tolerance)) + "\n")
	b.WriteString(row("evaluations", fmt.Sprintf("%d", res.Evaluations)) + "\n")
	if maxEvals > 0 {
		b.WriteString(row("budget", ProgressBar(float64(res.Evaluations)/float64(maxEvals), 30)) + "\n")
	}
	b.WriteString(row("leaves", fmt.Sprintf("%d", res.LeafCount)) + "\n")
	b.WriteString(row("max depth", fmt.Sprintf("%d", res.MaxDepth)) + "\n")
	b.WriteString(row("elapsed", out.Elapsed.String()))
	if len(res.Leaves) > 0 {
		b.WriteString("\n" + row("refinement", Sparkline(analysis.LeafDensity(res.Leaves, out.Lower, out.Upper, 40))))
	}
	if out.Err != nil {
		b.WriteString("\n\n" + Subtle.Render(out.Err.Error()))
	}

	return Panel.Render(b.String())
}
