package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gkquad/internal/analysis"
	"github.com/san-kum/gkquad/internal/automation"
	"github.com/san-kum/gkquad/internal/config"
	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/integrands"
	"github.com/san-kum/gkquad/internal/quad"
	"github.com/san-kum/gkquad/internal/storage"
	"github.com/san-kum/gkquad/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	lower     float64
	upper     float64
	tolerance float64
	params    []string

	maxDepth int
	maxEvals int64
	minWidth float64
	zeroTol  float64
	workers  int

	noSave   bool
	tolFrom  float64
	tolTo    float64
	split    float64
	output   string
	svgWidth int

	paramName string
	paramMin  float64
	paramMax  float64
	steps     int
	trials    int
	seed      int64
)

// main registers the gkquad commands and runs the explorer when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gkquad",
		Short: "adaptive gauss-kronrod quadrature lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunExplorer(experiment.NewRegistry(), quad.DefaultConfig(), config.DefaultIntegrand, config.DefaultTolerance)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gkquad", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [integrand]",
		Short: "integrate once and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegration,
	}
	addIntegrationFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [integrand]",
		Short: "integrate across tolerance decades",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addIntegrationFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tolFrom, "from", 1e-2, "loosest tolerance")
	sweepCmd.Flags().Float64Var(&tolTo, "to", 1e-12, "tightest tolerance")

	checkCmd := &cobra.Command{
		Use:   "check [integrand]",
		Short: "check additivity and error monotonicity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	addIntegrationFlags(checkCmd)
	checkCmd.Flags().Float64Var(&split, "split", math.NaN(), "split point (default midpoint)")
	checkCmd.Flags().Float64Var(&tolFrom, "from", 1e-2, "loosest tolerance")
	checkCmd.Flags().Float64Var(&tolTo, "to", 1e-12, "tightest tolerance")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [integrand]",
		Short: "plot an integrand over its interval",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotIntegrand,
	}
	addIntegrationFlags(plotCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the partition of a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the partition of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")

	presetsCmd := &cobra.Command{
		Use:   "presets [integrand]",
		Short: "list presets for an integrand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for integrand: %s\n", args[0])
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tTOL\tINTERVAL\tPARAMS")
			for _, name := range names {
				p := config.GetPreset(args[0], name)
				interval := "default"
				if p.Interval != nil {
					interval = fmt.Sprintf("[%g, %g]", p.Interval.Lower, p.Interval.Upper)
				}
				fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", name, p.Tolerance, interval, formatParams(p.Params))
			}
			return w.Flush()
		},
	}

	integrandsCmd := &cobra.Command{
		Use:   "integrands",
		Short: "list available integrands",
		RunE:  listIntegrands,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [integrand]",
		Short: "interactive tolerance explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return viz.RunExplorer(experiment.NewRegistry(), cfg.QuadConfig(), cfg.Integrand, cfg.Tolerance)
		},
	}
	addIntegrationFlags(tuiCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	paramSweepCmd := &cobra.Command{
		Use:   "param-sweep [integrand]",
		Short: "integrate across values of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runParamSweep,
	}
	addIntegrationFlags(paramSweepCmd)
	paramSweepCmd.Flags().StringVar(&paramName, "name", "", "parameter to vary")
	paramSweepCmd.Flags().Float64Var(&paramMin, "min", 1, "first value")
	paramSweepCmd.Flags().Float64Var(&paramMax, "max", 10, "last value")
	paramSweepCmd.Flags().IntVar(&steps, "steps", 10, "number of values")
	paramSweepCmd.MarkFlagRequired("name")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [integrand]",
		Short: "check additivity at random split points",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addIntegrationFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of random splits")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time based)")

	rootCmd.AddCommand(runCmd, sweepCmd, checkCmd, listCmd, showCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, integrandsCmd, tuiCmd,
		batchCmd, paramSweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addIntegrationFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&lower, "lower", 0, "lower limit (default from integrand)")
	cmd.Flags().Float64Var(&upper, "upper", 0, "upper limit (default from integrand)")
	cmd.Flags().Float64Var(&tolerance, "tol", d.Tolerance, "relative tolerance")
	cmd.Flags().StringArrayVar(&params, "param", nil, "integrand parameter name=value (repeatable)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", d.Limits.MaxDepth, "maximum bisection depth")
	cmd.Flags().Int64Var(&maxEvals, "max-evals", d.Limits.MaxEvals, "function evaluation budget")
	cmd.Flags().Float64Var(&minWidth, "min-width", d.Limits.MinWidth, "smallest subinterval width")
	cmd.Flags().Float64Var(&zeroTol, "zero-tol", d.Limits.ZeroTol, "near-zero estimate floor, relative to the integral of |f|")
	cmd.Flags().IntVar(&workers, "workers", d.Workers, "concurrent refinement workers")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, config file, preset, and changed flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Integrand = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Integrand, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (see: gkquad presets %s)", preset, cfg.Integrand, cfg.Integrand)
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("lower") || flags.Changed("upper") {
		in, err := experiment.NewRegistry().Get(cfg.Integrand)
		if err != nil {
			return nil, err
		}
		lo, hi := cfg.Bounds(in.Lower, in.Upper)
		if flags.Changed("lower") {
			lo = lower
		}
		if flags.Changed("upper") {
			hi = upper
		}
		cfg.Interval = &config.IntervalConfig{Lower: lo, Upper: hi}
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("max-depth") {
		cfg.Limits.MaxDepth = maxDepth
	}
	if flags.Changed("max-evals") {
		cfg.Limits.MaxEvals = maxEvals
	}
	if flags.Changed("min-width") {
		cfg.Limits.MinWidth = minWidth
	}
	if flags.Changed("zero-tol") {
		cfg.Limits.ZeroTol = zeroTol
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	for _, kv := range params {
		name, value, err := parseParam(kv)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = value
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParam(kv string) (string, float64, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid --param %q, want name=value", kv)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --param %q: %w", kv, err)
	}
	return name, v, nil
}

func formatParams(p map[string]float64) string {
	if len(p) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(p))
	for _, k := range integrands.Params(p).Names() {
		parts = append(parts, fmt.Sprintf("%s=%g", k, p[k]))
	}
	return strings.Join(parts, " ")
}

func setup(cmd *cobra.Command, args []string) (*config.Config, *experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	reg := experiment.NewRegistry()
	ecfg, err := experiment.FromConfig(reg, cfg)
	if err != nil {
		return nil, nil, err
	}
	exp, err := experiment.New(reg, ecfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderSummary(out, cfg.Limits.MaxEvals))

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(out)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func sweepRows(cmd *cobra.Command, args []string) (*config.Config, *experiment.Experiment, []analysis.SweepRow, error) {
	cfg, exp, err := setup(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}
	tols := analysis.Decades(tolFrom, tolTo)
	if len(tols) == 0 {
		return nil, nil, nil, fmt.Errorf("invalid tolerance range %g..%g", tolFrom, tolTo)
	}

	in := exp.Integrand()
	lo, hi := cfg.Bounds(in.Lower, in.Upper)
	exact, ok := in.Exact(lo, hi, exp.Params())
	if !ok {
		exact = math.NaN()
	}

	rows, err := analysis.ToleranceSweep(quad.New(cfg.QuadConfig()), in.Func(), lo, hi, tols, exact, exp.Params())
	return cfg, exp, rows, err
}

func printSweep(rows []analysis.SweepRow) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOL\tVALUE\tINDICATOR\tTRUE ERR\tEVALS\tDEPTH\tLEAVES\tOK")
	for _, r := range rows {
		trueErr := "-"
		if !math.IsNaN(r.TrueErr) {
			trueErr = fmt.Sprintf("%.2e", r.TrueErr)
		}
		fmt.Fprintf(w, "%.0e\t%.15g\t%.2e\t%s\t%d\t%d\t%d\t%v\n",
			r.Tol, r.Value, r.AbsErr, trueErr, r.Evaluations, r.Depth, r.Leaves, r.Converged)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	_, _, rows, err := sweepRows(cmd, args)
	if err != nil {
		return err
	}
	if err := printSweep(rows); err != nil {
		return err
	}
	if plot := viz.PlotSweep(rows); plot != "" {
		fmt.Println()
		fmt.Println(plot)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, exp, rows, err := sweepRows(cmd, args)
	if err != nil {
		return err
	}
	in := exp.Integrand()
	lo, hi := cfg.Bounds(in.Lower, in.Upper)

	c := split
	if math.IsNaN(c) {
		c = lo + (hi-lo)/2
	}
	add, err := analysis.CheckAdditivity(quad.New(cfg.QuadConfig()), in.Func(), lo, c, hi, cfg.Tolerance, exp.Params())
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("checks for %s on [%g, %g]", cfg.Integrand, lo, hi)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "additivity at %g\t%.3e\t(whole %.15g, parts %.15g)\n",
		c, add.Discrepancy, add.Whole, add.Left+add.Right)

	if math.IsNaN(rows[0].TrueErr) {
		fmt.Fprintln(w, "monotone error\tskipped\t(no closed form)")
	} else if i, ok := analysis.MonotoneErrors(rows, 1e-13); ok {
		fmt.Fprintf(w, "monotone error\t%s\t(%d tolerances)\n", viz.StatusOK.Render("ok"), len(rows))
	} else {
		fmt.Fprintf(w, "monotone error\t%s\t(error grew at tol %g)\n", viz.StatusFail.Render("violated"), rows[i].Tol)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINTEGRAND\tTIME\tINTERVAL\tTOL\tVALUE\tEVALS\tGUARD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%g\t%.12g\t%d\t%s\n",
			run.ID,
			run.Integrand,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Lower, run.Upper,
			run.Tolerance,
			run.Value,
			run.Evaluations,
			run.Guard,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	leaves, err := st.LoadLeaves(args[0])
	if err != nil {
		return fmt.Errorf("failed to load leaves: %w", err)
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: ∫ %s on [%g, %g]", meta.ID, meta.Integrand, meta.Lower, meta.Upper)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "value\t%.16g\n", meta.Value)
	if meta.Exact != nil {
		fmt.Fprintf(w, "exact\t%.16g\n", *meta.Exact)
		fmt.Fprintf(w, "true error\t%.3e\n", math.Abs(meta.Value-*meta.Exact))
	}
	fmt.Fprintf(w, "indicator\t%.3e\n", meta.AbsErr)
	fmt.Fprintf(w, "tolerance\t%g\n", meta.Tolerance)
	fmt.Fprintf(w, "params\t%s\n", formatParams(meta.Params))
	fmt.Fprintf(w, "evaluations\t%d\n", meta.Evaluations)
	fmt.Fprintf(w, "leaves\t%d (max depth %d)\n", meta.Leaves, meta.MaxDepth)
	fmt.Fprintf(w, "converged\t%v (guard: %s)\n", meta.Converged, meta.Guard)
	fmt.Fprintf(w, "elapsed\t%s\n", meta.Elapsed)
	if err := w.Flush(); err != nil {
		return err
	}

	if plot := viz.PlotDensity(leaves, meta.Lower, meta.Upper); plot != "" {
		fmt.Println()
		fmt.Println(plot)
	}
	return nil
}

func plotIntegrand(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args)
	if err != nil {
		return err
	}
	in := exp.Integrand()
	lo, hi := cfg.Bounds(in.Lower, in.Upper)

	plot, err := viz.PlotIntegrand(in.Func(), lo, hi, fmt.Sprintf("%s on [%g, %g]", in.Description, lo, hi), exp.Params())
	if err != nil {
		return err
	}
	fmt.Println(plot)
	return nil
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	leaves, err := st.LoadLeaves(args[0])
	if err != nil {
		return fmt.Errorf("failed to load leaves: %w", err)
	}

	f, closeFn, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, *meta, leaves); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported to %s\n", output)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	leaves, err := storage.New(dataDir).LoadLeaves(args[0])
	if err != nil {
		return fmt.Errorf("failed to load leaves: %w", err)
	}

	f, closeFn, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := storage.WriteLeavesCSV(f, leaves); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported %d leaves to %s\n", len(leaves), output)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	leaves, err := st.LoadLeaves(args[0])
	if err != nil {
		return fmt.Errorf("failed to load leaves: %w", err)
	}

	svg := storage.PartitionSVG(leaves, meta.Lower, meta.Upper, svgWidth, svgWidth/4)
	if output == "" {
		fmt.Print(svg)
		return nil
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", output)
	return nil
}

func listIntegrands(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTEGRAND\tINTERVAL\tPARAMS\tEXACT")
	for _, name := range reg.List() {
		in, err := reg.Get(name)
		if err != nil {
			return err
		}
		exact := "-"
		if v, ok := in.Exact(in.Lower, in.Upper, nil); ok {
			exact = fmt.Sprintf("%.12g", v)
		}
		fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t%s\t%s\n",
			name, in.Description, in.Lower, in.Upper, formatParams(in.GetParams()), exact)
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if sc.Name != "" {
		fmt.Println(viz.Title.Render(sc.Name))
	}
	outs, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINTEGRAND\tVALUE\tTRUE ERR\tEVALS\tSTATUS")
	for i, out := range outs {
		trueErr := "-"
		if out.HasExact {
			trueErr = fmt.Sprintf("%.2e", out.TrueError())
		}
		fmt.Fprintf(w, "%d\t%s\t%.15g\t%s\t%d\t%s\n",
			i+1, out.Integrand, out.Result.Value, trueErr, out.Result.Evaluations, viz.Status(out))
	}
	return w.Flush()
}

func runParamSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	in, err := experiment.NewRegistry().Get(cfg.Integrand)
	if err != nil {
		return err
	}
	lo, hi := cfg.Bounds(in.Lower, in.Upper)

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Integrand: cfg.Integrand,
		Lower:     lo,
		Upper:     hi,
		Params:    integrands.Params(cfg.Params),
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  steps,
		Tolerance: cfg.Tolerance,
		Quad:      cfg.QuadConfig(),
	}, experiment.NewRegistry(), nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tVALUE\tINDICATOR\tTRUE ERR\tEVALS\tOK\n", strings.ToUpper(paramName))
	for _, r := range results {
		trueErr := "-"
		if !math.IsNaN(r.TrueErr) {
			trueErr = fmt.Sprintf("%.2e", r.TrueErr)
		}
		fmt.Fprintf(w, "%.4g\t%.15g\t%.2e\t%s\t%d\t%v\n",
			r.ParamValue, r.Value, r.AbsErr, trueErr, r.Evaluations, r.Converged)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	in, err := experiment.NewRegistry().Get(cfg.Integrand)
	if err != nil {
		return err
	}
	lo, hi := cfg.Bounds(in.Lower, in.Upper)

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Integrand: cfg.Integrand,
		Lower:     lo,
		Upper:     hi,
		Params:    integrands.Params(cfg.Params),
		Tolerance: cfg.Tolerance,
		NumTrials: trials,
		Seed:      seed,
		Quad:      cfg.QuadConfig(),
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	worst := 0.0
	scaled := make([]float64, len(results))
	for i, r := range results {
		worst = math.Max(worst, r.Discrepancy)
		scaled[i] = math.Min(r.Scaled, 1e3)
	}
	within, outside := automation.MonteCarloStats(results, 10)

	fmt.Printf("trials: %d  within 10x tol: %d  outside: %d  worst discrepancy: %.3e\n",
		len(results), within, outside, worst)
	fmt.Println(viz.Sparkline(scaled))
	return nil
}
