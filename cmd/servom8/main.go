package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/songsen/servoM8/internal/analysis"
	"github.com/songsen/servoM8/internal/automation"
	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/experiment"
	"github.com/songsen/servoM8/internal/export"
	"github.com/songsen/servoM8/internal/optim"
	"github.com/songsen/servoM8/internal/servo"
	"github.com/songsen/servoM8/internal/storage"
	"github.com/songsen/servoM8/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	profile    string
	integrator string
	cycles     int
	sampleRate float64
	start      float64
	seek       int
	seekAt     int
	schedule   []string
	reverse    bool
	swap       bool
	estimator  bool
	seed       int64
	noise      float64
	realtime   bool
	regValues  map[string]int
	noSave     bool

	svgOut    string
	svgWidth  int
	svgHeight int
	pngOut    string

	tuneParams []string
	tuneMetric string
	workers    int

	huntThreshold float64

	trials       int
	perturbation float64
	tolerance    int

	i2cBus   string
	i2cAddr  uint16
	saveRegs bool
)

func main() {
	registry := experiment.NewRegistry()

	rootCmd := &cobra.Command{
		Use:          "servom8",
		Short:        "fixed-point servo controller bench",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".servom8", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [controller]",
		Short: "run the control loop against the motor model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, args, registry)
		},
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [controller]",
		Short: "drive the loop interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			exp, err := experiment.New(registry, cfg)
			if err != nil {
				return err
			}
			return viz.Run(exp, cfg.Controller+"/"+cfg.Profile)
		},
	}
	addRunFlags(liveCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [controller]",
		Short: "grid search register values",
		Long: "Runs every combination of --param ranges and ranks them by --metric.\n" +
			"Ranges are start:stop:step, a comma separated list, or one value.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tune(cmd, args, registry)
		},
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "register=range, repeatable")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "tracking_error", "metric to minimize")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per CPU)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, args, registry)
		},
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [controller]",
		Short: "repeat a run from perturbed start positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return monteCarlo(cmd, args, registry)
		},
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 100, "max start offset in counts")
	monteCarloCmd.Flags().IntVar(&tolerance, "tolerance", 4, "final error in counts that counts as settled")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "look for hunting in a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&huntThreshold, "threshold", 2, "amplitude in counts that counts as hunting")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			return storage.WriteSamplesCSV(cmd.OutOrStdout(), samples)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as one JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's position, seek and drive as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 450, "image height")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "chart a run's position, seek and drive as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&pngOut, "out", "o", "", "output file (default <run_id>.png)")

	presetsCmd := &cobra.Command{
		Use:   "presets [controller]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controllers := registry.ListControllers()
			if len(args) > 0 {
				controllers = args
			}
			out := cmd.OutOrStdout()
			for _, c := range controllers {
				presets := config.ListPresets(c)
				if len(presets) == 0 {
					fmt.Fprintf(out, "no presets for controller: %s\n", c)
					continue
				}
				fmt.Fprintf(out, "%s (%s):\n", c, registry.Describe(c))
				for _, p := range presets {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			return nil
		},
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list servo hardware profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tP\tD\tDEADBAND\tSEEK\tDIVIDER\tSPEED\tDESCRIPTION")
			for _, name := range config.ListProfiles() {
				p, _ := config.GetProfile(name)
				fmt.Fprintf(w, "%s\t0x%04X\t0x%04X\t%d\t%d-%d\t%d\t%.0f\t%s\n",
					p.Name, p.PID.Position, p.PID.Velocity, p.PID.Deadband,
					p.MinSeek, p.MaxSeek, p.PWMFreqDivider, p.Plant.NoLoadSpeed, p.Description)
			}
			return w.Flush()
		},
	}

	defaultsCmd := &cobra.Command{
		Use:   "defaults [controller]",
		Short: "print the register table after power-up initialization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			exp, err := experiment.New(registry, cfg)
			if err != nil {
				return err
			}
			return printRegisters(cmd.OutOrStdout(), exp.Registers())
		},
	}
	addRunFlags(defaultsCmd)

	rootCmd.AddCommand(runCmd, liveCmd, tuneCmd, scenarioCmd, monteCarloCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, exportPNGCmd, presetsCmd, profilesCmd, defaultsCmd, regsCommand(registry))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&profile, "profile", "", "servo hardware profile")
	f.StringVar(&integrator, "integrator", "", "motor model integrator (euler, rk4)")
	f.IntVar(&cycles, "cycles", config.DefaultCycles, "control cycles")
	f.Float64Var(&sampleRate, "rate", config.DefaultSampleRate, "sample rate in Hz")
	f.Float64Var(&start, "start", config.DefaultStart, "initial motor position")
	f.IntVar(&seek, "seek", -1, "seek position commanded at --at")
	f.IntVar(&seekAt, "at", 0, "cycle at which --seek applies")
	f.StringSliceVar(&schedule, "schedule", nil, "setpoints as cycle:position")
	f.BoolVar(&reverse, "reverse", false, "reverse the position sense")
	f.BoolVar(&swap, "swap", false, "swap the motor leads")
	f.BoolVar(&estimator, "estimator", false, "run the velocity estimator")
	f.Int64Var(&seed, "seed", 0, "sensor noise seed")
	f.Float64Var(&noise, "noise", 0, "sensor noise in counts")
	f.BoolVar(&realtime, "realtime", false, "pace cycles at the sample rate")
	f.StringToIntVar(&regValues, "set", nil, "register overrides, name=value")
}

// buildConfig layers the preset or config file, then every flag the user
// set explicitly. A controller argument overrides both.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if preset != "" {
		controller := "ipd"
		if len(args) > 0 {
			controller = args[0]
		}
		cfg = config.GetPreset(controller, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(controller))
		}
	} else {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.Controller = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = profile
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("cycles") {
		cfg.Cycles = cycles
	}
	if flags.Changed("rate") {
		cfg.SampleRate = sampleRate
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("reverse") {
		cfg.Reverse = reverse
	}
	if flags.Changed("swap") {
		cfg.SwapDirection = swap
	}
	if flags.Changed("estimator") {
		cfg.Estimator = estimator
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("noise") {
		cfg.Plant.Noise = noise
	}
	if flags.Changed("realtime") {
		cfg.Realtime = realtime
	}
	if flags.Changed("schedule") {
		sp, err := parseSchedule(schedule)
		if err != nil {
			return nil, err
		}
		cfg.Schedule = sp
	}
	if seek >= 0 {
		cfg.Schedule = append(cfg.Schedule, servo.Setpoint{Cycle: seekAt, Position: int16(seek)})
	}
	for name, v := range regValues {
		cfg.Registers[name] = v
	}

	return cfg, cfg.Validate()
}

func parseSchedule(entries []string) ([]servo.Setpoint, error) {
	out := make([]servo.Setpoint, 0, len(entries))
	for _, e := range entries {
		c, p, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("setpoint %q is not cycle:position", e)
		}
		cycle, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("setpoint %q: %w", e, err)
		}
		pos, err := strconv.ParseInt(p, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("setpoint %q: %w", e, err)
		}
		out = append(out, servo.Setpoint{Cycle: cycle, Position: int16(pos)})
	}
	return out, nil
}

func runExperiment(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(registry, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s on %s...\n", cfg.Controller, cfg.Profile)
	began := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(began)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(), result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	fmt.Fprintf(out, "cycles: %d\n", result.Cycles)
	if n := len(result.Samples); n > 0 {
		last := result.Samples[n-1]
		fmt.Fprintf(out, "final position: %d (seek %d)\n", last.Position, last.Target())
	}
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.4f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %v\n", e)
	}
	return nil
}

func tune(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, spec, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("param %q is not register=range", p)
		}
		values, err := optim.ParseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	grid := optim.NewGridSearch(names, ranges)
	if workers > 0 {
		grid.SetWorkers(workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	began := time.Now()
	best, score, candidates, err := optim.Tune(ctx, registry, cfg, grid, tuneMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "evaluated %d candidates in %v\n\n", len(candidates), time.Since(began))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(tuneMetric))
	for i, c := range candidates {
		if i == 10 {
			break
		}
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, fmt.Sprintf("0x%04X", int(c.Params[n])))
		}
		if c.Err != nil {
			row = append(row, "error: "+c.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.4f", c.Score))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nbest %s = %.4f:", tuneMetric, score)
	for _, n := range names {
		fmt.Fprintf(out, " --set %s=%d", n, int(best[n]))
	}
	fmt.Fprintln(out)
	return nil
}

func runScenario(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario %s: %s\n", scenario.Name, scenario.Description)
	results, err := automation.RunScenario(ctx, scenario, registry, func(i int, step automation.ScenarioStep) {
		fmt.Fprintf(out, "running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Name)
	})

	st := storage.New(dataDir)
	if initErr := st.Init(); initErr != nil {
		return initErr
	}
	for _, r := range results {
		runID, saveErr := st.Save(r.Experiment.Metadata(), r.Result)
		if saveErr != nil {
			return saveErr
		}
		fmt.Fprintf(out, "  %s -> %s (tracking %.2f)\n", r.Step.Name, runID, r.Result.Metrics["tracking_error"])
	}
	return err
}

func monteCarlo(cmd *cobra.Command, args []string, registry *experiment.Registry) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         cfg.Seed,
		Tolerance:    tolerance,
	}, registry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTART\tFINAL ERROR\tOVERSHOOT\tSETTLED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.1f\t%d\t%.1f\t%v\n", r.TrialID, r.Start, r.FinalError, r.Metrics["overshoot"], r.Settled)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	settled, unsettled := automation.MonteCarloStats(results)
	fmt.Fprintf(cmd.OutOrStdout(), "\nsettled %d of %d (%d unsettled)\n", settled, len(results), unsettled)
	sum := automation.SummarizeErrors(results)
	fmt.Fprintf(cmd.OutOrStdout(), "final error: mean %.2f  stddev %.2f  median %.1f  worst %d\n",
		sum.Mean, sum.StdDev, sum.Median, sum.Worst)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCTRL\tPROFILE\tTIME\tCYCLES\tRATE\tTRACKING")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0fHz\t%.2f\n",
			run.ID,
			run.Controller,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cycles,
			run.SampleRate,
			run.Metrics["tracking_error"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	position := make([]float64, len(samples))
	seekTrace := make([]float64, len(samples))
	drive := make([]float64, len(samples))
	integral := make([]float64, len(samples))
	for i, s := range samples {
		position[i] = float64(s.Position)
		seekTrace[i] = float64(s.Target())
		drive[i] = float64(s.Drive)
		integral[i] = float64(s.Integral)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "controller: %s on %s\n", meta.Controller, meta.Profile)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))

	fmt.Fprintln(out, asciigraph.PlotMany([][]float64{seekTrace, position},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Orange, asciigraph.Green),
		asciigraph.Caption("seek / position"),
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(drive,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("drive"),
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(integral,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("integral"),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	r, err := analysis.Analyze(samples, meta.SampleRate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "window: last %d samples (%.2f Hz per bin)\n", r.Samples, r.Resolution)
	fmt.Fprintf(out, "mean error: %.2f counts\n", r.Mean)
	fmt.Fprintf(out, "peak deviation: %.2f counts\n", r.Peak)
	fmt.Fprintf(out, "dominant: %.2f Hz at %.2f counts\n", r.Frequency, r.Amplitude)
	if r.Hunting(huntThreshold) {
		fmt.Fprintln(out, "verdict: hunting")
	} else {
		fmt.Fprintln(out, "verdict: settled")
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.WriteSVG(w, samples, svgWidth, svgHeight)
}

func exportPNG(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}

	path := pngOut
	if path == "" {
		path = meta.ID + ".png"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := export.DefaultPlotOptions()
	opts.Title = fmt.Sprintf("%s %s (%s)", meta.Controller, meta.Profile, meta.ID)
	if err := export.WritePNG(f, samples, meta.SampleRate, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
