package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/rigid2d/internal/analysis"
	"github.com/san-kum/rigid2d/internal/automation"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/export"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/optim"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/storage"
	"github.com/san-kum/rigid2d/internal/tui"
	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/san-kum/rigid2d/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	dt          float64
	duration    float64
	seed        int64
	subSteps    int
	configFile  string
	preset      string
	params      map[string]string
	broadphase  string
	sleepMode   string
	watch       bool
	frameRate   int
	column      string
	xAxis       int
	yAxis       int
	bodyIndex   int
	outFile     string
	ensembleRun int
	snapshotAt  float64
	imageWidth  int
	imageHeight int
	ranges      map[string]string
	metricName  string
	maximize    bool

	logger *log.Logger
)

var columns = map[string]int{"x": 0, "y": 1, "angle": 2}

func main() {
	registry := scene.NewRegistry()

	rootCmd := &cobra.Command{
		Use:   "rigid2d",
		Short: "2d rigid body physics lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           level,
				Prefix:          "rigid2d",
				ReportTimestamp: true,
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(registry, config.DefaultConfig(), logger, false)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigid2d", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd, registry, args[0])
		},
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a column of every body against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "y", "column to plot (x, y, angle)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 0, "dynamic body index")
	analyzeCmd.Flags().StringVar(&column, "column", "y", "column to analyze (x, y, angle)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one recorded column against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state column for the x axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state column for the y axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes and their presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENE\tPRESETS")
			for _, name := range registry.List() {
				fmt.Fprintf(w, "%s\t%v\n", name, config.ListPresets(name))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg, err := config.GetPreset(args[0], p)
				if err != nil {
					return err
				}
				fmt.Printf("  %-10s dt=%.4f duration=%.1fs params=%v\n", p, cfg.Dt, cfg.Duration, cfg.Params)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the interactive lab",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := config.DefaultScene
			if len(args) > 0 {
				name = args[0]
			}
			cfg, err := resolveConfig(cmd, name)
			if err != nil {
				return err
			}
			if _, err := registry.Get(cfg.Scene); err != nil {
				return err
			}
			return tui.Run(registry, cfg, logger, true)
		},
	}
	sceneFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across time steps and broadphases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchScene(cmd, registry, args[0])
		},
	}
	sceneFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "run a scene with consecutive seeds in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsemble(cmd, registry, args[0])
		},
	}
	sceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRun, "runs", 8, "number of runs")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "render a scene at a given time as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshotScene(cmd, registry, args[0])
		},
	}
	sceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", 0, "simulated time to render")
	imageFlags(snapshotCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a recorded body path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&bodyIndex, "body", 0, "dynamic body index")
	imageFlags(exportSVGCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search scene parameters for the best metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sweepScene(cmd, registry, args[0])
		},
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringToStringVarP(&ranges, "range", "r", nil, "parameter range lo:hi:n, e.g. -r restitution=0:1:5")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml scenario of scene runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(registry, args[0])
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, exportJSONCmd, exportCSVCmd,
		scenesCmd, presetsCmd, liveCmd, benchCmd, ensembleCmd, snapshotCmd, exportSVGCmd, sweepCmd, scriptCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&subSteps, "sub-steps", world.DefaultMaxSubSteps, "max sub steps per frame")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "scene parameter, e.g. -p count=8")
	cmd.Flags().StringVar(&broadphase, "broadphase", "", "broadphase (sap, naive)")
	cmd.Flags().StringVar(&sleepMode, "sleep", "", "sleep mode (none, body, island)")
}

func imageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&imageWidth, "width", 800, "image width")
	cmd.Flags().IntVar(&imageHeight, "height", 600, "image height")
}

// resolveConfig layers defaults, preset, config file and flags, in that
// order.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(name, preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Scene = name

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("sub-steps") {
		cfg.MaxSubSteps = subSteps
	}
	if flags.Changed("broadphase") {
		cfg.World.Broadphase = broadphase
	}
	if flags.Changed("sleep") {
		cfg.World.SleepMode = sleepMode
	}
	if len(params) > 0 && cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	for k, v := range params {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", k, err)
		}
		cfg.Params[k] = f
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		MaxSubSteps:   cfg.MaxSubSteps,
		Seed:          cfg.Seed,
		ValidateState: true,
	}
}

func runScene(cmd *cobra.Command, registry *scene.Registry, name string) error {
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := registry.Build(cfg, logger)
	if err != nil {
		return err
	}

	s := sim.New()
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	if watch {
		r := tui.NewLiveRenderer(os.Stdout, name, frameRate)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, err := s.Run(ctx, w, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bodies: %d (recorded %d)\n", len(w.Bodies()), result.States[0].Bodies())
	for _, e := range result.Errors {
		logger.Warn("simulation error", "err", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tDURATION\tDT\tBODIES\tBROADPHASE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Broadphase,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 || len(states[0]) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s: no dynamic bodies recorded", runID)
	}
	return meta, states, times, nil
}

func columnIndex() (int, error) {
	c, ok := columns[column]
	if !ok {
		return 0, fmt.Errorf("unknown column %q (x, y, angle)", column)
	}
	return c, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	col, err := columnIndex()
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	const maxPlots = 6
	n := min(states[0].Bodies(), maxPlots)
	series := make([][]float64, n)
	for i := range series {
		series[i] = analysis.Series(states, 3*i+col)
	}
	caption := fmt.Sprintf("%s of bodies 0-%d vs time", column, n-1)
	fmt.Println(viz.PlotMany(series, caption, 80, 15))
	fmt.Println()
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	col, err := columnIndex()
	if err != nil {
		return err
	}
	if bodyIndex < 0 || bodyIndex >= states[0].Bodies() {
		return fmt.Errorf("body %d out of range (0-%d)", bodyIndex, states[0].Bodies()-1)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s  body: %d  column: %s\n\n", meta.Scene, bodyIndex, column)

	data := analysis.Series(states, 3*bodyIndex+col)
	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		ps = ps[1 : len(ps)/2]
	}
	fmt.Println(viz.Plot(ps, fmt.Sprintf("power spectrum (%s)", column), 80, 15))
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("spectral period: %.3f s\n", 1/freq)
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	if period, ok := analysis.Period(data, times, mean); ok {
		fmt.Printf("crossing period: %.3f s\n", period)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(states[0]) <= xAxis || len(states[0]) <= yAxis || xAxis < 0 || yAxis < 0 {
		return fmt.Errorf("state has %d columns, axes %d and %d out of range", len(states[0]), xAxis, yAxis)
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	header := storage.StateHeader(states[0].Bodies())
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", header[xAxis+1], header[yAxis+1])

	fmt.Print(analysis.PhasePortraitToASCII(analysis.Trajectory(states, xAxis, yAxis), 70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportRun(os.Stdout, args[0])
	}

	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := storage.ExportJSONFile(outFile, meta, states, times); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outFile)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(storage.StateHeader(states[0].Bodies())); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func benchScene(cmd *cobra.Command, registry *scene.Registry, name string) error {
	base, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}

	dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 120}
	broadphases := []string{"sap", "naive"}

	fmt.Printf("benchmarking %s (%.1fs simulated)\n\n", name, base.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BROADPHASE\tDT\tSTEPS\tCONTACTS\tTIME\tSTEPS/SEC")

	for _, bp := range broadphases {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Dt = step
			cfg.World.Broadphase = bp

			wld, err := registry.Build(cfg, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.New().Run(context.Background(), wld, simConfig(cfg))
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%d\t%v\t%.0f\n",
				bp, step, result.StepsTaken, result.Stats.Contacts, elapsed.Round(time.Microsecond), stepsPerSec)
		}
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, registry *scene.Registry, name string) error {
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	if ensembleRun <= 0 {
		return fmt.Errorf("runs must be positive, got %d", ensembleRun)
	}

	build := func(seed int64) (*world.World, error) {
		c := cfg.Clone()
		c.Seed = seed
		return registry.Build(c, logger)
	}
	e := sim.NewEnsemble(build, metrics.Default, ensembleRun, cfg.Seed)

	start := time.Now()
	results, err := e.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("%d runs of %s in %v\n\n", len(results), name, time.Since(start).Round(time.Millisecond))

	var names []string
	for n := range results[0].Metrics {
		names = append(names, n)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, n := range names {
		var sum, sumSq float64
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range results {
			v := r.Metrics[n]
			sum += v
			sumSq += v * v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		k := float64(len(results))
		mean := sum / k
		std := math.Sqrt(math.Max(sumSq/k-mean*mean, 0))
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", n, mean, std, lo, hi)
	}
	return w.Flush()
}

func snapshotScene(cmd *cobra.Command, registry *scene.Registry, name string) error {
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	w, err := registry.Build(cfg, logger)
	if err != nil {
		return err
	}
	for w.Time() < snapshotAt {
		if _, err := w.StepElapsed(cfg.Dt, cfg.Dt, cfg.MaxSubSteps); err != nil {
			return err
		}
	}
	return export.WriteFile(outFile, os.Stdout, export.WorldToSVG(w, imageWidth, imageHeight))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if bodyIndex < 0 || bodyIndex >= states[0].Bodies() {
		return fmt.Errorf("body %d out of range (0-%d)", bodyIndex, states[0].Bodies()-1)
	}
	path := analysis.Trajectory(states, 3*bodyIndex, 3*bodyIndex+1)
	svg := export.TrajectoryToSVG(path, imageWidth, imageHeight, "#00ffff")
	if svg == "" {
		return fmt.Errorf("run %s: body %d has too few samples", args[0], bodyIndex)
	}
	return export.WriteFile(outFile, os.Stdout, svg)
}

func sweepScene(cmd *cobra.Command, registry *scene.Registry, name string) error {
	base, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("no --range given")
	}

	names := make([]string, 0, len(ranges))
	for k := range ranges {
		names = append(names, k)
	}
	sort.Strings(names)
	values := make([][]float64, len(names))
	for i, k := range names {
		if values[i], err = optim.ParseRange(ranges[k]); err != nil {
			return fmt.Errorf("param %s: %w", k, err)
		}
	}

	g, err := optim.NewGridSearch(names, values)
	if err != nil {
		return err
	}
	sign := 1.0
	if maximize {
		sign = -1
	}
	eval := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = map[string]float64{}
		}
		for k, v := range p {
			cfg.Params[k] = v
		}
		w, err := registry.Build(cfg, logger)
		if err != nil {
			return nil, err
		}
		s := sim.New()
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, w, simConfig(cfg))
		if err != nil {
			return nil, err
		}
		if v, ok := result.Metrics[metricName]; ok {
			result.Metrics[metricName] = sign * v
		}
		return result, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %d points (%s)\n\n", name, g.Size(), metricName)
	best, val, points, err := g.Search(ctx, eval, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, p := range points {
		row := make([]string, len(names))
		for i, k := range names {
			row[i] = strconv.FormatFloat(p.Params[k], 'g', 6, 64)
		}
		cell := fmt.Sprintf("%.6f", sign*p.Value)
		if p.Err != nil {
			cell = "error: " + p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(row, "\t"), cell)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at %v\n", metricName, sign*val, best)
	return nil
}

func runScript(registry *scene.Registry, path string) error {
	scenario, err := automation.LoadScenario(path)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %s\n\n", scenario.Name, scenario.Description)
	r := &automation.Runner{Registry: registry, Store: st, Logger: logger}
	results, err := r.RunScenario(ctx, scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tRUN\tSTEPS\tENERGY_DRIFT")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.6f\n",
			res.Step, res.Scene, res.RunID, res.Result.StepsTaken, res.Result.Metrics["energy_drift"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}
