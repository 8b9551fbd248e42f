package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/experiment"
	"github.com/san-kum/plife/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile string
	presetName string
	seed       int64
	ticks      int
	density    int
	friction   float64
	boundary   string
	workers    int
	tickRate   float64
	relations  string
	sets       []string
	metricList []string
)

// main registers every command and runs the interactive TUI when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:           "plife",
		Short:         "particle life simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".plife", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default kinetic,speed,cohesion)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeGroups.Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)
	guiCmd.Flags().IntVar(&winWidth, "width", 1000, "maximum window width")
	guiCmd.Flags().IntVar(&winHeight, "height", 1000, "maximum window height")
	guiCmd.Flags().BoolVar(&hideHUD, "no-hud", false, "draw particles only")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "print a density map of the running world",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addConfigFlags(watchCmd)
	watchCmd.Flags().IntVar(&gridW, "cols", 72, "map columns")
	watchCmd.Flags().IntVar(&gridH, "rows", 24, "map rows")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "stop after this long (0 runs until interrupted)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write one SVG chart per metric into this directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and divergence analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "kinetic", "series to analyse")
	analyzeCmd.Flags().Float64Var(&divergenceEps, "eps", 0, "perturbation for divergence (0 skips it)")
	analyzeCmd.Flags().IntVar(&divergenceTicks, "divergence-ticks", 200, "ticks to follow the perturbed twin")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and draw the final world as SVG",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	addConfigFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 0.5, "pixels per world unit")
	snapshotCmd.Flags().BoolVar(&asciiOut, "ascii", false, "print a density map instead of SVG")
	snapshotCmd.Flags().IntVar(&gridW, "cols", 72, "density map columns")
	snapshotCmd.Flags().IntVar(&gridH, "rows", 24, "density map rows")

	relationsCmd := &cobra.Command{
		Use:   "relations",
		Short: "print or save the relation table a config draws",
		Args:  cobra.NoArgs,
		RunE:  showRelations,
	}
	addConfigFlags(relationsCmd)
	relationsCmd.Flags().StringVarP(&outPath, "out", "o", "", "save the table as yaml")
	relationsCmd.Flags().StringVar(&fromRun, "run", "", "show the table stored with a run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a config file to edit",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&presetName, "preset", "", "start from a preset instead of the defaults")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report final metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepPreset, "preset", "reference", "preset to sweep")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "friction", "parameter ("+strings.Join(config.Params(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 300, "ticks per run")
	sweepCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	sweepCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to report")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter range, name=lo:hi:n (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "cohesion", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many seeds concurrently and summarise the metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent worlds (0 uses every CPU)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput across worker counts",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addConfigFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, watchCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, snapshotCmd, relationsCmd, presetsCmd, configCmd,
		sweepCmd, tuneCmd, scenarioCmd, ensembleCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "plife",
		ReportTimestamp: true,
	})
	return nil
}

func addConfigFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&configFile, "config", "", "config file path (yaml)")
	fl.StringVar(&presetName, "preset", "", "use preset configuration")
	fl.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	fl.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	fl.IntVar(&density, "density", config.DefaultDensity, "particles per group")
	fl.Float64Var(&friction, "friction", config.DefaultFriction, "velocity damping per tick")
	fl.StringVar(&boundary, "boundary", "wrap", "boundary policy (wrap, clamp, mirror)")
	fl.IntVar(&workers, "workers", 0, "force workers (0 uses every CPU)")
	fl.Float64Var(&tickRate, "tick-rate", config.DefaultTickRate, "ticks per second for live views")
	fl.StringVar(&relations, "relations", "", "relation table yaml replacing the drawn one")
	fl.StringArrayVar(&sets, "set", nil, "override a parameter, name=value (repeatable)")
}

// resolveConfig builds the run config: defaults, then preset, then config
// file, then any flag the user set. It also returns a name for stored runs.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, name := config.DefaultConfig(), "default"
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		name = presetName
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	fl := cmd.Flags()
	if fl.Changed("seed") {
		cfg.Seed = seed
	}
	if fl.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if fl.Changed("density") {
		cfg.Density = density
	}
	if fl.Changed("friction") {
		cfg.Physics.Friction = friction
	}
	if fl.Changed("boundary") {
		cfg.World.Boundary = boundary
	}
	if fl.Changed("workers") {
		cfg.Runtime.Workers = workers
	}
	if fl.Changed("tick-rate") {
		cfg.Runtime.TickRate = tickRate
	}
	if fl.Changed("relations") {
		cfg.RelationsFile = relations
	}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, "", fmt.Errorf("--set %q: want name=value", s)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "", fmt.Errorf("--set %s: %w", k, err)
		}
		if err := cfg.SetParam(k, f); err != nil {
			return nil, "", err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func newExperiment(cmd *cobra.Command) (*experiment.Experiment, string, error) {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, "", err
	}
	exp.SetLogger(logger)
	return exp, name, nil
}

// signalContext is cancelled on interrupt so long runs stop between ticks.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
