package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/plife/internal/analysis"
	"github.com/san-kum/plife/internal/automation"
	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/experiment"
	"github.com/san-kum/plife/internal/export"
	"github.com/san-kum/plife/internal/gui"
	"github.com/san-kum/plife/internal/life"
	"github.com/san-kum/plife/internal/sim"
	"github.com/san-kum/plife/internal/storage"
	"github.com/san-kum/plife/internal/viz"
)

var (
	themeName           string
	winWidth, winHeight int
	hideHUD             bool
	gridW, gridH        int
	watchFor            time.Duration
	outPath             string
	svgScale            float64
	asciiOut            bool
	fromRun             string
	sweepParam          string
	sweepMin, sweepMax  float64
	sweepSteps          int
	sweepTicks          int
	sweepPreset         string
	numRuns, parallel   int
)

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, name, err := newExperiment(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	metrics := registry.DefaultMetrics()
	if len(metricList) > 0 {
		if metrics, err = registry.GetMetrics(metricList); err != nil {
			return err
		}
	}
	exp.Setup(metrics)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	cfg := exp.Config()
	logger.Info("running", "config", name, "seed", cfg.Seed, "ticks", cfg.Ticks,
		"particles", exp.World().Store().Len())

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	runID, err := st.Save(name, cfg, result, exp.World().Relations())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f ticks/s)\n", result.Elapsed.Round(time.Millisecond), result.TicksPerSecond())
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for _, m := range metrics {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(themeName)
	return viz.RunLive(exp.World())
}

func runGUI(cmd *cobra.Command, args []string) error {
	exp, name, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	opts := gui.DefaultOptions()
	opts.MaxWidth, opts.MaxHeight = winWidth, winHeight
	opts.HideHUD = hideHUD
	opts.Title = "plife :: " + name
	gui.Run(exp.World(), opts)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	w := exp.World()

	ctx, cancel := signalContext()
	defer cancel()
	if watchFor > 0 {
		ctx, cancel = context.WithTimeout(ctx, watchFor)
		defer cancel()
	}

	pacer := sim.NewPacer(w.Config().TickRate)
	err = sim.RunRealtime(ctx, w, pacer, func(s *life.Snapshot) {
		fmt.Print("\033[H\033[2J")
		fmt.Printf("tick %d  particles %d\n", s.Tick, s.Len())
		fmt.Print(analysis.DensityASCII(s, gridW, gridH))
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	exp, _, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	var out string
	if asciiOut {
		out = analysis.DensityASCII(&result.Final, gridW, gridH)
	} else {
		out = export.SnapshotToSVG(&result.Final, svgScale, exp.Config().World.ParticleSize)
	}
	if outPath == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", outPath, "tick", result.Final.Tick)
	return nil
}

func showRelations(cmd *cobra.Command, args []string) error {
	var (
		names []string
		rel   life.Relations
	)
	if fromRun != "" {
		rf, err := storage.New(dataDir).LoadRunRelations(fromRun)
		if err != nil {
			return err
		}
		if rel, err = rf.Table(); err != nil {
			return err
		}
		names = rf.Groups
	} else {
		exp, _, err := newExperiment(cmd)
		if err != nil {
			return err
		}
		rel = exp.World().Relations()
		for _, g := range exp.World().Snapshot().Groups {
			names = append(names, g.Name)
		}
	}

	if outPath != "" {
		if err := storage.SaveRelations(outPath, names, rel); err != nil {
			return err
		}
		logger.Info("relations written", "path", outPath, "groups", len(names))
		return nil
	}

	n := rel.GroupCount()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ON \\ BY")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for i := range n {
		fmt.Fprint(w, names[i])
		for j := range n {
			e := rel.At(n, i, j)
			fmt.Fprintf(w, "\t%+d g%.2f d%.0f", e.Sign, e.Gravity, e.MaxDistance)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGROUPS\tDENSITY\tWORLD\tBOUNDARY\tFRICTION\tMAX_DIST")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0fx%.0f\t%s\t%.2f\t%.0f\n",
			name, len(p.Groups), p.Density, p.World.Width, p.World.Height,
			p.World.Boundary, p.Physics.Friction, p.Physics.MaxDistance)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if presetName != "" {
		if cfg = config.GetPreset(presetName); cfg == nil {
			return fmt.Errorf("unknown preset: %s", presetName)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Preset:    sweepPreset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Ticks:     sweepTicks,
		Seed:      seed,
		Metrics:   metricList,
	}
	registry := experiment.NewRegistry()
	results, err := automation.RunSweep(ctx, sweep, registry, logger)
	if err != nil {
		return err
	}

	names := metricList
	if len(names) == 0 {
		for _, m := range registry.DefaultMetrics() {
			names = append(names, m.Name())
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, sweepParam)
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g", r.ParamValue)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
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

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), logger)
	for _, r := range results {
		name := r.Step.SaveAs
		if name == "" {
			name = r.Step.Preset
		}
		runID, serr := st.Save(name, r.Config, r.Result, nil)
		if serr != nil {
			return serr
		}
		fmt.Printf("%s: %d ticks, run id %s\n", name, r.Result.StepsTaken, runID)
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	lc, err := cfg.LifeConfig()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ens := sim.NewEnsemble(lc, registry.DefaultMetrics, numRuns, cfg.Seed)
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	ens.SetWorkers(parallel)
	ens.SetLogger(logger)

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("ensemble", "config", name, "runs", numRuns, "ticks", cfg.Ticks)
	results, err := ens.Run(ctx, sim.Config{Ticks: cfg.Ticks, SampleEvery: cfg.Runtime.SampleEvery})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, m := range registry.DefaultMetrics() {
		s := sim.Summarize(results, m.Name())
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", s.Name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("ticks") {
		cfg.Ticks = 60
	}
	lc, err := cfg.LifeConfig()
	if err != nil {
		return err
	}

	counts := []int{1, 2, 4, runtime.NumCPU()}
	fmt.Printf("benchmarking %d particles over %d ticks\n\n", lc.Density*len(lc.Groups), cfg.Ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tBACKEND\tTIME\tTICKS/SEC")

	seen := map[int]bool{}
	for _, n := range counts {
		if seen[n] {
			continue
		}
		seen[n] = true
		lc.Workers = n
		world, err := life.New(lc, cfg.Seed)
		if err != nil {
			return err
		}
		start := time.Now()
		for range cfg.Ticks {
			world.Step()
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%s\t%v\t%.1f\n", n, world.Backend().Name(),
			elapsed.Round(time.Millisecond), float64(cfg.Ticks)/elapsed.Seconds())
	}
	return w.Flush()
}
