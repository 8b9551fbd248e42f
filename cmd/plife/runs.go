package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/plife/internal/analysis"
	"github.com/san-kum/plife/internal/export"
	"github.com/san-kum/plife/internal/storage"
)

var (
	svgDir          string
	analyzeMetric   string
	divergenceEps   float64
	divergenceTicks int
)

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tTICKS\tPARTICLES\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.StepsTaken,
			run.Particles,
			time.Duration(run.ElapsedMS)*time.Millisecond,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Ticks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(series.Ticks))

	if svgDir != "" {
		if err := os.MkdirAll(svgDir, 0755); err != nil {
			return err
		}
	}

	for _, name := range series.Names {
		data := series.Columns[name]
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs tick"),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgDir != "" {
			path := filepath.Join(svgDir, runID+"_"+name+".svg")
			svg := export.SeriesToSVG(series.Ticks, data, 800, 300, "#00ccff")
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			logger.Info("chart written", "path", path)
		}
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data, ok := series.Columns[analyzeMetric]
	if !ok || len(data) < 2 {
		return fmt.Errorf("run %s has no %q series (have %v)", runID, analyzeMetric, series.Names)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("metric: %s\n\n", analyzeMetric)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+analyzeMetric+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	sampleEvery := 1
	if meta.Config != nil && meta.Config.Runtime.SampleEvery > 0 {
		sampleEvery = meta.Config.Runtime.SampleEvery
	}
	if period, ok := analysis.DominantPeriod(data, sampleEvery); ok {
		fmt.Printf("dominant period: %.1f ticks\n", period)
		if meta.Config != nil && meta.Config.Runtime.TickRate > 0 {
			fmt.Printf("                 %.2f s at %.0f ticks/s\n", period/meta.Config.Runtime.TickRate, meta.Config.Runtime.TickRate)
		}
	} else {
		fmt.Println("no dominant period")
	}

	if divergenceEps <= 0 || meta.Config == nil {
		return nil
	}

	lc, err := meta.Config.LifeConfig()
	if err != nil {
		return err
	}
	rf, err := st.LoadRunRelations(runID)
	if err != nil {
		return fmt.Errorf("divergence needs the run's relations: %w", err)
	}
	rel, err := rf.Table()
	if err != nil {
		return err
	}

	sep, err := analysis.Divergence(lc, rel, meta.Seed, divergenceEps, divergenceTicks)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(sep,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("rms separation, eps %.2g", divergenceEps)),
	))
	fmt.Printf("\nlyapunov estimate: %.4f per tick\n", analysis.LyapunovEstimate(sep, divergenceEps))
	return nil
}
