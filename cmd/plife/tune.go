package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/plife/internal/experiment"
	"github.com/san-kum/plife/internal/optim"
)

var (
	gridSpecs  []string
	tuneMetric string
	maximize   bool
)

// parseGrid reads name=lo:hi:n into a parameter name and its values.
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("--grid %q: want name=lo:hi:n", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("--grid %q: want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("--grid %s: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("--grid %s: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, fmt.Errorf("--grid %s: %w", name, err)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	var (
		names  []string
		ranges [][]float64
	)
	for _, spec := range gridSpecs {
		n, vals, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, vals)
	}

	goal := optim.Minimize
	if maximize {
		goal = optim.Maximize
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("tuning", "config", name, "params", names, "metric", tuneMetric)
	best, trials, err := optim.NewGridSearch(names, ranges, goal).Search(ctx, cfg, experiment.NewRegistry(), tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t")+"\t"+tuneMetric)
	for _, t := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%.4g\t", t.Params[n])
		}
		fmt.Fprintf(w, "%.6f\n", t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at", tuneMetric, best.Value)
	for _, n := range names {
		fmt.Printf(" %s=%.4g", n, best.Params[n])
	}
	fmt.Println()
	return nil
}
