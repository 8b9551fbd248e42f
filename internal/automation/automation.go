package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/experiment"
	"github.com/san-kum/plife/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a preset plus numeric overrides.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Seed      int64              `yaml:"seed"`
	Ticks     int                `yaml:"ticks"`
	Overrides map[string]float64 `yaml:"overrides"`
	Metrics   []string           `yaml:"metrics"`
	SaveAs    string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves a step to a full configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "reference"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	for k, v := range s.Overrides {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StepResult pairs a step's resolved configuration with its outcome.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes all steps in order, stopping at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "n", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := runOne(ctx, cfg, registry, step.Metrics)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config, registry *experiment.Registry, names []string) (*sim.Result, error) {
	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}

	metrics := registry.DefaultMetrics()
	if len(names) > 0 {
		if metrics, err = registry.GetMetrics(names); err != nil {
			return nil, err
		}
	}
	exp.Setup(metrics)

	return exp.Run(ctx)
}

// ParameterSweep runs one preset across evenly spaced values of a single
// numeric parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int
	Seed      int64
	Metrics   []string
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	StepsTaken int
}

func (s *ParameterSweep) values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep uses the same seed for every value so that only the swept
// parameter differs between runs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", sweep.Preset)
	}
	if sweep.Ticks > 0 {
		base.Ticks = sweep.Ticks
	}
	if sweep.Seed != 0 {
		base.Seed = sweep.Seed
	}

	values := sweep.values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.ParamName, v); err != nil {
			return nil, err
		}

		result, err := runOne(ctx, cfg, registry, sweep.Metrics)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}

		results = append(results, SweepResult{
			ParamValue: v,
			Metrics:    result.Metrics,
			StepsTaken: result.StepsTaken,
		})

		logger.Info("sweep", "n", i+1, "of", len(values), sweep.ParamName, v)
	}

	return results, nil
}
