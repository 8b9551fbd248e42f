package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/plife/internal/life"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Groups) != 4 {
		t.Errorf("expected 4 groups, got %d", len(cfg.Groups))
	}
	if cfg.Density != 600 {
		t.Errorf("expected density 600, got %d", cfg.Density)
	}
	if cfg.Physics.MinSeparation != 50 {
		t.Errorf("expected min separation 50, got %f", cfg.Physics.MinSeparation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLifeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runtime.Workers = 3

	lc, err := cfg.LifeConfig()
	if err != nil {
		t.Fatal(err)
	}

	want := []life.GroupSpec{
		{Name: "green", Color: color.RGBA{G: 255, A: 255}},
		{Name: "red", Color: color.RGBA{R: 255, A: 255}},
		{Name: "cyan", Color: color.RGBA{G: 255, B: 255, A: 255}},
		{Name: "blue", Color: color.RGBA{B: 255, A: 255}},
	}
	if diff := cmp.Diff(want, lc.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if lc.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", lc.Workers)
	}
	if lc.InitialTick != 1 {
		t.Errorf("expected initial tick 1, got %d", lc.InitialTick)
	}
	if lc.Bounds != (life.Bounds{Width: 2000, Height: 2000}) {
		t.Errorf("unexpected bounds %v", lc.Bounds)
	}
}

func TestGroupSpecsPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Groups = []GroupConfig{{Name: "a"}, {}, {Name: "c"}}

	specs, err := cfg.GroupSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if specs[1].Name != "group1" {
		t.Errorf("expected generated name, got %q", specs[1].Name)
	}
	for i := range specs {
		for j := i + 1; j < len(specs); j++ {
			if specs[i].Color == specs[j].Color {
				t.Errorf("groups %d and %d share colour %v", i, j, specs[i].Color)
			}
		}
	}
}

func TestGroupSpecsBadColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Groups[2].Color = "teal"

	err := cfg.Validate()
	if !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }, false},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }, false},
		{"no groups", func(c *Config) { c.Groups = nil }, false},
		{"friction one", func(c *Config) { c.Physics.Friction = 1 }, false},
		{"unknown boundary", func(c *Config) { c.World.Boundary = "sphere" }, false},
		{"unknown offsets", func(c *Config) { c.Physics.Offsets = "up" }, false},
		{"zero tick rate", func(c *Config) { c.Runtime.TickRate = 0 }, false},
		{"negative sample", func(c *Config) { c.Runtime.SampleEvery = -5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plife.yaml")
	cfg := GetPreset("swarm")
	cfg.Seed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("density: 42\nphysics:\n  friction: 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Density != 42 {
		t.Errorf("expected density 42, got %d", cfg.Density)
	}
	if cfg.Physics.Friction != 0.1 {
		t.Errorf("expected friction 0.1, got %f", cfg.Physics.Friction)
	}
	if cfg.Physics.MaxDistance != DefaultMaxDistance {
		t.Errorf("expected default max distance, got %f", cfg.Physics.MaxDistance)
	}
	if len(cfg.Groups) != 4 {
		t.Errorf("expected default groups, got %d", len(cfg.Groups))
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("density: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("legacy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.World.Boundary != string(life.BoundaryMirror) {
		t.Errorf("expected mirror boundary, got %s", cfg.World.Boundary)
	}

	cfg.Groups[0].Name = "mutated"
	if GetPreset("legacy").Groups[0].Name == "mutated" {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresetsSorted(t *testing.T) {
	want := []string{"dense", "legacy", "reference", "small", "swarm"}
	if diff := cmp.Diff(want, ListPresets()); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	for _, p := range Params() {
		if err := cfg.SetParam(p, 3); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
	if cfg.Physics.RoundRobin != 3 || cfg.Density != 3 {
		t.Error("integer parameters not assigned")
	}
	if err := cfg.SetParam("gravity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestParamRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	for i, p := range Params() {
		v := float64(i + 2)
		if err := cfg.SetParam(p, v); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		got, err := cfg.Param(p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if got != v {
			t.Errorf("%s: got %v, want %v", p, got, v)
		}
	}
	if _, err := cfg.Param("gravity"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
