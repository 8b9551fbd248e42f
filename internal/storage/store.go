package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/life"
	"github.com/san-kum/plife/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	seriesFile    = "series.csv"
	relationsFile = "relations.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Ticks      int                `json:"ticks"`
	StepsTaken int                `json:"steps_taken"`
	Particles  int                `json:"particles"`
	ElapsedMS  int64              `json:"elapsed_ms"`
	Config     *config.Config     `json:"config"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory with metadata, the sampled metric series and,
// when rel is non-nil, the relation table the run used.
func (s *Store) Save(preset string, cfg *config.Config, result *sim.Result, rel life.Relations) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(preset, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     preset,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Ticks:      cfg.Ticks,
		StepsTaken: result.StepsTaken,
		Particles:  result.Final.Len(),
		ElapsedMS:  result.Elapsed.Milliseconds(),
		Config:     cfg,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}

	if rel != nil {
		names := make([]string, len(result.Final.Groups))
		for i, g := range result.Final.Groups {
			names[i] = g.Name
		}
		if err := SaveRelations(filepath.Join(runDir, relationsFile), names, rel); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) newRunDir(preset string, now time.Time) (string, string, error) {
	if preset == "" {
		preset = "custom"
	}
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%s", preset, now.Format("20060102-150405"))
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	slices.Sort(names)

	if err := w.Write(append([]string{"tick"}, names...)); err != nil {
		return err
	}

	for i, tick := range result.Ticks {
		row := []string{strconv.FormatUint(tick, 10)}
		for _, name := range names {
			val := 0.0
			if vals := result.Series[name]; i < len(vals) {
				val = vals[i]
			}
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Series is a run's sampled metrics, column-major.
type Series struct {
	Ticks   []uint64
	Names   []string
	Columns map[string][]float64
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &Series{Columns: make(map[string][]float64)}
	if len(records) == 0 {
		return out, nil
	}

	out.Names = append(out.Names, records[0][1:]...)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		out.Ticks = append(out.Ticks, tick)

		for j, name := range out.Names {
			val := 0.0
			if j+1 < len(record) {
				if v, err := strconv.ParseFloat(record[j+1], 64); err == nil {
					val = v
				}
			}
			out.Columns[name] = append(out.Columns[name], val)
		}
	}

	return out, nil
}

// SeriesPath is the on-disk csv of a run, for verbatim export.
func (s *Store) SeriesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, seriesFile)
}

func (s *Store) LoadRunRelations(runID string) (*RelationFile, error) {
	return LoadRelations(filepath.Join(s.baseDir, runID, relationsFile))
}
