package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type ExportData struct {
	Run    *RunMetadata         `json:"run"`
	Ticks  []uint64             `json:"ticks"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Ticks: series.Ticks, Series: series.Columns})
}

// ExportCSV copies a run's series file to w unchanged.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.SeriesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
