package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/plife/internal/life"
)

// RelationFile is the on-disk form of a relation table: one row per source
// group, so a hand-edited file reads like the matrix it encodes.
type RelationFile struct {
	Groups []string               `yaml:"groups"`
	Matrix [][]life.RelationEntry `yaml:"matrix"`
}

func NewRelationFile(groups []string, rel life.Relations) *RelationFile {
	n := len(groups)
	f := &RelationFile{Groups: groups, Matrix: make([][]life.RelationEntry, n)}
	for i := range n {
		f.Matrix[i] = append([]life.RelationEntry(nil), rel[i*n:(i+1)*n]...)
	}
	return f
}

// Table flattens the matrix into row-major order, rejecting ragged rows.
func (f *RelationFile) Table() (life.Relations, error) {
	n := len(f.Matrix)
	rel := make(life.Relations, 0, n*n)
	for i, row := range f.Matrix {
		if len(row) != n {
			return nil, &life.ConfigError{
				Field:   fmt.Sprintf("matrix[%d]", i),
				Reason:  fmt.Sprintf("has %d entries, want %d", len(row), n),
				Wrapped: life.ErrRelationSize,
			}
		}
		rel = append(rel, row...)
	}
	return rel, nil
}

func SaveRelations(path string, groups []string, rel life.Relations) error {
	if err := rel.Validate(len(groups)); err != nil {
		return err
	}
	data, err := yaml.Marshal(NewRelationFile(groups, rel))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadRelations(path string) (*RelationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f RelationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}
