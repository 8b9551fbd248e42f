package life

import (
	"errors"
	"fmt"
)

// Domain errors for world construction.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("life: invalid configuration")

	// ErrNoGroups indicates a configuration without any particle group.
	ErrNoGroups = errors.New("life: at least one group is required")

	// ErrRelationSize indicates a relation table whose length is not groupCount².
	ErrRelationSize = errors.New("life: relation table size does not match group count")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field   string
	Reason  string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Wrapped, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...), Wrapped: ErrInvalidConfig}
}
