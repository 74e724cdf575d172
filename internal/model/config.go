package model

import (
	"fmt"
	"time"
)

// GeneratorConfig is the file based configuration of the generator. Zero
// values mean the component default.
type GeneratorConfig struct {
	Endpoint         string
	ArtifactField    string
	Timeout          time.Duration
	Phases           []string
	PhaseInterval    time.Duration
	ActivityInterval time.Duration
	OutputDir        string
	OutputFile       string
}

// Validate validates the configuration.
func (c GeneratorConfig) Validate() error {
	if c.Timeout < 0 || c.PhaseInterval < 0 || c.ActivityInterval < 0 {
		return fmt.Errorf("durations can't be negative: %w", ErrNotValid)
	}
	if len(c.Phases) > 0 {
		if _, err := NewPhaseTable(c.Phases...); err != nil {
			return fmt.Errorf("invalid phases: %w", err)
		}
	}
	return nil
}
