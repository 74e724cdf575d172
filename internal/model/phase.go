package model

import (
	"fmt"
	"strings"
)

// DefaultPhaseLabels are the progress labels shown while a website is being generated.
var DefaultPhaseLabels = []string{
	"Analyzing prompt",
	"Generating HTML structure",
	"Creating styles",
	"Optimizing layout",
	"Finalizing website",
}

// PhaseTable is an ordered, read-only list of progress phase labels.
type PhaseTable struct {
	labels []string
}

// NewPhaseTable returns a phase table with a copy of the labels.
func NewPhaseTable(labels ...string) (PhaseTable, error) {
	if len(labels) == 0 {
		return PhaseTable{}, fmt.Errorf("at least one phase is required: %w", ErrNotValid)
	}

	l := make([]string, 0, len(labels))
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return PhaseTable{}, fmt.Errorf("phase %d label is empty: %w", i, ErrNotValid)
		}
		l = append(l, label)
	}

	return PhaseTable{labels: l}, nil
}

// DefaultPhaseTable returns the phase table with the default labels.
func DefaultPhaseTable() PhaseTable {
	pt, _ := NewPhaseTable(DefaultPhaseLabels...)
	return pt
}

// Len returns the number of phases.
func (p PhaseTable) Len() int { return len(p.labels) }

// Last returns the index of the last phase.
func (p PhaseTable) Last() int { return len(p.labels) - 1 }

// Label returns the label of a phase, indexes out of range are clamped.
func (p PhaseTable) Label(i int) string {
	if len(p.labels) == 0 {
		return ""
	}
	return p.labels[p.Clamp(i)]
}

// Clamp returns the index clamped to the phase table bounds.
func (p PhaseTable) Clamp(i int) int {
	switch {
	case i < 0:
		return 0
	case i > p.Last():
		return p.Last()
	default:
		return i
	}
}

// Labels returns a copy of the labels.
func (p PhaseTable) Labels() []string {
	return append([]string(nil), p.labels...)
}
