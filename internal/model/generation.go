package model

import (
	"fmt"
	"strings"
	"time"
)

// GenerationRequest is a single website generation request.
type GenerationRequest struct {
	ID       string
	Prompt   string
	Attempt  int
	IssuedAt time.Time
}

// Validate checks the request can be submitted.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if r.Attempt < 1 {
		return fmt.Errorf("attempt must be >= 1: %w", ErrNotValid)
	}
	return nil
}

// GenerationStatus is the terminal status of a generation.
type GenerationStatus string

const (
	GenerationStatusSuccess   GenerationStatus = "success"
	GenerationStatusFailed    GenerationStatus = "failed"
	GenerationStatusCancelled GenerationStatus = "cancelled"
)

// Generation is the record of a finished generation request.
type Generation struct {
	ID         string
	Prompt     string
	Attempt    int
	Status     GenerationStatus
	Error      string
	Artifact   string
	CreatedAt  time.Time
	FinishedAt time.Time
}

// Validate validates the generation record.
func (g Generation) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	switch g.Status {
	case GenerationStatusSuccess:
		if g.Artifact == "" {
			return fmt.Errorf("successful generation requires an artifact: %w", ErrNotValid)
		}
	case GenerationStatusFailed, GenerationStatusCancelled:
	default:
		return fmt.Errorf("unknown status %q: %w", g.Status, ErrNotValid)
	}
	return nil
}

// Duration returns how long the generation took.
func (g Generation) Duration() time.Duration {
	if g.FinishedAt.Before(g.CreatedAt) {
		return 0
	}
	return g.FinishedAt.Sub(g.CreatedAt)
}
