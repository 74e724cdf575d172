package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/webgen/internal/model"
)

// JSONPrinter prints generation information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

var _ Printer = (*JSONPrinter)(nil)

// listItem represents a generation in the list output, the artifact is left out.
type listItem struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Prompt     string    `json:"prompt"`
	Attempt    int       `json:"attempt"`
	SizeBytes  int       `json:"size_bytes"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// generationOutput represents the full generation output.
type generationOutput struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Prompt     string    `json:"prompt"`
	Attempt    int       `json:"attempt"`
	Error      string    `json:"error,omitempty"`
	SizeBytes  int       `json:"size_bytes"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at"`
	Location   string    `json:"location,omitempty"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintGenerations prints generations in JSON format with a subset of fields.
func (j *JSONPrinter) PrintGenerations(gens []model.Generation) error {
	items := make([]listItem, len(gens))
	for i, g := range gens {
		items[i] = listItem{
			ID:         g.ID,
			Status:     string(g.Status),
			Prompt:     g.Prompt,
			Attempt:    g.Attempt,
			SizeBytes:  len(g.Artifact),
			DurationMS: g.Duration().Milliseconds(),
			CreatedAt:  g.CreatedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintGeneration prints detailed generation information in JSON format.
func (j *JSONPrinter) PrintGeneration(g model.Generation, location string) error {
	return j.encode(generationOutput{
		ID:         g.ID,
		Status:     string(g.Status),
		Prompt:     g.Prompt,
		Attempt:    g.Attempt,
		Error:      g.Error,
		SizeBytes:  len(g.Artifact),
		DurationMS: g.Duration().Milliseconds(),
		CreatedAt:  g.CreatedAt.UTC(),
		FinishedAt: g.FinishedAt.UTC(),
		Location:   location,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
