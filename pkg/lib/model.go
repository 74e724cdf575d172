package lib

import (
	"errors"
	"time"

	"github.com/slok/webgen/internal/app/generate"
	"github.com/slok/webgen/internal/model"
)

// TransportType identifies how generation requests reach the generator.
type TransportType string

const (
	// TransportAPI posts the prompts to the remote generation service.
	TransportAPI TransportType = "api"
	// TransportFake generates the websites in process, use it for testing.
	TransportFake TransportType = "fake"
)

var (
	// ErrNotFound is returned when a generation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned on invalid input or operations.
	ErrNotValid = errors.New("not valid")
	// ErrBusy is returned when a generation is submitted while another one is in flight.
	ErrBusy = errors.New("generation already in progress")
	// ErrGenerationFailed is returned when a generation ends in error.
	ErrGenerationFailed = errors.New("generation failed")
)

// GenerationStatus is the final status of a recorded generation.
type GenerationStatus string

const (
	GenerationStatusSuccess   GenerationStatus = "success"
	GenerationStatusFailed    GenerationStatus = "failed"
	GenerationStatusCancelled GenerationStatus = "cancelled"
)

// Generation is a finished generation request.
type Generation struct {
	// ID is the unique identifier (ULID) of the request.
	ID     string
	Prompt string
	// Attempt is 1 for the first submission and grows on every retry.
	Attempt int
	Status  GenerationStatus
	// Error is the user facing failure message, only on failed generations.
	Error string
	// Artifact is the generated HTML, only on successful generations.
	Artifact   string
	CreatedAt  time.Time
	FinishedAt time.Time
	// Location is where the website was exported, empty if it wasn't.
	Location string
}

// GenerateOpts are the options of [Client.Generate].
type GenerateOpts struct {
	// Export writes the website with the client exporter.
	Export bool
	// Filename of the exported website. Default: generated-website.html.
	Filename string
	// MaxRetries is the number of retries of a failed generation.
	MaxRetries int
}

// ListGenerationsOpts are the options of [Client.ListGenerations].
type ListGenerationsOpts struct {
	// Status filters by status, all when empty.
	Status GenerationStatus
	// Limit is the max number of generations, 0 means all.
	Limit int
}

// StateKind is the kind of a lifecycle state.
type StateKind string

const (
	StateKindIdle    StateKind = "idle"
	StateKindLoading StateKind = "loading"
	StateKindSuccess StateKind = "success"
	StateKindError   StateKind = "error"
)

// State is a snapshot of the generation lifecycle, see [Controller].
type State struct {
	Kind      StateKind
	RequestID string
	Prompt    string
	Attempt   int
	// Loading fields.
	PhaseIndex int
	Phase      string
	PhaseCount int
	Activity   string
	// Artifact is set on success.
	Artifact string
	// Message is set on error.
	Message string
}

func fromInternalState(s model.State) State {
	return State{
		Kind:       StateKind(s.Kind),
		RequestID:  s.RequestID,
		Prompt:     s.Prompt,
		Attempt:    s.Attempt,
		PhaseIndex: s.PhaseIndex,
		Phase:      s.Phase,
		PhaseCount: s.PhaseCount,
		Activity:   s.Activity,
		Artifact:   s.Artifact,
		Message:    s.Message,
	}
}

func fromInternalGeneration(g model.Generation) Generation {
	return Generation{
		ID:         g.ID,
		Prompt:     g.Prompt,
		Attempt:    g.Attempt,
		Status:     GenerationStatus(g.Status),
		Error:      g.Error,
		Artifact:   g.Artifact,
		CreatedAt:  g.CreatedAt,
		FinishedAt: g.FinishedAt,
	}
}

func fromInternalGenerationList(gs []model.Generation) []Generation {
	out := make([]Generation, 0, len(gs))
	for _, g := range gs {
		out = append(out, fromInternalGeneration(g))
	}
	return out
}

func toInternalStatusFilter(opts *ListGenerationsOpts) *model.GenerationStatus {
	if opts == nil || opts.Status == "" {
		return nil
	}
	s := model.GenerationStatus(opts.Status)
	return &s
}

// mapError maps internal errors to the public sentinel errors, keeping the
// original message and chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrBusy):
		return joinErrors(err, ErrBusy)
	case errors.Is(err, model.ErrNotValid), errors.Is(err, model.ErrEmptyPrompt),
		errors.Is(err, model.ErrNotRetryable), errors.Is(err, model.ErrNoArtifact),
		errors.Is(err, model.ErrDisposed):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, generate.ErrGenerationFailed):
		return joinErrors(err, ErrGenerationFailed)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
