package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/lifecycle"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/progress"
)

// ControllerOpts are the options of [Client.NewController].
type ControllerOpts struct {
	// Listener receives every state transition in order. It's called
	// synchronously, it must not call the controller from the same goroutine.
	Listener func(State)
	// ExportFilename is the filename used by [Controller.Export].
	ExportFilename string
	// OnPromptRequired is called when a submission is rejected for having no
	// prompt, so the caller can go back to the prompt input. Same calling rules as Listener.
	OnPromptRequired func()
	// Phases are the progress phase labels shown while loading.
	// Default: the five default generation phases.
	Phases []string
	// PhaseInterval is the time between progress phases. Default: 2s.
	PhaseInterval time.Duration
	// ActivityInterval is the activity indicator cadence. Default: 500ms.
	ActivityInterval time.Duration
}

// Controller drives a single website generation at a time and notifies every
// lifecycle transition: idle, loading (with the progress phase), success and error.
//
// Controllers are not recorded in the history, use [Client.Generate] for that.
type Controller struct {
	ctrl *lifecycle.Controller
}

// NewController creates a new lifecycle controller in the idle state. Call
// [Controller.Dispose] when done.
func (c *Client) NewController(opts ControllerOpts) (*Controller, error) {
	listener := func(model.State) {}
	if opts.Listener != nil {
		listener = func(st model.State) { opts.Listener(fromInternalState(st)) }
	}

	var phases model.PhaseTable
	if len(opts.Phases) > 0 {
		p, err := model.NewPhaseTable(opts.Phases...)
		if err != nil {
			return nil, mapError(fmt.Errorf("invalid phases: %w", err))
		}
		phases = p
	}

	sim, err := progress.NewSimulator(progress.SimulatorConfig{
		PhaseInterval:    opts.PhaseInterval,
		ActivityInterval: opts.ActivityInterval,
		Logger:           c.logger,
	})
	if err != nil {
		return nil, joinErrors(fmt.Errorf("could not create progress simulator: %w", err), ErrNotValid)
	}

	ctrl, err := lifecycle.NewController(lifecycle.ControllerConfig{
		Transport:        c.transport,
		Simulator:        sim,
		Phases:           phases,
		Exporter:         c.exporter,
		ExportFilename:   export.Filename(opts.ExportFilename),
		Timeout:          c.timeout,
		Listener:         listener,
		OnPromptRequired: opts.OnPromptRequired,
		Logger:           c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create controller: %w", err)
	}

	return &Controller{ctrl: ctrl}, nil
}

// State returns the current state.
func (c *Controller) State() State { return fromInternalState(c.ctrl.State()) }

// Submit starts a generation and returns immediately.
//
// Returns [ErrNotValid] on an empty prompt and [ErrBusy] if a generation is in flight.
func (c *Controller) Submit(ctx context.Context, prompt string) error {
	return mapError(c.ctrl.Submit(ctx, prompt))
}

// Retry submits again the last prompt, only valid after an error.
func (c *Controller) Retry(ctx context.Context) error {
	return mapError(c.ctrl.Retry(ctx))
}

// Cancel abandons the in-flight generation and goes back to idle.
func (c *Controller) Cancel() { c.ctrl.Cancel() }

// Export writes the generated website and returns where, only valid after a success.
func (c *Controller) Export(ctx context.Context) (string, error) {
	loc, err := c.ctrl.ExportArtifact(ctx)
	return loc, mapError(err)
}

// Dispose cancels the in-flight generation and waits for it to end.
func (c *Controller) Dispose() { c.ctrl.Dispose() }
