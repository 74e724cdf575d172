package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/metrics"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/progress"
	"github.com/slok/webgen/internal/transport"
)

// ErrorMessagePrefix is the prefix of every error state message.
const ErrorMessagePrefix = "Failed to generate website: "

// ProgressSimulator starts the simulated progress of a request.
type ProgressSimulator interface {
	Start(phases model.PhaseTable, onPhase func(index int), onActivity func(indicator string)) (stop func())
}

// ControllerConfig is the configuration for the lifecycle controller.
type ControllerConfig struct {
	Transport transport.Transport
	// Simulator defaults to a progress.Simulator with the default intervals.
	Simulator ProgressSimulator
	// Phases defaults to the default phase table.
	Phases model.PhaseTable
	// Exporter is used by ExportArtifact, optional.
	Exporter export.Exporter
	// ExportFilename defaults to export.DefaultFilename.
	ExportFilename string
	// Timeout of each request, 0 means no timeout.
	Timeout time.Duration
	// Listener receives every state transition in order. It's called with the
	// controller lock held so it must not call the controller synchronously.
	Listener func(model.State)
	// OnPromptRequired is called when a submission is rejected because it has
	// no prompt, so the caller can go back to prompt collection. Same calling
	// rules as Listener.
	OnPromptRequired func()
	Metrics          metrics.Recorder
	Logger           log.Logger
}

func (c *ControllerConfig) defaults() error {
	if c.Transport == nil {
		return fmt.Errorf("transport is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "lifecycle.Controller"})
	if c.Phases.Len() == 0 {
		c.Phases = model.DefaultPhaseTable()
	}
	if c.Simulator == nil {
		s, err := progress.NewSimulator(progress.SimulatorConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create progress simulator: %w", err)
		}
		c.Simulator = s
	}
	if c.ExportFilename == "" {
		c.ExportFilename = export.DefaultFilename
	}
	if c.Listener == nil {
		c.Listener = func(model.State) {}
	}
	if c.OnPromptRequired == nil {
		c.OnPromptRequired = func() {}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop
	}
	return nil
}

// Controller is the website generation lifecycle state machine. It owns the
// lifecycle state and the handles of the in-flight request (transport
// cancellation and progress simulation), and mediates every transition
// between Idle, Loading, Success and Error.
//
// A Controller handles a single request at a time and is safe for concurrent use.
type Controller struct {
	transport        transport.Transport
	simulator        ProgressSimulator
	phases           model.PhaseTable
	exporter         export.Exporter
	exportFilename   string
	timeout          time.Duration
	listener         func(model.State)
	onPromptRequired func()
	metrics          metrics.Recorder
	logger           log.Logger

	mu       sync.Mutex
	state    model.State
	run      *run
	last     *model.GenerationRequest
	disposed bool
	inflight sync.WaitGroup
}

// run holds the handles of the in-flight request. A run is current while it
// is the controller run, results of a run that is no longer current are discarded.
type run struct {
	req          model.GenerationRequest
	parent       context.Context
	cancel       context.CancelFunc
	stopProgress func()
}

// NewController creates a new lifecycle controller in the idle state.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Controller{
		transport:        cfg.Transport,
		simulator:        cfg.Simulator,
		phases:           cfg.Phases,
		exporter:         cfg.Exporter,
		exportFilename:   cfg.ExportFilename,
		timeout:          cfg.Timeout,
		listener:         cfg.Listener,
		onPromptRequired: cfg.OnPromptRequired,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		state:            model.IdleState(),
	}, nil
}

// State returns the current state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts the generation of a website for the prompt and returns
// immediately, the outcome is notified as state transitions. An empty prompt
// is rejected with model.ErrEmptyPrompt without leaving the current state.
func (c *Controller) Submit(ctx context.Context, prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submit(ctx, prompt, 1)
}

// Retry submits again the prompt of the last request. Only valid in the error state.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return model.ErrDisposed
	}
	if c.state.Kind != model.StateKindError || c.last == nil {
		return fmt.Errorf("could not retry from %s state: %w", c.state.Kind, model.ErrNotRetryable)
	}

	c.logger.Infof("Retrying generation %s", c.last.ID)
	c.setState(model.IdleState())
	return c.submit(ctx, c.last.Prompt, c.last.Attempt+1)
}

// Cancel abandons the in-flight request, if any, and goes back to idle. The
// cancelled request result is discarded. Without a request in flight it's a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
}

// Dispose cancels the in-flight request and waits until its transport call
// has returned. A disposed controller can't be used anymore.
func (c *Controller) Dispose() {
	c.mu.Lock()
	c.cancel()
	c.disposed = true
	c.mu.Unlock()

	c.inflight.Wait()
}

// ExportArtifact exports the artifact of the success state. Export is best
// effort: a failure is returned but never changes the lifecycle state.
func (c *Controller) ExportArtifact(ctx context.Context) (string, error) {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()

	if st.Kind != model.StateKindSuccess {
		return "", fmt.Errorf("could not export from %s state: %w", st.Kind, model.ErrNoArtifact)
	}
	if c.exporter == nil {
		return "", fmt.Errorf("exporter is not configured: %w", model.ErrNotValid)
	}

	location, err := c.exporter.Export(ctx, st.Artifact, c.exportFilename)
	c.metrics.ObserveExport(err == nil)
	if err != nil {
		c.logger.Warningf("Could not export generation %s: %s", st.RequestID, err)
		return "", fmt.Errorf("could not export artifact: %w", err)
	}

	return location, nil
}

func (c *Controller) submit(ctx context.Context, prompt string, attempt int) error {
	if c.disposed {
		return model.ErrDisposed
	}

	req := model.GenerationRequest{
		ID:       ulid.Make().String(),
		Prompt:   prompt,
		Attempt:  attempt,
		IssuedAt: time.Now().UTC(),
	}
	if err := req.Validate(); err != nil {
		if errors.Is(err, model.ErrEmptyPrompt) {
			c.logger.Debugf("Empty prompt, a prompt is required")
			c.onPromptRequired()
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	if c.run != nil {
		return fmt.Errorf("request %s is in flight: %w", c.run.req.ID, model.ErrBusy)
	}

	var runCtx context.Context
	var cancel context.CancelFunc
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	r := &run{req: req, parent: ctx, cancel: cancel}
	c.run = r
	c.last = &req
	c.setState(model.LoadingState(req, c.phases))

	r.stopProgress = c.simulator.Start(c.phases,
		func(index int) { c.handlePhase(r, index) },
		func(indicator string) { c.handleActivity(r, indicator) },
	)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		artifact, err := c.callTransport(runCtx, req)
		c.resolve(r, runCtx, artifact, err)
	}()

	c.logger.WithValues(log.Kv{"request-id": req.ID, "attempt": req.Attempt}).Infof("Generation submitted")
	return nil
}

func (c *Controller) callTransport(ctx context.Context, req model.GenerationRequest) (artifact string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panicked: %v", r)
		}
	}()

	return c.transport.Submit(ctx, req)
}

func (c *Controller) resolve(r *run, ctx context.Context, artifact string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != r {
		c.logger.Debugf("Discarding result of abandoned generation %s", r.req.ID)
		r.cancel()
		return
	}

	if err == nil && artifact == "" {
		err = transport.ErrMalformedResponse
	}
	switch {
	case err != nil && r.parent.Err() != nil:
		// The caller context ended, timeout only applies to the request own deadline.
		err = transport.ErrCancelled
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		err = transport.ContextError(ctx, err)
	}

	logger := c.logger.WithValues(log.Kv{"request-id": r.req.ID, "attempt": r.req.Attempt})
	duration := time.Since(r.req.IssuedAt)

	// Progress is stopped before landing on any terminal state.
	c.finish(r)

	switch {
	case err == nil:
		c.metrics.ObserveGeneration(metrics.OutcomeSuccess, r.req.Attempt, duration)
		logger.Infof("Website generated in %s", duration)
		c.setState(model.SuccessState(r.req, artifact))

	case errors.Is(err, transport.ErrCancelled):
		// Cancelled from the caller context, not by Cancel (that one detaches the run).
		c.metrics.ObserveGeneration(metrics.OutcomeCancelled, r.req.Attempt, duration)
		logger.Debugf("Generation cancelled")
		c.setState(model.IdleState())

	default:
		outcome := metrics.OutcomeError
		if errors.Is(err, transport.ErrTimeout) {
			outcome = metrics.OutcomeTimeout
		}
		c.metrics.ObserveGeneration(outcome, r.req.Attempt, duration)
		logger.Warningf("Generation failed: %s", err)
		c.setState(model.ErrorState(r.req, ErrorMessage(err)))
	}
}

func (c *Controller) cancel() {
	r := c.run
	if r == nil {
		return
	}

	c.finish(r)
	c.metrics.ObserveGeneration(metrics.OutcomeCancelled, r.req.Attempt, time.Since(r.req.IssuedAt))
	c.logger.WithValues(log.Kv{"request-id": r.req.ID}).Infof("Generation cancelled")
	c.setState(model.IdleState())
}

// finish releases the run handles and detaches it from the controller.
func (c *Controller) finish(r *run) {
	r.cancel()
	if r.stopProgress != nil {
		r.stopProgress()
	}
	c.run = nil
}

func (c *Controller) handlePhase(r *run, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != r || c.state.Kind != model.StateKindLoading {
		return
	}

	index = c.phases.Clamp(index)
	if index <= c.state.PhaseIndex {
		return
	}

	st := c.state
	st.PhaseIndex = index
	st.Phase = c.phases.Label(index)
	c.setState(st)
}

func (c *Controller) handleActivity(r *run, indicator string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != r || c.state.Kind != model.StateKindLoading {
		return
	}

	st := c.state
	st.Activity = indicator
	c.setState(st)
}

func (c *Controller) setState(st model.State) {
	c.state = st
	c.listener(st)
}

// ErrorMessage returns the user facing message of a generation failure.
func ErrorMessage(err error) string {
	return ErrorMessagePrefix + err.Error()
}
