package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/lifecycle"
	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/metrics"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/progress"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/transport"
)

// ServiceConfig is the configuration for the generate service.
type ServiceConfig struct {
	Transport transport.Transport
	// Simulator is optional, the controller default is used if missing.
	Simulator lifecycle.ProgressSimulator
	Phases    model.PhaseTable
	// Exporter is required to export the generated websites.
	Exporter export.Exporter
	// Repository is optional, if missing generations are not recorded.
	Repository storage.Repository
	Timeout    time.Duration
	Metrics    metrics.Recorder
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Transport == nil {
		return fmt.Errorf("transport is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Generate"})
	if c.Metrics == nil {
		c.Metrics = metrics.Noop
	}
	return nil
}

// Service generates websites from prompts, driving a lifecycle controller
// until the request ends.
type Service struct {
	transport transport.Transport
	simulator lifecycle.ProgressSimulator
	phases    model.PhaseTable
	exporter  export.Exporter
	repo      storage.Repository
	timeout   time.Duration
	metrics   metrics.Recorder
	logger    log.Logger
}

// NewService creates a new generate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		transport: cfg.Transport,
		simulator: cfg.Simulator,
		phases:    cfg.Phases,
		exporter:  cfg.Exporter,
		repo:      cfg.Repository,
		timeout:   cfg.Timeout,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}, nil
}

// Request represents the generate request parameters.
type Request struct {
	Prompt string
	// Export the generated website using the exporter.
	Export bool
	// Filename of the exported website, optional.
	Filename string
	// MaxRetries is the number of times a failed generation is retried.
	MaxRetries int
	// Progress receives the rendered progress, optional.
	Progress io.Writer
}

// Result is the result of a generation.
type Result struct {
	Generation model.Generation
	// Location is where the website has been exported, empty if not exported.
	Location string
}

// ErrGenerationFailed is returned when the generation ends in error after all the attempts.
var ErrGenerationFailed = errors.New("generation failed")

// outcome is the end of a request as seen by the controller listener.
type outcome struct {
	state   model.State
	loading model.State
}

// Generate generates a website. Cancelling the context cancels the in-flight
// request. On failure the result is returned together with the error.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries can't be negative: %w", model.ErrNotValid)
	}

	status := progress.NewStatusWriter(io.Discard)
	if req.Progress != nil {
		status = progress.NewStatusWriter(req.Progress)
	}
	defer status.Finish()

	// The listener runs under the controller lock and in transition order, the
	// channel has room for every attempt outcome so it never blocks.
	outcomes := make(chan outcome, req.MaxRetries+2)
	var loading model.State
	listener := func(st model.State) {
		status.Write(st)
		switch st.Kind {
		case model.StateKindLoading:
			loading = st
		case model.StateKindSuccess, model.StateKindError:
			outcomes <- outcome{state: st, loading: loading}
			loading = model.State{}
		case model.StateKindIdle:
			if loading.Kind == model.StateKindLoading {
				outcomes <- outcome{state: st, loading: loading}
				loading = model.State{}
			}
		}
	}

	ctrl, err := lifecycle.NewController(lifecycle.ControllerConfig{
		Transport:      s.transport,
		Simulator:      s.simulator,
		Phases:         s.phases,
		Exporter:       s.exporter,
		ExportFilename: req.Filename,
		Timeout:        s.timeout,
		Listener:       listener,
		Metrics:        s.metrics,
		Logger:         s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create controller: %w", err)
	}
	defer ctrl.Dispose()

	if err := ctrl.Submit(ctx, req.Prompt); err != nil {
		return nil, fmt.Errorf("could not submit generation: %w", err)
	}

	for {
		o := <-outcomes
		gen := s.record(ctx, o)

		switch o.state.Kind {
		case model.StateKindSuccess:
			res := &Result{Generation: gen}
			if !req.Export {
				return res, nil
			}
			loc, err := ctrl.ExportArtifact(ctx)
			if err != nil {
				return res, fmt.Errorf("could not export website: %w", err)
			}
			res.Location = loc
			return res, nil

		case model.StateKindError:
			if gen.Attempt <= req.MaxRetries {
				s.logger.Infof("Retrying failed generation (%d/%d)", gen.Attempt, req.MaxRetries)
				if err := ctrl.Retry(ctx); err != nil {
					return &Result{Generation: gen}, fmt.Errorf("could not retry generation: %w", err)
				}
				continue
			}
			return &Result{Generation: gen}, fmt.Errorf("%s: %w", o.state.Message, ErrGenerationFailed)

		default:
			return &Result{Generation: gen}, fmt.Errorf("generation cancelled: %w", ctx.Err())
		}
	}
}

// record saves the generation in the history. History is best effort, a
// failure is logged and the generation goes on.
func (s *Service) record(ctx context.Context, o outcome) model.Generation {
	gen := model.Generation{
		ID:         o.loading.RequestID,
		Prompt:     o.loading.Prompt,
		Attempt:    o.loading.Attempt,
		CreatedAt:  o.loading.StartedAt,
		FinishedAt: time.Now().UTC(),
	}
	switch o.state.Kind {
	case model.StateKindSuccess:
		gen.Status = model.GenerationStatusSuccess
		gen.Artifact = o.state.Artifact
	case model.StateKindError:
		gen.Status = model.GenerationStatusFailed
		gen.Error = o.state.Message
	default:
		gen.Status = model.GenerationStatusCancelled
	}

	if s.repo == nil {
		return gen
	}

	// Cancelled generations are recorded even when the context is done.
	if err := s.repo.SaveGeneration(context.WithoutCancel(ctx), gen); err != nil {
		s.logger.Warningf("Could not record generation %s: %s", gen.ID, err)
	}

	return gen
}
