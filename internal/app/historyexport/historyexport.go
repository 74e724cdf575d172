package historyexport

import (
	"context"
	"fmt"

	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/metrics"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
)

// ServiceConfig is the configuration for the history export service.
type ServiceConfig struct {
	Repository storage.Repository
	Exporter   export.Exporter
	Metrics    metrics.Recorder
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Exporter == nil {
		return fmt.Errorf("exporter is required")
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.HistoryExport"})
	return nil
}

// Service exports the website of a recorded generation again.
type Service struct {
	repo     storage.Repository
	exporter export.Exporter
	metrics  metrics.Recorder
	logger   log.Logger
}

// NewService creates a new history export service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:     cfg.Repository,
		exporter: cfg.Exporter,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the history export request parameters.
type Request struct {
	// ID of the generation, if empty the latest successful generation is used.
	ID       string
	Filename string
}

// Result is the history export result.
type Result struct {
	Generation model.Generation
	Location   string
}

// Run exports a recorded generation website.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	gen, err := s.generation(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if gen.Status != model.GenerationStatusSuccess || gen.Artifact == "" {
		return nil, fmt.Errorf("generation %s is %s: %w", gen.ID, gen.Status, model.ErrNoArtifact)
	}

	loc, err := s.exporter.Export(ctx, gen.Artifact, req.Filename)
	s.metrics.ObserveExport(err == nil)
	if err != nil {
		return nil, fmt.Errorf("could not export generation %s: %w", gen.ID, err)
	}

	s.logger.Infof("Exported generation %s to %s", gen.ID, loc)
	return &Result{Generation: *gen, Location: loc}, nil
}

func (s *Service) generation(ctx context.Context, id string) (*model.Generation, error) {
	if id != "" {
		gen, err := s.repo.GetGeneration(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("could not get generation: %w", err)
		}
		return gen, nil
	}

	gens, err := s.repo.ListGenerations(ctx, storage.ListGenerationsOpts{Status: model.GenerationStatusSuccess, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("could not list generations: %w", err)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("there are no successful generations: %w", model.ErrNotFound)
	}

	return &gens[0], nil
}
