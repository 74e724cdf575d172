package historylist

import (
	"context"
	"fmt"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
)

// ServiceConfig is the configuration for the history list service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.HistoryList"})
	return nil
}

// Service lists the recorded generations.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new history list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// StatusFilter is an optional filter to only show generations with this status.
	StatusFilter *model.GenerationStatus
	// Limit is the max number of generations, 0 means all.
	Limit int
}

// Run lists the generations, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Generation, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	opts := storage.ListGenerationsOpts{Limit: req.Limit}
	if req.StatusFilter != nil {
		switch *req.StatusFilter {
		case model.GenerationStatusSuccess, model.GenerationStatusFailed, model.GenerationStatusCancelled:
		default:
			return nil, fmt.Errorf("unknown status %q: %w", *req.StatusFilter, model.ErrNotValid)
		}
		opts.Status = *req.StatusFilter
	}

	gens, err := s.repo.ListGenerations(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list generations: %w", err)
	}

	s.logger.Debugf("found %d generations", len(gens))
	return gens, nil
}
