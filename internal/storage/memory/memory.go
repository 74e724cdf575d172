package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	generations map[string]model.Generation
	mu          sync.RWMutex
	logger      log.Logger
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		generations: make(map[string]model.Generation),
		logger:      cfg.Logger,
	}, nil
}

// SaveGeneration stores a finished generation.
func (r *Repository) SaveGeneration(ctx context.Context, g model.Generation) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid generation: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generations[g.ID]; ok {
		return fmt.Errorf("generation %s: %w", g.ID, model.ErrAlreadyExists)
	}

	r.generations[g.ID] = g
	r.logger.Debugf("Saved generation in repository: %s", g.ID)

	return nil
}

// GetGeneration retrieves a generation by ID.
func (r *Repository) GetGeneration(ctx context.Context, id string) (*model.Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generations[id]
	if !ok {
		return nil, fmt.Errorf("generation %s: %w", id, model.ErrNotFound)
	}

	return &g, nil
}

// ListGenerations returns the generations, newest first.
func (r *Repository) ListGenerations(ctx context.Context, opts storage.ListGenerationsOpts) ([]model.Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gens := make([]model.Generation, 0, len(r.generations))
	for _, g := range r.generations {
		if opts.Status != "" && g.Status != opts.Status {
			continue
		}
		gens = append(gens, g)
	}

	// ULIDs sort by creation time, used as tie breaker.
	sort.Slice(gens, func(i, j int) bool {
		if !gens[i].CreatedAt.Equal(gens[j].CreatedAt) {
			return gens[i].CreatedAt.After(gens[j].CreatedAt)
		}
		return gens[i].ID > gens[j].ID
	})

	if opts.Limit > 0 && len(gens) > opts.Limit {
		gens = gens[:opts.Limit]
	}

	return gens, nil
}

// DeleteGeneration deletes a generation.
func (r *Repository) DeleteGeneration(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generations[id]; !ok {
		return fmt.Errorf("generation %s: %w", id, model.ErrNotFound)
	}

	delete(r.generations, id)
	r.logger.Debugf("Deleted generation from repository: %s", id)

	return nil
}
