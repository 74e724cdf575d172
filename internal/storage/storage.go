package storage

import (
	"context"

	"github.com/slok/webgen/internal/model"
)

// ListGenerationsOpts are the options to list generations.
type ListGenerationsOpts struct {
	// Status filters by status, empty means all.
	Status model.GenerationStatus
	// Limit is the max number of generations returned, 0 means no limit.
	Limit int
}

// Repository is the interface for generation history persistence.
type Repository interface {
	SaveGeneration(ctx context.Context, g model.Generation) error
	GetGeneration(ctx context.Context, id string) (*model.Generation, error)
	// ListGenerations returns the generations, newest first.
	ListGenerations(ctx context.Context, opts ListGenerationsOpts) ([]model.Generation, error)
	DeleteGeneration(ctx context.Context, id string) error
}
