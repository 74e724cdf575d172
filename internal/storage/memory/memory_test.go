package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/storage/memory"
)

func generationFixture(id string, status model.GenerationStatus, createdAt time.Time) model.Generation {
	g := model.Generation{
		ID:         id,
		Prompt:     "a cafe " + id,
		Attempt:    1,
		Status:     status,
		CreatedAt:  createdAt,
		FinishedAt: createdAt.Add(3 * time.Second),
	}
	switch status {
	case model.GenerationStatusSuccess:
		g.Artifact = "<html>" + id + "</html>"
	case model.GenerationStatusFailed:
		g.Error = "Failed to generate website: HTTP error status: 500"
	}
	return g
}

func TestRepository(t *testing.T) {
	t0 := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, repo *memory.Repository)
	}{
		"Saving a generation should allow retrieving it.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				g := generationFixture("g1", model.GenerationStatusSuccess, t0)
				require.NoError(t, repo.SaveGeneration(ctx, g))

				got, err := repo.GetGeneration(ctx, "g1")
				require.NoError(t, err)
				assert.Equal(t, g, *got)
			},
		},

		"Saving a duplicated generation should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				g := generationFixture("g1", model.GenerationStatusSuccess, t0)
				require.NoError(t, repo.SaveGeneration(ctx, g))
				err := repo.SaveGeneration(ctx, g)
				assert.ErrorIs(t, err, model.ErrAlreadyExists)
			},
		},

		"Saving an invalid generation should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				g := generationFixture("g1", model.GenerationStatusSuccess, t0)
				g.Artifact = ""
				err := repo.SaveGeneration(ctx, g)
				assert.ErrorIs(t, err, model.ErrNotValid)
			},
		},

		"Getting a missing generation should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				_, err := repo.GetGeneration(ctx, "missing")
				assert.ErrorIs(t, err, model.ErrNotFound)
			},
		},

		"Listing should return newest first, filtered and limited.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				require.NoError(t, repo.SaveGeneration(ctx, generationFixture("g1", model.GenerationStatusSuccess, t0)))
				require.NoError(t, repo.SaveGeneration(ctx, generationFixture("g2", model.GenerationStatusFailed, t0.Add(time.Minute))))
				require.NoError(t, repo.SaveGeneration(ctx, generationFixture("g3", model.GenerationStatusSuccess, t0.Add(2*time.Minute))))
				require.NoError(t, repo.SaveGeneration(ctx, generationFixture("g4", model.GenerationStatusCancelled, t0.Add(3*time.Minute))))

				ids := func(gens []model.Generation) []string {
					ids := []string{}
					for _, g := range gens {
						ids = append(ids, g.ID)
					}
					return ids
				}

				all, err := repo.ListGenerations(ctx, storage.ListGenerationsOpts{})
				require.NoError(t, err)
				assert.Equal(t, []string{"g4", "g3", "g2", "g1"}, ids(all))

				success, err := repo.ListGenerations(ctx, storage.ListGenerationsOpts{Status: model.GenerationStatusSuccess})
				require.NoError(t, err)
				assert.Equal(t, []string{"g3", "g1"}, ids(success))

				limited, err := repo.ListGenerations(ctx, storage.ListGenerationsOpts{Limit: 2})
				require.NoError(t, err)
				assert.Equal(t, []string{"g4", "g3"}, ids(limited))
			},
		},

		"Deleting a generation should remove it.": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				require.NoError(t, repo.SaveGeneration(ctx, generationFixture("g1", model.GenerationStatusFailed, t0)))
				require.NoError(t, repo.DeleteGeneration(ctx, "g1"))

				_, err := repo.GetGeneration(ctx, "g1")
				assert.ErrorIs(t, err, model.ErrNotFound)
				assert.ErrorIs(t, repo.DeleteGeneration(ctx, "g1"), model.ErrNotFound)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
			require.NoError(t, err)

			test.actions(context.Background(), t, repo)
		})
	}
}
