package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

var _ storage.Repository = (*Repository)(nil)

// NewRepository creates a new SQLite repository, the schema is migrated on creation.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not check schema: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s (schema v%d)", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveGeneration stores a finished generation.
func (r *Repository) SaveGeneration(ctx context.Context, g model.Generation) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid generation: %w", err)
	}

	query := `
		INSERT INTO generations (
			id, prompt, attempt, status,
			error, artifact,
			created_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Prompt,
		g.Attempt,
		string(g.Status),
		g.Error,
		g.Artifact,
		g.CreatedAt.UnixMilli(),
		g.FinishedAt.UnixMilli(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: generations.") {
			return fmt.Errorf("generation %s: %w", g.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert generation: %w", err)
	}

	r.logger.Debugf("Saved generation in repository: %s", g.ID)
	return nil
}

// GetGeneration retrieves a generation by ID.
func (r *Repository) GetGeneration(ctx context.Context, id string) (*model.Generation, error) {
	query := `
		SELECT
			id, prompt, attempt, status,
			error, artifact,
			created_at, finished_at
		FROM generations
		WHERE id = ?
	`

	g, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("generation %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query generation: %w", err)
	}

	return &g, nil
}

// ListGenerations returns the generations, newest first.
func (r *Repository) ListGenerations(ctx context.Context, opts storage.ListGenerationsOpts) ([]model.Generation, error) {
	var (
		where []string
		args  []any
	)
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}

	query := `
		SELECT
			id, prompt, attempt, status,
			error, artifact,
			created_at, finished_at
		FROM generations
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query generations: %w", err)
	}
	defer rows.Close()

	gens := []model.Generation{}
	for rows.Next() {
		g, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		gens = append(gens, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return gens, nil
}

// DeleteGeneration deletes a generation.
func (r *Repository) DeleteGeneration(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM generations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete generation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("generation %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted generation from repository: %s", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (model.Generation, error) {
	var g model.Generation
	var status string
	var createdAt, finishedAt int64

	err := s.Scan(
		&g.ID,
		&g.Prompt,
		&g.Attempt,
		&status,
		&g.Error,
		&g.Artifact,
		&createdAt,
		&finishedAt,
	)
	if err != nil {
		return model.Generation{}, err
	}

	g.Status = model.GenerationStatus(status)
	g.CreatedAt = timeFromUnixMilli(createdAt)
	g.FinishedAt = timeFromUnixMilli(finishedAt)

	return g, nil
}

func timeFromUnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
