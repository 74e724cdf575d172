package lib

import (
	"context"
	"fmt"

	"github.com/slok/webgen/internal/app/generate"
	"github.com/slok/webgen/internal/app/historyexport"
	"github.com/slok/webgen/internal/app/historylist"
	"github.com/slok/webgen/internal/export"
)

// Generate generates a website from the prompt and blocks until it ends. The
// generation is recorded in the history whatever the outcome.
//
// Cancelling the context cancels the generation. Returns [ErrNotValid] on an
// empty prompt and [ErrGenerationFailed] when the generation ends in error after
// all the retries, the failed generation is returned together with the error.
func (c *Client) Generate(ctx context.Context, prompt string, opts *GenerateOpts) (*Generation, error) {
	if opts == nil {
		opts = &GenerateOpts{}
	}

	svc, err := generate.NewService(generate.ServiceConfig{
		Transport:  c.transport,
		Exporter:   c.exporter,
		Repository: c.repo,
		Timeout:    c.timeout,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Generate(ctx, generate.Request{
		Prompt:     prompt,
		Export:     opts.Export,
		Filename:   export.Filename(opts.Filename),
		MaxRetries: opts.MaxRetries,
	})
	if res == nil {
		return nil, mapError(err)
	}

	gen := fromInternalGeneration(res.Generation)
	gen.Location = res.Location
	return &gen, mapError(err)
}

// ListGenerations returns the recorded generations, newest first.
func (c *Client) ListGenerations(ctx context.Context, opts *ListGenerationsOpts) ([]Generation, error) {
	svc, err := historylist.NewService(historylist.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := historylist.Request{StatusFilter: toInternalStatusFilter(opts)}
	if opts != nil {
		req.Limit = opts.Limit
	}

	gens, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalGenerationList(gens), nil
}

// GetGeneration returns a recorded generation by ID.
//
// Returns [ErrNotFound] if the generation does not exist.
func (c *Client) GetGeneration(ctx context.Context, id string) (*Generation, error) {
	gen, err := c.repo.GetGeneration(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	out := fromInternalGeneration(*gen)
	return &out, nil
}

// ExportGeneration exports the website of a recorded generation to the client
// output directory and returns where it was written. An empty ID exports the
// latest successful generation.
//
// Returns [ErrNotFound] if there is no such generation and [ErrNotValid] if
// the generation has no website.
func (c *Client) ExportGeneration(ctx context.Context, id, filename string) (string, error) {
	svc, err := historyexport.NewService(historyexport.ServiceConfig{
		Repository: c.repo,
		Exporter:   c.exporter,
		Logger:     c.logger,
	})
	if err != nil {
		return "", fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, historyexport.Request{
		ID:       id,
		Filename: export.Filename(filename),
	})
	if err != nil {
		return "", mapError(err)
	}

	return res.Location, nil
}
