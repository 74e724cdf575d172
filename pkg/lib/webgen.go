package lib

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/webgen/internal/conventions"
	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/storage/memory"
	"github.com/slok/webgen/internal/storage/sqlite"
	"github.com/slok/webgen/internal/transport"
	"github.com/slok/webgen/internal/transport/api"
	"github.com/slok/webgen/internal/transport/fake"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. An empty Config{} uses
// the remote generation service and ~/.webgen/webgen.db for the history.
type Config struct {
	// DBPath is the SQLite history database path.
	// Default: ~/.webgen/webgen.db.
	DBPath string

	// InMemoryHistory keeps the history in memory instead of SQLite, DBPath is ignored.
	InMemoryHistory bool

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Transport selects how the prompts are generated.
	// Default: [TransportAPI].
	Transport TransportType

	// Endpoint is the generation service URL, only for [TransportAPI].
	Endpoint string

	// ArtifactField is the response JSON field with the HTML, only for [TransportAPI].
	// Default: "code".
	ArtifactField string

	// HTTPClient is used for the [TransportAPI] requests.
	// Default: http.DefaultClient.
	HTTPClient *http.Client

	// FakeDelay is the duration of a fake generation, only for [TransportFake].
	FakeDelay time.Duration

	// FakeFailStatus makes every fake generation fail with this HTTP status.
	FakeFailStatus int

	// Timeout of each generation request, 0 means no timeout.
	Timeout time.Duration

	// OutputDir is where the websites are exported.
	// Default: the working directory.
	OutputDir string
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Transport == "" {
		c.Transport = TransportAPI
	}

	if c.DBPath == "" && !c.InMemoryHistory {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(filepath.Join(home, conventions.DefaultDataDir))
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}

	return nil
}

// Client is the main SDK entry point for generating websites programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo      storage.Repository
	transport transport.Transport
	exporter  export.Exporter
	timeout   time.Duration
	logger    log.Logger
	closeFn   func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the history
// database. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tr, err := newTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create transport: %w", err)
	}

	exporter, err := export.NewFileExporter(export.FileExporterConfig{
		Dir:    cfg.OutputDir,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create exporter: %w", err)
	}

	c := &Client{
		transport: tr,
		exporter:  exporter,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}

	if cfg.InMemoryHistory {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		return c, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	c.repo = repo
	c.closeFn = repo.Close

	return c, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

func newTransport(cfg Config) (transport.Transport, error) {
	switch cfg.Transport {
	case TransportAPI:
		return api.NewTransport(api.TransportConfig{
			Endpoint:      cfg.Endpoint,
			ArtifactField: cfg.ArtifactField,
			HTTPClient:    cfg.HTTPClient,
			Logger:        cfg.Logger,
		})
	case TransportFake:
		return fake.NewTransport(fake.TransportConfig{
			Delay:      cfg.FakeDelay,
			FailStatus: cfg.FakeFailStatus,
			Logger:     cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unknown transport %q: %w", cfg.Transport, ErrNotValid)
	}
}
