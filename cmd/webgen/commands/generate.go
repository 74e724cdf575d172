package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/webgen/internal/app/generate"
	"github.com/slok/webgen/internal/export"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/progress"
	"github.com/slok/webgen/internal/storage"
	"github.com/slok/webgen/internal/storage/sqlite"
	"github.com/slok/webgen/internal/transport"
	"github.com/slok/webgen/internal/transport/api"
	"github.com/slok/webgen/internal/transport/fake"
)

type GenerateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	prompt    string
	fromStdin bool

	// Transport flags.
	transport     string
	endpoint      string
	artifactField string
	timeout       time.Duration
	retries       int

	// Fake transport flags.
	fakeDelay      time.Duration
	fakeFailStatus int

	// Output flags.
	outputDir  string
	outputFile string
	toStdout   bool
	noExport   bool
	noHistory  bool
	noProgress bool
	format     string
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(rootCmd *RootCommand, app *kingpin.Application) *GenerateCommand {
	c := &GenerateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("generate", "Generate a website from a prompt.")
	c.Cmd.Arg("prompt", "Description of the website.").StringVar(&c.prompt)
	c.Cmd.Flag("stdin", "Read the prompt from stdin instead of the argument.").BoolVar(&c.fromStdin)

	// Transport flags.
	c.Cmd.Flag("transport", "Transport type (api, fake).").Default("api").EnumVar(&c.transport, "api", "fake")
	c.Cmd.Flag("endpoint", "Website generation service endpoint.").StringVar(&c.endpoint)
	c.Cmd.Flag("artifact-field", "Response JSON field with the generated HTML.").StringVar(&c.artifactField)
	c.Cmd.Flag("timeout", "Timeout of each generation request, 0 disables it.").DurationVar(&c.timeout)
	c.Cmd.Flag("retries", "Number of times a failed generation is retried.").Default("0").IntVar(&c.retries)

	// Fake transport flags.
	c.Cmd.Flag("fake-delay", "Generation time of the fake transport.").Default("3s").DurationVar(&c.fakeDelay)
	c.Cmd.Flag("fake-fail-status", "Makes the fake transport fail with this HTTP status.").IntVar(&c.fakeFailStatus)

	// Output flags.
	c.Cmd.Flag("output-dir", "Directory where the website is exported.").StringVar(&c.outputDir)
	c.Cmd.Flag("output", "Exported website filename.").Short('o').StringVar(&c.outputFile)
	c.Cmd.Flag("stdout", "Export the website to stdout instead of a file.").BoolVar(&c.toStdout)
	c.Cmd.Flag("no-export", "Don't export the generated website.").BoolVar(&c.noExport)
	c.Cmd.Flag("no-history", "Don't record the generation in the history.").BoolVar(&c.noHistory)
	c.Cmd.Flag("no-progress", "Don't render the progress.").BoolVar(&c.noProgress)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c GenerateCommand) Name() string { return c.Cmd.FullCommand() }

func (c GenerateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := c.rootCmd.LoadConfig(ctx)
	if err != nil {
		return err
	}
	c.applyConfig(cfg)

	prompt := c.prompt
	if c.fromStdin {
		data, err := io.ReadAll(c.rootCmd.Stdin)
		if err != nil {
			return fmt.Errorf("could not read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}

	rec, flushMetrics, err := c.rootCmd.NewMetrics()
	if err != nil {
		return err
	}
	defer flushMetrics()

	// Initialize transport based on flags.
	var tr transport.Transport
	switch c.transport {
	case "fake":
		tr, err = fake.NewTransport(fake.TransportConfig{
			Delay:      c.fakeDelay,
			FailStatus: c.fakeFailStatus,
			Logger:     logger,
		})
	default:
		tr, err = api.NewTransport(api.TransportConfig{
			Endpoint:      c.endpoint,
			ArtifactField: c.artifactField,
			Logger:        logger,
		})
	}
	if err != nil {
		return fmt.Errorf("could not create transport: %w", err)
	}

	var phases model.PhaseTable
	if len(cfg.Phases) > 0 {
		phases, err = model.NewPhaseTable(cfg.Phases...)
		if err != nil {
			return fmt.Errorf("invalid phases: %w", err)
		}
	}

	sim, err := progress.NewSimulator(progress.SimulatorConfig{
		PhaseInterval:    cfg.PhaseInterval,
		ActivityInterval: cfg.ActivityInterval,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("could not create progress simulator: %w", err)
	}

	// The website goes to stdout, the progress to stderr.
	var exp export.Exporter
	if c.toStdout {
		exp = export.NewWriterExporter(c.rootCmd.Stdout)
	} else {
		exp, err = export.NewFileExporter(export.FileExporterConfig{
			Dir:    c.outputDir,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create exporter: %w", err)
		}
	}

	// Initialize storage (SQLite).
	var repo storage.Repository
	if !c.noHistory {
		sqliteRepo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.DBPath,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
	}

	svc, err := generate.NewService(generate.ServiceConfig{
		Transport:  tr,
		Simulator:  sim,
		Phases:     phases,
		Exporter:   exp,
		Repository: repo,
		Timeout:    c.timeout,
		Metrics:    rec,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var progressOut io.Writer
	if !c.noProgress {
		progressOut = c.rootCmd.Stderr
	}

	res, err := svc.Generate(ctx, generate.Request{
		Prompt:     prompt,
		Export:     !c.noExport,
		Filename:   c.outputFile,
		MaxRetries: c.retries,
		Progress:   progressOut,
	})
	if err != nil {
		return fmt.Errorf("could not generate website: %w", err)
	}

	// With the website on stdout there is nothing else to print there.
	if c.toStdout && !c.noExport {
		return nil
	}

	if err := newPrinter(c.format, c.rootCmd).PrintGeneration(res.Generation, res.Location); err != nil {
		return fmt.Errorf("could not print generation: %w", err)
	}

	return nil
}

// applyConfig sets the configuration file values on the flags that have not been set.
func (c *GenerateCommand) applyConfig(cfg model.GeneratorConfig) {
	if c.endpoint == "" {
		c.endpoint = cfg.Endpoint
	}
	if c.artifactField == "" {
		c.artifactField = cfg.ArtifactField
	}
	if c.timeout == 0 {
		c.timeout = cfg.Timeout
	}
	if c.outputDir == "" {
		c.outputDir = cfg.OutputDir
	}
	if c.outputFile == "" {
		c.outputFile = cfg.OutputFile
	}
}
