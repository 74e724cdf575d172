package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/webgen/internal/app/historyexport"
	"github.com/slok/webgen/internal/export"
)

// HistoryExportCommand exports again the website of a recorded generation.
type HistoryExportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
	histCmd *HistoryCommand

	id         string
	outputDir  string
	outputFile string
	toStdout   bool
}

// NewHistoryExportCommand returns the history export command.
func NewHistoryExportCommand(rootCmd *RootCommand, histCmd *HistoryCommand) *HistoryExportCommand {
	c := &HistoryExportCommand{rootCmd: rootCmd, histCmd: histCmd}

	c.Cmd = histCmd.Cmd.Command("export", "Export the website of a successful generation.")
	c.Cmd.Arg("id", "Generation ID, the latest successful generation if missing.").StringVar(&c.id)
	c.Cmd.Flag("output-dir", "Directory where the website is exported.").StringVar(&c.outputDir)
	c.Cmd.Flag("output", "Exported website filename.").Short('o').StringVar(&c.outputFile)
	c.Cmd.Flag("stdout", "Export the website to stdout instead of a file.").BoolVar(&c.toStdout)

	return c
}

func (c HistoryExportCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryExportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := c.rootCmd.LoadConfig(ctx)
	if err != nil {
		return err
	}
	if c.outputDir == "" {
		c.outputDir = cfg.OutputDir
	}
	if c.outputFile == "" {
		c.outputFile = cfg.OutputFile
	}

	rec, flushMetrics, err := c.rootCmd.NewMetrics()
	if err != nil {
		return err
	}
	defer flushMetrics()

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

	repo, err := newSQLiteRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := historyexport.NewService(historyexport.ServiceConfig{
		Repository: repo,
		Exporter:   exp,
		Metrics:    rec,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, historyexport.Request{
		ID:       c.id,
		Filename: c.outputFile,
	})
	if err != nil {
		return fmt.Errorf("could not export generation: %w", err)
	}

	if c.toStdout {
		return nil
	}

	if err := newPrinter(c.histCmd.format, c.rootCmd).PrintGeneration(res.Generation, res.Location); err != nil {
		return fmt.Errorf("could not print generation: %w", err)
	}

	return nil
}
