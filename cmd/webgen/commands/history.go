package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/webgen/internal/printer"
	"github.com/slok/webgen/internal/storage/sqlite"
)

// HistoryCommand is the parent command for the generation history subcommands.
type HistoryCommand struct {
	Cmd *kingpin.CmdClause

	format string
}

// NewHistoryCommand returns the history parent command.
func NewHistoryCommand(app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{}

	c.Cmd = app.Command("history", "Manage the generation history.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func newSQLiteRepository(ctx context.Context, rootCmd *RootCommand) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

func newPrinter(format string, rootCmd *RootCommand) printer.Printer {
	switch format {
	case "json":
		return printer.NewJSONPrinter(rootCmd.Stdout)
	default: // table
		return printer.NewTablePrinter(rootCmd.Stdout)
	}
}
