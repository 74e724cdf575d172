package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/webgen/internal/app/historylist"
	"github.com/slok/webgen/internal/model"
)

// HistoryListCommand lists the recorded generations.
type HistoryListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
	histCmd *HistoryCommand

	statusFilter string
	limit        int
}

// NewHistoryListCommand returns the history list command.
func NewHistoryListCommand(rootCmd *RootCommand, histCmd *HistoryCommand) *HistoryListCommand {
	c := &HistoryListCommand{rootCmd: rootCmd, histCmd: histCmd}

	c.Cmd = histCmd.Cmd.Command("list", "List the recorded generations.")
	c.Cmd.Flag("status", "Filter by status (success, failed, cancelled).").StringVar(&c.statusFilter)
	c.Cmd.Flag("limit", "Max number of generations, 0 lists all.").Default("20").IntVar(&c.limit)

	return c
}

func (c HistoryListCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryListCommand) Run(ctx context.Context) error {
	var statusFilter *model.GenerationStatus
	if c.statusFilter != "" {
		status := model.GenerationStatus(strings.ToLower(c.statusFilter))
		statusFilter = &status
	}

	repo, err := newSQLiteRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := historylist.NewService(historylist.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	gens, err := svc.Run(ctx, historylist.Request{
		StatusFilter: statusFilter,
		Limit:        c.limit,
	})
	if err != nil {
		return fmt.Errorf("could not list generations: %w", err)
	}

	if err := newPrinter(c.histCmd.format, c.rootCmd).PrintGenerations(gens); err != nil {
		return fmt.Errorf("could not print generations: %w", err)
	}

	return nil
}
