package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/webgen/internal/model"
)

const maxPromptWidth = 40

// TablePrinter prints generation information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

var _ Printer = (*TablePrinter)(nil)

// PrintGenerations prints generations in a table format.
func (t *TablePrinter) PrintGenerations(gens []model.Generation) error {
	if len(gens) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tSTATUS\tATTEMPT\tSIZE\tDURATION\tCREATED\tPROMPT")
	for _, g := range gens {
		size := "-"
		if g.Artifact != "" {
			size = FormatBytes(int64(len(g.Artifact)))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			g.ID,
			g.Status,
			g.Attempt,
			size,
			FormatDuration(g.Duration()),
			TimeAgo(g.CreatedAt),
			truncate(g.Prompt, maxPromptWidth),
		)
	}

	return nil
}

// PrintGeneration prints detailed generation information.
func (t *TablePrinter) PrintGeneration(g model.Generation, location string) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", g.ID)
	fmt.Fprintf(t.writer, "Status:     %s\n", g.Status)
	fmt.Fprintf(t.writer, "Prompt:     %s\n", g.Prompt)
	fmt.Fprintf(t.writer, "Attempt:    %d\n", g.Attempt)
	fmt.Fprintf(t.writer, "Duration:   %s\n", FormatDuration(g.Duration()))
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(g.CreatedAt))

	if g.Artifact != "" {
		fmt.Fprintf(t.writer, "Size:       %s\n", FormatBytes(int64(len(g.Artifact))))
	}
	if g.Error != "" {
		fmt.Fprintf(t.writer, "Error:      %s\n", g.Error)
	}
	if location != "" {
		fmt.Fprintf(t.writer, "Exported:   %s\n", location)
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

// truncate shortens a single line version of s to max runes.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
