package printer

import "github.com/slok/webgen/internal/model"

// Printer knows how to print generation information in different formats.
type Printer interface {
	PrintGenerations(gens []model.Generation) error
	// PrintGeneration prints a generation, location is where its website was
	// exported (empty if it wasn't).
	PrintGeneration(gen model.Generation, location string) error
	PrintMessage(msg string) error
}
