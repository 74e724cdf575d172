package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/printer"
)

const (
	barWidth = 40
	// eraseLine clears from the cursor to the end of the terminal line.
	eraseLine = "\x1b[K"
)

// StatusWriter renders generation lifecycle states as a single terminal status
// line that is rewritten in place while loading.
type StatusWriter struct {
	w      io.Writer
	mu     sync.Mutex
	inLine bool
}

// NewStatusWriter creates a new status writer.
func NewStatusWriter(w io.Writer) *StatusWriter {
	return &StatusWriter{w: w}
}

// Write renders a state. Loading states rewrite the current line, the rest
// finish it.
func (s *StatusWriter) Write(st model.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st.Kind {
	case model.StateKindLoading:
		if !s.inLine && st.PhaseIndex == 0 && st.Activity == "" {
			fmt.Fprintf(s.w, "  Prompt: %s\n", st.Prompt)
		}
		line := fmt.Sprintf("  [%s] %s%s", Bar(st.PhaseIndex, st.PhaseCount), st.Phase, st.Activity)
		s.printLine(line)
	case model.StateKindSuccess:
		s.printLine(fmt.Sprintf("  [%s] Website generated (%s)", Bar(1, 1), printer.FormatBytes(int64(len(st.Artifact)))))
		s.finish()
	case model.StateKindError:
		s.printLine("  Error: " + st.Message)
		s.finish()
	case model.StateKindIdle:
		if s.inLine {
			s.printLine("  Cancelled")
			s.finish()
		}
	}
}

// Finish ends the current status line if any.
func (s *StatusWriter) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish()
}

func (s *StatusWriter) printLine(line string) {
	fmt.Fprintf(s.w, "\r%s%s", eraseLine, line)
	s.inLine = true
}

func (s *StatusWriter) finish() {
	if !s.inLine {
		return
	}
	fmt.Fprintln(s.w)
	s.inLine = false
}

// Bar returns the progress bar of a phase, the filled width is (index+1)/total.
func Bar(index, total int) string {
	filled := 0
	if total > 0 {
		filled = (index + 1) * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
}
