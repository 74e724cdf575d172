package progress_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/progress"
)

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("=", 8)+strings.Repeat(" ", 32), progress.Bar(0, 5))
	assert.Equal(t, strings.Repeat("=", 40), progress.Bar(4, 5))
	assert.Equal(t, strings.Repeat("=", 40), progress.Bar(10, 5))
	assert.Equal(t, strings.Repeat(" ", 40), progress.Bar(0, 0))
}

func TestStatusWriter(t *testing.T) {
	req := model.GenerationRequest{ID: "1", Prompt: "coffee shop", Attempt: 1}
	phases := model.DefaultPhaseTable()

	loading := model.LoadingState(req, phases)
	advanced := loading
	advanced.PhaseIndex = 1
	advanced.Phase = phases.Label(1)
	advanced.Activity = ".."

	tests := map[string]struct {
		states     []model.State
		expOut     []string
		expNot     []string
		expPrompts int
	}{
		"Loading states should print the prompt once and rewrite the line.": {
			states:     []model.State{loading, advanced},
			expOut:     []string{"Prompt: coffee shop\n", "\r\x1b[K  [", "Analyzing prompt", "Generating HTML structure.."},
			expNot:     []string{"Analyzing prompt\n"},
			expPrompts: 1,
		},

		"Success should finish the line.": {
			states:     []model.State{loading, model.SuccessState(req, "<html></html>")},
			expOut:     []string{"Website generated (13 B)\n"},
			expPrompts: 1,
		},

		"Error should print the message.": {
			states:     []model.State{loading, model.ErrorState(req, "Failed to generate website: HTTP error status: 500")},
			expOut:     []string{"\r\x1b[K  Error: Failed to generate website: HTTP error status: 500\n"},
			expPrompts: 1,
		},

		"Idle after loading should print cancelled.": {
			states:     []model.State{loading, model.IdleState()},
			expOut:     []string{"\r\x1b[K  Cancelled\n"},
			expPrompts: 1,
		},

		"Idle without loading should print nothing.": {
			states: []model.State{model.IdleState()},
			expNot: []string{"Cancelled"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			w := progress.NewStatusWriter(&out)
			for _, st := range test.states {
				w.Write(st)
			}
			w.Finish()

			got := out.String()
			for _, exp := range test.expOut {
				assert.Contains(t, got, exp)
			}
			for _, exp := range test.expNot {
				assert.NotContains(t, got, exp)
			}
			assert.Equal(t, test.expPrompts, strings.Count(got, "Prompt:"))
			// Lines are cleared with the erase code, never padded.
			assert.NotContains(t, got, " \n")
		})
	}
}
