package model

import "time"

// StateKind is the kind of a generation lifecycle state.
type StateKind string

const (
	StateKindIdle    StateKind = "idle"
	StateKindLoading StateKind = "loading"
	StateKindSuccess StateKind = "success"
	StateKindError   StateKind = "error"
)

// State is a snapshot of the generation lifecycle. Only the fields of the
// active Kind are set:
//
//   - Idle: none.
//   - Loading: request fields, PhaseIndex, Phase, PhaseCount, Activity and StartedAt.
//   - Success: request fields and Artifact.
//   - Error: request fields and Message.
type State struct {
	Kind StateKind

	RequestID string
	Prompt    string
	Attempt   int

	PhaseIndex int
	Phase      string
	PhaseCount int
	Activity   string
	StartedAt  time.Time

	Artifact string
	Message  string
}

// IdleState returns the idle state.
func IdleState() State { return State{Kind: StateKindIdle} }

// LoadingState returns the initial loading state of a request.
func LoadingState(req GenerationRequest, phases PhaseTable) State {
	return State{
		Kind:       StateKindLoading,
		RequestID:  req.ID,
		Prompt:     req.Prompt,
		Attempt:    req.Attempt,
		PhaseIndex: 0,
		Phase:      phases.Label(0),
		PhaseCount: phases.Len(),
		StartedAt:  req.IssuedAt,
	}
}

// SuccessState returns the success state of a request.
func SuccessState(req GenerationRequest, artifact string) State {
	return State{
		Kind:      StateKindSuccess,
		RequestID: req.ID,
		Prompt:    req.Prompt,
		Attempt:   req.Attempt,
		Artifact:  artifact,
	}
}

// ErrorState returns the error state of a request.
func ErrorState(req GenerationRequest, msg string) State {
	return State{
		Kind:      StateKindError,
		RequestID: req.ID,
		Prompt:    req.Prompt,
		Attempt:   req.Attempt,
		Message:   msg,
	}
}

// Terminal returns true when the state ends a request.
func (s State) Terminal() bool {
	return s.Kind == StateKindSuccess || s.Kind == StateKindError
}

// Elapsed returns the time spent loading.
func (s State) Elapsed(now time.Time) time.Duration {
	if s.Kind != StateKindLoading || s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
