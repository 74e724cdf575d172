package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
)

const (
	// DefaultPhaseInterval is the time each phase label is shown before advancing.
	DefaultPhaseInterval = 2 * time.Second
	// DefaultActivityInterval is the activity indicator cadence.
	DefaultActivityInterval = 500 * time.Millisecond
	// DefaultActivityMax is the maximum length of the activity indicator.
	DefaultActivityMax = 3
)

// SimulatorConfig is the configuration for the progress simulator.
type SimulatorConfig struct {
	PhaseInterval    time.Duration
	ActivityInterval time.Duration
	// ActivityMax is the number of dots the activity indicator grows to before resetting.
	ActivityMax int
	Logger      log.Logger
}

func (c *SimulatorConfig) defaults() error {
	if c.PhaseInterval < 0 || c.ActivityInterval < 0 || c.ActivityMax < 0 {
		return fmt.Errorf("intervals and activity max can't be negative")
	}
	if c.PhaseInterval == 0 {
		c.PhaseInterval = DefaultPhaseInterval
	}
	if c.ActivityInterval == 0 {
		c.ActivityInterval = DefaultActivityInterval
	}
	if c.ActivityMax == 0 {
		c.ActivityMax = DefaultActivityMax
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "progress.Simulator"})
	return nil
}

// Simulator produces time driven progress feedback independent of the real
// request progress: the phase index advances on a fixed interval clamping at
// the last phase, and an activity indicator cycles to show liveness.
type Simulator struct {
	phaseInterval    time.Duration
	activityInterval time.Duration
	activityMax      int
	logger           log.Logger
}

// NewSimulator creates a new progress simulator.
func NewSimulator(cfg SimulatorConfig) (*Simulator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Simulator{
		phaseInterval:    cfg.PhaseInterval,
		activityInterval: cfg.ActivityInterval,
		activityMax:      cfg.ActivityMax,
		logger:           cfg.Logger,
	}, nil
}

// Start starts both tickers and returns the function that stops them. onPhase
// receives the new phase index every time it advances, onActivity the new
// activity indicator. Both callbacks are called from the same goroutine.
//
// Stop is idempotent and doesn't wait for the goroutine: a callback that was
// already being emitted may still run, callers that need a strict cut must
// discard it on their side (the lifecycle controller does).
func (s *Simulator) Start(phases model.PhaseTable, onPhase func(index int), onActivity func(indicator string)) (stop func()) {
	if onPhase == nil {
		onPhase = func(int) {}
	}
	if onActivity == nil {
		onActivity = func(string) {}
	}

	r := &run{done: make(chan struct{})}
	go s.loop(r, phases, onPhase, onActivity)

	return r.stop
}

// run is the handle of a single simulation.
type run struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

func (r *run) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.stopped = true
	close(r.done)
}

// emit calls f unless the run has been stopped. The run lock is not held
// while f runs, so callbacks can stop the run.
func (r *run) emit(f func()) bool {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()

	if stopped {
		return false
	}
	f()
	return true
}

func (s *Simulator) loop(r *run, phases model.PhaseTable, onPhase func(int), onActivity func(string)) {
	phaseTicker := time.NewTicker(s.phaseInterval)
	defer phaseTicker.Stop()
	activityTicker := time.NewTicker(s.activityInterval)
	defer activityTicker.Stop()

	index := 0
	dots := 0
	for {
		select {
		case <-r.done:
			s.logger.Debugf("Progress simulation stopped at phase %d", index)
			return

		case <-phaseTicker.C:
			next := phases.Clamp(index + 1)
			if next == index {
				continue
			}
			index = next
			if !r.emit(func() { onPhase(index) }) {
				return
			}

		case <-activityTicker.C:
			dots = (dots + 1) % (s.activityMax + 1)
			indicator := strings.Repeat(".", dots)
			if !r.emit(func() { onActivity(indicator) }) {
				return
			}
		}
	}
}
