// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/proc-sim/sim/trace"
)

var (
	// ErrNilPolicy is returned by NewSimulator when no policy is supplied.
	ErrNilPolicy = errors.New("policy must not be nil")
	// ErrHorizonExceeded is returned by Run when processes remain unfinished past the horizon.
	ErrHorizonExceeded = errors.New("simulation horizon exceeded")
)

// Simulator is the dispatch loop: it holds the clock, the process table and
// the policy, and applies one policy decision per tick until every process is done.
type Simulator struct {
	Clock   int64
	Horizon int64 // last tick Run may execute
	Done    bool  // true once every process has finished

	Table  *ProcessTable
	Policy Policy
	// Trace receives one record per tick when enabled; may be nil.
	Trace *trace.SimulationTrace

	IdleTicks        int64
	Overruns         int // ticks in which a finished process was selected
	InvalidDecisions int // ticks in which the policy returned an out-of-range index
}

// Option configures optional Simulator settings.
type Option func(*Simulator)

// WithHorizon overrides the default horizon.
func WithHorizon(horizon int64) Option {
	return func(s *Simulator) {
		s.Horizon = horizon
	}
}

// WithTrace attaches a tick recorder.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *Simulator) {
		s.Trace = st
	}
}

// NewSimulator validates procs and builds a simulator over a fresh process table.
// policy must be a new instance that no other run has used.
//
// The default horizon is the last arrival plus the total burst of all
// processes: a policy that never leaves the CPU idle while work is ready
// always finishes by then.
func NewSimulator(procs []Process, policy Policy, opts ...Option) (*Simulator, error) {
	if err := ValidateProcesses(procs); err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrNilPolicy
	}
	var lastArrival, totalBurst int64
	for _, p := range procs {
		lastArrival = max(lastArrival, p.StartTime)
		totalBurst += p.TotalTimeNeeded
	}
	s := &Simulator{
		Clock:   0,
		Horizon: lastArrival + totalBurst,
		Table:   NewProcessTable(procs),
		Policy:  policy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step runs a single tick: ask the policy, charge the selected process,
// record the observation, and advance the clock unless everything is done.
func (sim *Simulator) Step() trace.TickRecord {
	rec := trace.TickRecord{
		Tick:     sim.Clock,
		Selected: trace.Idle,
		Markers:  make([]trace.Marker, sim.Table.Len()),
	}

	idx := sim.Policy.SelectNext(sim.Clock, sim.Table)
	switch {
	case idx == Idle:
	case !sim.Table.InRange(idx):
		sim.InvalidDecisions++
		logrus.Errorf("[tick %07d] policy %T returned out-of-range index %d; treating tick as idle", sim.Clock, sim.Policy, idx)
	default:
		rec.Selected = idx
		completed, err := sim.Table.RecordTick(idx, sim.Clock)
		switch {
		case errors.Is(err, ErrAlreadyDone):
			sim.Overruns++
			rec.Markers[idx] = trace.MarkerOverrun
			logrus.Errorf("[tick %07d] policy %T selected finished process %s", sim.Clock, sim.Policy, sim.Table.At(idx).ID)
		case err != nil:
			// unreachable: the index was range-checked above
			panic(fmt.Sprintf("record tick: %v", err))
		case completed:
			rec.Markers[idx] = trace.MarkerCompleted
		default:
			rec.Markers[idx] = trace.MarkerScheduled
		}
	}

	if rec.IsIdle() {
		sim.IdleTicks++
		logrus.Debugf("[tick %07d] idle", sim.Clock)
	} else {
		logrus.Debugf("[tick %07d] %s %s", sim.Clock, sim.Table.At(idx).ID, rec.Markers[idx])
	}

	sim.Done = sim.Table.AllDone()
	sim.Trace.RecordTick(rec)
	if !sim.Done {
		sim.Clock++
	}
	return rec
}

// Run steps the simulation until every process has finished.
// It returns ErrHorizonExceeded if the policy leaves work unfinished past the horizon.
func (sim *Simulator) Run() error {
	logrus.Infof("[tick %07d] Starting simulation of %d processes with %T", sim.Clock, sim.Table.Len(), sim.Policy)
	for !sim.Done {
		if sim.Clock > sim.Horizon {
			return fmt.Errorf("tick %d: %w (horizon %d)", sim.Clock, ErrHorizonExceeded, sim.Horizon)
		}
		sim.Step()
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// Completions returns the completion stream, one entry per process in table order.
// Entries for unfinished processes carry TimeFinished = -1.
func (sim *Simulator) Completions() []Completion {
	out := make([]Completion, sim.Table.Len())
	for i := range out {
		p := sim.Table.At(i)
		out[i] = Completion{
			ID:              p.ID,
			StartTime:       p.StartTime,
			TotalTimeNeeded: p.TotalTimeNeeded,
			TimeFinished:    p.TimeFinished,
		}
	}
	return out
}
