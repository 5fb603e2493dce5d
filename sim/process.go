// Defines the Process struct that models one simulated job and the ProcessTable
// that the dispatch loop mutates tick by tick.

package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by RecordTick for an index outside the table.
	ErrIndexOutOfRange = errors.New("process index out of range")
	// ErrAlreadyDone is returned by RecordTick when the process has already finished.
	ErrAlreadyDone = errors.New("process already done")

	// ErrNoProcesses is returned by ValidateProcesses for an empty process list.
	ErrNoProcesses = errors.New("no processes")
	// ErrInvalidProcess is returned by ValidateProcesses for a malformed process.
	ErrInvalidProcess = errors.New("invalid process")
)

// ValidateProcesses checks a process list before a run: at least one process,
// non-empty unique IDs, StartTime >= 0 and TotalTimeNeeded >= 1.
func ValidateProcesses(procs []Process) error {
	if len(procs) == 0 {
		return ErrNoProcesses
	}
	seen := make(map[string]bool, len(procs))
	for i, p := range procs {
		switch {
		case p.ID == "":
			return fmt.Errorf("process %d: %w: empty id", i, ErrInvalidProcess)
		case seen[p.ID]:
			return fmt.Errorf("process %q: %w: duplicate id", p.ID, ErrInvalidProcess)
		case p.StartTime < 0:
			return fmt.Errorf("process %q: %w: start time must be non-negative, got %d", p.ID, ErrInvalidProcess, p.StartTime)
		case p.TotalTimeNeeded < 1:
			return fmt.Errorf("process %q: %w: total time needed must be at least 1, got %d", p.ID, ErrInvalidProcess, p.TotalTimeNeeded)
		}
		seen[p.ID] = true
	}
	return nil
}

// Process models a single job's scheduling state.
// StartTime, TotalTimeNeeded and Priority are fixed at load time; the
// remaining fields are owned by the ProcessTable.
type Process struct {
	ID              string // Unique identifier within a run
	StartTime       int64  // Tick at which the process becomes eligible
	TotalTimeNeeded int64  // CPU ticks required to finish (burst), >= 1
	Priority        int    // 0 = foreground (high), anything else = background (low)

	TimeScheduled int64 // Ticks received so far
	QuantumTime   int64 // Ticks received since the last queue placement
	IsDone        bool  // True once TimeScheduled == TotalTimeNeeded
	TimeFinished  int64 // Tick at which IsDone became true, -1 until then
}

// Remaining returns the CPU ticks still needed.
func (p Process) Remaining() int64 {
	return p.TotalTimeNeeded - p.TimeScheduled
}

// Foreground reports whether the process belongs to the high priority class.
func (p Process) Foreground() bool {
	return p.Priority == 0
}

func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %s, Start: %d, Burst: %d, Scheduled: %d, Done: %v)",
		p.ID, p.StartTime, p.TotalTimeNeeded, p.TimeScheduled, p.IsDone)
}

// ProcessTable is the fixed-size, index-addressed set of processes for one run.
// Only the dispatch loop calls RecordTick; only level-migrating policies call ResetQuantum.
type ProcessTable struct {
	procs []Process
}

// NewProcessTable copies procs into a fresh table with all dynamic fields reset.
func NewProcessTable(procs []Process) *ProcessTable {
	t := &ProcessTable{procs: make([]Process, len(procs))}
	for i, p := range procs {
		t.procs[i] = Process{
			ID:              p.ID,
			StartTime:       p.StartTime,
			TotalTimeNeeded: p.TotalTimeNeeded,
			Priority:        p.Priority,
			TimeFinished:    -1,
		}
	}
	return t
}

// Len returns the number of processes.
func (t *ProcessTable) Len() int {
	return len(t.procs)
}

// At returns a copy of the process at index i. Panics if i is out of range.
func (t *ProcessTable) At(i int) Process {
	return t.procs[i]
}

// InRange reports whether i addresses a process in the table.
func (t *ProcessTable) InRange(i int) bool {
	return i >= 0 && i < len(t.procs)
}

// RecordTick charges one tick of CPU to process i at tick now.
// It returns completed=true on the tick the process finishes. A finished or
// out-of-range process is left untouched and an error is returned instead,
// so TimeScheduled never exceeds TotalTimeNeeded.
func (t *ProcessTable) RecordTick(i int, now int64) (completed bool, err error) {
	if !t.InRange(i) {
		return false, fmt.Errorf("record tick %d: %w", i, ErrIndexOutOfRange)
	}
	p := &t.procs[i]
	if p.IsDone {
		return false, fmt.Errorf("record tick %q: %w", p.ID, ErrAlreadyDone)
	}
	p.TimeScheduled++
	p.QuantumTime++
	if p.TimeScheduled == p.TotalTimeNeeded {
		p.IsDone = true
		p.TimeFinished = now
		return true, nil
	}
	return false, nil
}

// ResetQuantum zeroes the per-level service counter of process i.
// Called by policies that move a process between queues.
func (t *ProcessTable) ResetQuantum(i int) {
	if t.InRange(i) {
		t.procs[i].QuantumTime = 0
	}
}

// AllDone reports whether every process has finished.
func (t *ProcessTable) AllDone() bool {
	for i := range t.procs {
		if !t.procs[i].IsDone {
			return false
		}
	}
	return true
}

// Processes returns a copy of the table contents.
func (t *ProcessTable) Processes() []Process {
	out := make([]Process, len(t.procs))
	copy(out, t.procs)
	return out
}

// arrivals returns the indices of processes whose StartTime equals now, in table order.
func (t *ProcessTable) arrivals(now int64) []int {
	var idx []int
	for i := range t.procs {
		if t.procs[i].StartTime == now {
			idx = append(idx, i)
		}
	}
	return idx
}
