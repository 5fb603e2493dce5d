package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Idle is returned by a Policy when no process should occupy the CPU.
const Idle = -1

// Policy picks the process that occupies the CPU for the tick now.
// It returns a process-table index or Idle.
// Implementations keep their ready queues on the instance, so one instance
// serves exactly one run. Implementations MUST NOT call RecordTick.
type Policy interface {
	SelectNext(now int64, procs *ProcessTable) int
}

// Policy names accepted by NewPolicy.
const (
	PolicyRoundRobin              = "rr"
	PolicyShortestProcessNext     = "spn"
	PolicyShortestRemainingTime   = "srt"
	PolicyHighestResponseRatio    = "hrrn"
	PolicyModifiedHRRN            = "modified-hrrn"
	PolicyFIFO                    = "fifo"
	PolicyMultilevelQueue         = "mlq"
	PolicyMultilevelFeedbackQueue = "mlfq"
)

// NewPolicy creates a fresh Policy instance for cfg.Name.
// Empty name defaults to FIFO. Quantum parameters are taken from cfg as-is;
// call cfg.Validate first. Panics on unrecognized names.
func NewPolicy(cfg PolicyConfig) Policy {
	if !IsValidPolicy(cfg.Name) {
		panic(fmt.Sprintf("unknown policy %q", cfg.Name))
	}
	switch cfg.Name {
	case PolicyRoundRobin:
		return NewRoundRobin(cfg.Quantum)
	case PolicyShortestProcessNext:
		return &ShortestProcessNext{}
	case PolicyShortestRemainingTime:
		return &ShortestRemainingTime{}
	case PolicyHighestResponseRatio:
		return &HighestResponseRatioNext{}
	case PolicyModifiedHRRN:
		return &ModifiedHRRN{}
	case "", PolicyFIFO:
		return &FIFO{}
	case PolicyMultilevelQueue:
		return NewMultilevelQueue(cfg.Quantum)
	case PolicyMultilevelFeedbackQueue:
		return NewMultilevelFeedbackQueue(cfg.Quantum, cfg.HighQuantum, cfg.LowQuantum)
	default:
		panic(fmt.Sprintf("unhandled policy %q", cfg.Name))
	}
}

// admit appends every process arriving at tick now to the back of q.
func admit(q *ReadyQueue, now int64, procs *ProcessTable) {
	for _, i := range procs.arrivals(now) {
		q.Enqueue(i)
	}
}

// dropDoneHead removes the head of q if it has finished and reports whether it did.
// Only the head ever runs, so it is the only entry that can be done.
func dropDoneHead(q *ReadyQueue, procs *ProcessTable) bool {
	if head, ok := q.Peek(); ok && procs.At(head).IsDone {
		q.Dequeue()
		return true
	}
	return false
}

// reorderReady sorts q with order and logs the resulting queue.
func reorderReady(q *ReadyQueue, now int64, order func([]int)) {
	q.Reorder(order)
	logrus.Debugf("[tick %07d] reordered %d ready processes: %s", now, q.Len(), q)
}
