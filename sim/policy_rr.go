package sim

// rrQueue is a ready queue served in fixed time slices.
// remaining counts the ticks left in the head's slice.
type rrQueue struct {
	queue     ReadyQueue
	quantum   int
	remaining int
}

func newRRQueue(quantum int) rrQueue {
	return rrQueue{quantum: quantum, remaining: quantum}
}

// next rotates the queue if the head's slice is used up or the head finished,
// then returns the head. An empty queue returns ok=false and zeroes the slice
// counter, so the first tick with work rotates the queue before serving it.
func (r *rrQueue) next(procs *ProcessTable) (int, bool) {
	if head, ok := r.queue.Peek(); ok && (r.remaining <= 0 || procs.At(head).IsDone) {
		r.queue.Dequeue()
		if !procs.At(head).IsDone {
			r.queue.Enqueue(head)
		}
		r.restart()
	}
	if head, ok := r.queue.Peek(); ok {
		r.remaining--
		return head, true
	}
	r.remaining = 0
	return Idle, false
}

// restart gives whatever is at the head a full slice.
func (r *rrQueue) restart() {
	r.remaining = r.quantum
}

// RoundRobin serves arrivals in FIFO order, moving the running process to the
// back of the queue after Quantum ticks.
type RoundRobin struct {
	rr rrQueue
}

// NewRoundRobin creates a RoundRobin policy with the given time quantum.
func NewRoundRobin(quantum int) *RoundRobin {
	return &RoundRobin{rr: newRRQueue(quantum)}
}

func (r *RoundRobin) SelectNext(now int64, procs *ProcessTable) int {
	admit(&r.rr.queue, now, procs)
	idx, _ := r.rr.next(procs)
	return idx
}

// FIFO runs processes to completion in arrival order. Non-preemptive.
type FIFO struct {
	ready ReadyQueue
}

func (f *FIFO) SelectNext(now int64, procs *ProcessTable) int {
	admit(&f.ready, now, procs)
	dropDoneHead(&f.ready, procs)
	if head, ok := f.ready.Peek(); ok {
		return head
	}
	return Idle
}
