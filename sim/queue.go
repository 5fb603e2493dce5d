// Implements the ReadyQueue, the ordered list of process indices a policy
// considers for the CPU. Processes are enqueued on arrival.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO sequence of process-table indices.
// Each policy instance owns its queues exclusively; the head is the process
// currently holding (or about to receive) the CPU.
type ReadyQueue struct {
	queue []int
}

// Enqueue adds a process index to the back of the queue.
func (rq *ReadyQueue) Enqueue(idx int) {
	rq.queue = append(rq.queue, idx)
}

// PrependFront inserts a process index at the front of the queue.
// Used for preemption: a shorter arrival takes the head position.
func (rq *ReadyQueue) PrependFront(idx int) {
	rq.queue = append([]int{idx}, rq.queue...)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range rq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of queued processes.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the head index without removing it.
// ok is false when the queue is empty.
func (rq *ReadyQueue) Peek() (idx int, ok bool) {
	if len(rq.queue) == 0 {
		return Idle, false
	}
	return rq.queue[0], true
}

// Dequeue removes and returns the head index.
// ok is false when the queue is empty.
func (rq *ReadyQueue) Dequeue() (idx int, ok bool) {
	if len(rq.queue) == 0 {
		return Idle, false
	}
	idx = rq.queue[0]
	rq.queue = rq.queue[1:]
	return idx, true
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage; callers MUST NOT
// append to or reslice it. Use Reorder to sort.
func (rq *ReadyQueue) Items() []int {
	return rq.queue
}

// Reorder applies fn to the queue contents, allowing in-place sorting.
// fn MUST NOT change the slice length.
func (rq *ReadyQueue) Reorder(fn func([]int)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(rq.queue)
	fn(rq.queue)
	if len(rq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(rq.queue)))
	}
}
