package sim

// ShortestProcessNext runs the queued process with the smallest burst to
// completion before choosing again. Non-preemptive.
//
// The queue is reordered only on the tick its head completes; until then
// arrivals wait in arrival order behind the head.
type ShortestProcessNext struct {
	ready ReadyQueue
}

func (s *ShortestProcessNext) SelectNext(now int64, procs *ProcessTable) int {
	admit(&s.ready, now, procs)
	if dropDoneHead(&s.ready, procs) {
		reorderReady(&s.ready, now, func(idx []int) { orderByBurst(idx, procs) })
	}
	if head, ok := s.ready.Peek(); ok {
		return head
	}
	return Idle
}

// ShortestRemainingTime always runs the queued process with the least
// remaining time. Preemptive: a new arrival shorter than the running
// process's remaining time takes the CPU on its arrival tick.
type ShortestRemainingTime struct {
	ready ReadyQueue
}

func (s *ShortestRemainingTime) SelectNext(now int64, procs *ProcessTable) int {
	dropDoneHead(&s.ready, procs)
	for _, i := range procs.arrivals(now) {
		head, ok := s.ready.Peek()
		if ok && procs.At(i).TotalTimeNeeded < procs.At(head).Remaining() {
			s.ready.PrependFront(i)
		} else {
			s.ready.Enqueue(i)
		}
	}
	s.ready.Reorder(func(idx []int) { orderByRemaining(idx, procs) })
	if head, ok := s.ready.Peek(); ok {
		return head
	}
	return Idle
}
