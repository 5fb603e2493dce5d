package sim

// ratioQueue is the non-preemptive queue shared by the response-ratio policies.
// Like ShortestProcessNext it reorders only when the head completes; scores
// are recomputed against the current tick at every reorder.
type ratioQueue struct {
	ready ReadyQueue
}

func (r *ratioQueue) selectNext(now int64, procs *ProcessTable, score func(Process, int64) float64) int {
	admit(&r.ready, now, procs)
	if dropDoneHead(&r.ready, procs) {
		reorderReady(&r.ready, now, func(idx []int) { orderByScore(idx, procs, now, score) })
	}
	if head, ok := r.ready.Peek(); ok {
		return head
	}
	return Idle
}

// HighestResponseRatioNext picks the process with the highest
// (wait + burst) / burst whenever the CPU frees up. Non-preemptive.
type HighestResponseRatioNext struct {
	ratioQueue
}

func (h *HighestResponseRatioNext) SelectNext(now int64, procs *ProcessTable) int {
	return h.selectNext(now, procs, ResponseRatio)
}

// ModifiedHRRN ranks by WeightedResponseRatio, giving foreground processes a
// fixed 0.5 bonus over the halved response ratio. Non-preemptive.
type ModifiedHRRN struct {
	ratioQueue
}

func (m *ModifiedHRRN) SelectNext(now int64, procs *ProcessTable) int {
	return m.selectNext(now, procs, WeightedResponseRatio)
}
