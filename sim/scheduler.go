package sim

import (
	"sort"
)

// Queue orderings shared by the reordering policies. Each sorts a slice of
// process-table indices in place with sort.SliceStable; equal primary keys
// fall back to ascending StartTime, and equal StartTime keeps queue order.

// ResponseRatio returns (wait + burst) / burst for p at tick now,
// where wait = now - StartTime and burst = TotalTimeNeeded.
func ResponseRatio(p Process, now int64) float64 {
	wait := float64(now - p.StartTime)
	burst := float64(p.TotalTimeNeeded)
	return (wait + burst) / burst
}

// WeightedResponseRatio blends the binary priority class with the response ratio:
// 0.5*inverted + 0.5*ratio, where inverted is 1 for foreground processes and 0 otherwise.
func WeightedResponseRatio(p Process, now int64) float64 {
	inverted := 0.0
	if p.Foreground() {
		inverted = 1.0
	}
	return 0.5*inverted + 0.5*ResponseRatio(p, now)
}

// orderByBurst sorts by TotalTimeNeeded ascending, then StartTime ascending.
func orderByBurst(idx []int, procs *ProcessTable) {
	sort.SliceStable(idx, func(i, j int) bool {
		pi, pj := procs.At(idx[i]), procs.At(idx[j])
		if pi.TotalTimeNeeded != pj.TotalTimeNeeded {
			return pi.TotalTimeNeeded < pj.TotalTimeNeeded
		}
		return pi.StartTime < pj.StartTime
	})
}

// orderByRemaining sorts by remaining time ascending, then StartTime ascending.
func orderByRemaining(idx []int, procs *ProcessTable) {
	sort.SliceStable(idx, func(i, j int) bool {
		pi, pj := procs.At(idx[i]), procs.At(idx[j])
		if pi.Remaining() != pj.Remaining() {
			return pi.Remaining() < pj.Remaining()
		}
		return pi.StartTime < pj.StartTime
	})
}

// orderByScore sorts by score descending, then StartTime ascending.
// Scores are computed once per sort against the current tick.
func orderByScore(idx []int, procs *ProcessTable, now int64, score func(Process, int64) float64) {
	scores := make(map[int]float64, len(idx))
	for _, i := range idx {
		scores[i] = score(procs.At(i), now)
	}
	sort.SliceStable(idx, func(i, j int) bool {
		si, sj := scores[idx[i]], scores[idx[j]]
		// Float != is exact here: both sides come from the same expression on integer inputs.
		if si != sj {
			return si > sj
		}
		return procs.At(idx[i]).StartTime < procs.At(idx[j]).StartTime
	})
}
