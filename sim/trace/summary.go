package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks      int
	IdleTicks       int
	Overruns        int
	ContextSwitches int         // changes of the running process, idle excluded
	TicksByProcess  map[int]int // process index → ticks selected
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TicksByProcess: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	last := Idle
	for _, rec := range st.Ticks {
		if rec.IsIdle() {
			summary.IdleTicks++
			continue
		}
		summary.TicksByProcess[rec.Selected]++
		if rec.Selected < len(rec.Markers) && rec.Markers[rec.Selected] == MarkerOverrun {
			summary.Overruns++
		}
		if last != Idle && last != rec.Selected {
			summary.ContextSwitches++
		}
		last = rec.Selected
	}
	return summary
}

// Slice is a maximal run of consecutive ticks given to one process.
// Stop is exclusive.
type Slice struct {
	Index int   `json:"index"`
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
}

// GanttSlices collapses tick records into per-process slices, skipping idle ticks.
func GanttSlices(ticks []TickRecord) []Slice {
	var slices []Slice
	for _, rec := range ticks {
		if rec.IsIdle() {
			continue
		}
		n := len(slices)
		if n > 0 && slices[n-1].Index == rec.Selected && slices[n-1].Stop == rec.Tick {
			slices[n-1].Stop = rec.Tick + 1
			continue
		}
		slices = append(slices, Slice{Index: rec.Selected, Start: rec.Tick, Stop: rec.Tick + 1})
	}
	return slices
}
