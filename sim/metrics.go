// Tracks per-process completion records and the run-level statistics derived
// from them: turnaround, normalized turnaround, idle time and utilisation.

package sim

import (
	"slices"
)

// Completion is one entry of the completion stream emitted when a run ends.
type Completion struct {
	ID              string `json:"id"`
	StartTime       int64  `json:"start_time"`
	TotalTimeNeeded int64  `json:"total_time_needed"`
	TimeFinished    int64  `json:"time_finished"` // tick of the final scheduled tick, -1 if unfinished
}

// FinishTime is the first tick after the process's last tick of service.
func (c Completion) FinishTime() int64 {
	return c.TimeFinished + 1
}

// Turnaround is FinishTime - StartTime.
func (c Completion) Turnaround() int64 {
	return c.TimeFinished + 1 - c.StartTime
}

// NormalizedTurnaround is Turnaround / TotalTimeNeeded; 1.0 means no waiting at all.
func (c Completion) NormalizedTurnaround() float64 {
	return float64(c.Turnaround()) / float64(c.TotalTimeNeeded)
}

// TimeFinishedFromTurnaround inverts Turnaround: it recovers TimeFinished from
// a start time and a turnaround value.
func TimeFinishedFromTurnaround(startTime, turnaround int64) int64 {
	return startTime + turnaround - 1
}

// Metrics aggregates statistics about a finished run for final reporting.
type Metrics struct {
	Completions []Completion `json:"completions"`

	Makespan                 int64   `json:"makespan"` // ticks from 0 to the last finish
	IdleTicks                int64   `json:"idle_ticks"`
	Overruns                 int     `json:"overruns"`
	InvalidDecisions         int     `json:"invalid_decisions"`
	Utilization              float64 `json:"utilization"` // busy ticks / makespan
	MeanTurnaround           float64 `json:"mean_turnaround"`
	MeanNormalizedTurnaround float64 `json:"mean_normalized_turnaround"`
	P90Turnaround            float64 `json:"p90_turnaround"`
	MaxTurnaround            int64   `json:"max_turnaround"`
}

// NewMetrics derives run statistics from a finished simulator.
func NewMetrics(sim *Simulator) *Metrics {
	m := &Metrics{
		Completions:      sim.Completions(),
		IdleTicks:        sim.IdleTicks,
		Overruns:         sim.Overruns,
		InvalidDecisions: sim.InvalidDecisions,
	}
	if len(m.Completions) == 0 {
		return m
	}

	turnarounds := make([]int64, 0, len(m.Completions))
	normalized := make([]float64, 0, len(m.Completions))
	for _, c := range m.Completions {
		if c.TimeFinished < 0 {
			continue
		}
		turnarounds = append(turnarounds, c.Turnaround())
		normalized = append(normalized, c.NormalizedTurnaround())
		m.Makespan = max(m.Makespan, c.FinishTime())
	}
	if len(turnarounds) == 0 {
		return m
	}
	slices.Sort(turnarounds)
	m.MeanTurnaround = CalculateMean(turnarounds)
	m.MeanNormalizedTurnaround = CalculateMean(normalized)
	m.P90Turnaround = CalculatePercentile(turnarounds, 90)
	m.MaxTurnaround = turnarounds[len(turnarounds)-1]
	if m.Makespan > 0 {
		m.Utilization = float64(m.Makespan-m.IdleTicks) / float64(m.Makespan)
	}
	return m
}
