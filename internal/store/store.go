package store

import (
	"context"
	"time"

	"github.com/inference-sim/proc-sim/sim"
)

// RunRecord is one finished simulation as kept in the run history.
type RunRecord struct {
	ID                       string           `json:"id"`
	Policy                   string           `json:"policy"`
	Params                   sim.PolicyConfig `json:"params"`
	CreatedAt                time.Time        `json:"created_at"`
	TotalTicks               int64            `json:"total_ticks"`
	IdleTicks                int64            `json:"idle_ticks"`
	Overruns                 int              `json:"overruns"`
	MeanTurnaround           float64          `json:"mean_turnaround"`
	MeanNormalizedTurnaround float64          `json:"mean_normalized_turnaround"`
	Completions              []sim.Completion `json:"completions"`
}

// NewRunRecord summarizes a finished simulator run under cfg.
// ID and CreatedAt are assigned by SaveRun when left empty.
func NewRunRecord(cfg sim.PolicyConfig, s *sim.Simulator, m *sim.Metrics) *RunRecord {
	name := cfg.Name
	if name == "" {
		name = sim.PolicyFIFO
	}
	return &RunRecord{
		Policy:                   name,
		Params:                   cfg,
		TotalTicks:               s.Clock + 1,
		IdleTicks:                m.IdleTicks,
		Overruns:                 m.Overruns,
		MeanTurnaround:           m.MeanTurnaround,
		MeanNormalizedTurnaround: m.MeanNormalizedTurnaround,
		Completions:              m.Completions,
	}
}

// Store defines the persistence layer for run history.
type Store interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
