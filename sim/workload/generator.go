package workload

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/proc-sim/sim"
)

var (
	validArrivalProcesses = map[string]bool{"": true, ArrivalUniform: true, ArrivalPoisson: true}
	validBurstDists       = map[string]bool{"": true, BurstUniform: true, BurstExponential: true}
)

// GeneratorConfig parameterizes synthetic process lists.
type GeneratorConfig struct {
	Count              int     `yaml:"count"`
	Arrival            string  `yaml:"arrival,omitempty"` // uniform (default) or poisson
	MaxInterarrival    int64   `yaml:"max_interarrival"`
	Burst              string  `yaml:"burst,omitempty"` // uniform (default) or exponential
	MinBurst           int64   `yaml:"min_burst"`
	MaxBurst           int64   `yaml:"max_burst"`
	BackgroundFraction float64 `yaml:"background_fraction"` // share of processes with priority 1
}

// DefaultGeneratorConfig returns a small mixed workload.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:              5,
		Arrival:            ArrivalUniform,
		MaxInterarrival:    3,
		Burst:              BurstUniform,
		MinBurst:           1,
		MaxBurst:           8,
		BackgroundFraction: 0.3,
	}
}

// Validate checks that cfg can produce a valid process list.
func (c *GeneratorConfig) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if !validArrivalProcesses[c.Arrival] {
		return fmt.Errorf("unknown arrival process %q; valid: uniform, poisson", c.Arrival)
	}
	if !validBurstDists[c.Burst] {
		return fmt.Errorf("unknown burst distribution %q; valid: uniform, exponential", c.Burst)
	}
	if c.MaxInterarrival < 0 {
		return fmt.Errorf("max_interarrival must be non-negative, got %d", c.MaxInterarrival)
	}
	if c.MinBurst < 1 {
		return fmt.Errorf("min_burst must be at least 1, got %d", c.MinBurst)
	}
	if c.MaxBurst < c.MinBurst {
		return fmt.Errorf("max_burst (%d) must be >= min_burst (%d)", c.MaxBurst, c.MinBurst)
	}
	if c.BackgroundFraction < 0 || c.BackgroundFraction > 1 {
		return fmt.Errorf("background_fraction must be in [0, 1], got %f", c.BackgroundFraction)
	}
	return nil
}

// Generate creates cfg.Count processes named p1..pN with non-decreasing start
// times, the first arriving at tick 0. Deterministic given the same cfg and
// rng state.
func Generate(cfg GeneratorConfig, rng *rand.Rand) ([]sim.Process, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	arrivals := NewArrivalSampler(cfg.Arrival, cfg.MaxInterarrival)
	bursts := NewBurstSampler(cfg.Burst, cfg.MinBurst, cfg.MaxBurst)

	procs := make([]sim.Process, cfg.Count)
	var start int64
	for i := range procs {
		if i > 0 {
			start += arrivals.SampleGap(rng)
		}
		prio := 0
		if rng.Float64() < cfg.BackgroundFraction {
			prio = 1
		}
		procs[i] = sim.Process{
			ID:              fmt.Sprintf("p%d", i+1),
			StartTime:       start,
			TotalTimeNeeded: bursts.Sample(rng),
			Priority:        prio,
		}
	}
	logrus.Debugf("generated %d processes, last arrival at tick %d", len(procs), start)
	return procs, nil
}
