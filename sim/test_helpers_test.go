package sim

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/proc-sim/sim/trace"
)

func TestMain(m *testing.M) {
	// Suppress per-tick simulation logs during tests.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./sim/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// proc builds a process descriptor as loaded from input.
func proc(id string, start, burst int64, priority int) Process {
	return Process{ID: id, StartTime: start, TotalTimeNeeded: burst, Priority: priority}
}

// allPolicyConfigs returns one valid configuration per policy.
func allPolicyConfigs() []PolicyConfig {
	return []PolicyConfig{
		{Name: PolicyRoundRobin, Quantum: 2},
		{Name: PolicyShortestProcessNext},
		{Name: PolicyShortestRemainingTime},
		{Name: PolicyHighestResponseRatio},
		{Name: PolicyModifiedHRRN},
		{Name: PolicyFIFO},
		{Name: PolicyMultilevelQueue, Quantum: 2},
		{Name: PolicyMultilevelFeedbackQueue, Quantum: 2, HighQuantum: 3, LowQuantum: 2},
	}
}

// runToCompletion runs procs under a fresh instance of cfg with tick tracing on.
func runToCompletion(t *testing.T, procs []Process, cfg PolicyConfig) (*Simulator, *trace.SimulationTrace) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTicks})
	s, err := NewSimulator(procs, NewPolicy(cfg), WithTrace(st))
	require.NoError(t, err)
	require.NoError(t, s.Run())
	return s, st
}

// schedule renders the selected process of every tick as a space separated
// list of IDs, "-" for idle.
func schedule(s *Simulator, st *trace.SimulationTrace) string {
	parts := make([]string, len(st.Ticks))
	for i, rec := range st.Ticks {
		if rec.IsIdle() {
			parts[i] = "-"
			continue
		}
		parts[i] = s.Table.At(rec.Selected).ID
	}
	return strings.Join(parts, " ")
}

// stepPolicy performs one dispatch-loop tick by hand: select, then charge.
func stepPolicy(t *testing.T, p Policy, table *ProcessTable, now int64) int {
	t.Helper()
	idx := p.SelectNext(now, table)
	if idx != Idle {
		_, err := table.RecordTick(idx, now)
		require.NoError(t, err, "tick %d: policy selected %d", now, idx)
	}
	return idx
}

// randomProcesses builds a reproducible mixed workload with arrivals in [0, spread).
func randomProcesses(seed int64, n int, spread int64) []Process {
	rng := rand.New(rand.NewSource(seed))
	procs := make([]Process, n)
	for i := range procs {
		procs[i] = Process{
			ID:              fmt.Sprintf("p%d", i),
			StartTime:       rng.Int63n(spread),
			TotalTimeNeeded: 1 + rng.Int63n(8),
			Priority:        rng.Intn(2),
		}
	}
	return procs
}
