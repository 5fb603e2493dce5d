// Package sim provides the core tick-driven scheduler simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process state (arrival, burst, progress, completion) and the ProcessTable
//   - policy.go: the Policy interface and the NewPolicy factory
//   - simulator.go: the dispatch loop that asks the policy once per tick and charges the winner
//
// # Architecture
//
// The sim package holds the process table, the ready queue, the eight policies
// and the dispatch loop; supporting code lives in sub-packages:
//   - sim/trace/: per-tick observation records and summaries
//   - sim/workload/: process-list loading and seeded synthetic generation
//   - sim/report/: tick table, Gantt and statistics rendering
//
// # Policies
//
// Every policy is a stateful value whose ready queues survive between
// SelectNext calls, so one instance serves exactly one run:
//   - RoundRobin, FIFO (policy_rr.go)
//   - ShortestProcessNext, ShortestRemainingTime (policy_shortest.go)
//   - HighestResponseRatioNext, ModifiedHRRN (policy_hrrn.go)
//   - MultilevelQueue, MultilevelFeedbackQueue (policy_multilevel.go)
//
// Reordering policies share the orderings in scheduler.go: equal primary keys
// always fall back to the earlier StartTime.
package sim
