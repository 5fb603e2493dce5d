package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/proc-sim/internal/store"
	sim "github.com/inference-sim/proc-sim/sim"
	"github.com/inference-sim/proc-sim/sim/report"
	"github.com/inference-sim/proc-sim/sim/trace"
	"github.com/inference-sim/proc-sim/sim/workload"
)

var (
	// CLI flags for the run command
	processesPath    string // Process list file (.yaml/.yml or text format)
	policyName       string // Scheduling policy
	quantum          int    // Time slice for rr, mlq and mlfq
	highQuantum      int    // mlfq demotion threshold
	lowQuantum       int    // mlfq promotion threshold
	policyConfigPath string // YAML policy configuration; flags override its values
	horizon          int64  // Last tick the run may execute; 0 = derived from the workload
	logLevel         string // Log verbosity level
	showTicks        bool   // Print the per-tick table
	showGantt        bool   // Print the Gantt strip
	dbPath           string // SQLite run history; empty = do not persist
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "proc-sim",
	Short: "Tick-driven single-CPU process scheduling simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runOptions selects what runSimulation prints and where it persists.
type runOptions struct {
	Horizon int64
	Ticks   bool
	Gantt   bool
	DBPath  string
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a process list under one scheduling policy",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolvePolicyConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid policy configuration: %v", err)
		}
		procs, err := workload.LoadProcesses(processesPath)
		if err != nil {
			logrus.Fatalf("Failed to load processes: %v", err)
		}
		opts := runOptions{Horizon: horizon, Ticks: showTicks, Gantt: showGantt, DBPath: dbPath}
		if _, err := runSimulation(cmd.Context(), os.Stdout, procs, cfg, opts); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// resolvePolicyConfig loads --policy-config if given, then applies every
// policy flag the user set explicitly, and validates the result.
func resolvePolicyConfig(cmd *cobra.Command) (sim.PolicyConfig, error) {
	var cfg sim.PolicyConfig
	if policyConfigPath != "" {
		loaded, err := sim.LoadPolicyConfig(policyConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
		logrus.Infof("Loaded policy configuration from %s", policyConfigPath)
	}
	flags := cmd.Flags()
	if flags.Changed("policy") || policyConfigPath == "" {
		cfg.Name = policyName
	}
	if flags.Changed("quantum") || cfg.Quantum == 0 {
		cfg.Quantum = quantum
	}
	if flags.Changed("high-quantum") || cfg.HighQuantum == 0 {
		cfg.HighQuantum = highQuantum
	}
	if flags.Changed("low-quantum") || cfg.LowQuantum == 0 {
		cfg.LowQuantum = lowQuantum
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runSimulation runs procs under a fresh policy for cfg, writes the report to
// w, and saves the run when opts.DBPath is set.
func runSimulation(ctx context.Context, w io.Writer, procs []sim.Process, cfg sim.PolicyConfig, opts runOptions) (*sim.Metrics, error) {
	simOpts := []sim.Option{}
	var st *trace.SimulationTrace
	if opts.Ticks || opts.Gantt {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTicks})
		simOpts = append(simOpts, sim.WithTrace(st))
	}
	if opts.Horizon > 0 {
		simOpts = append(simOpts, sim.WithHorizon(opts.Horizon))
	}

	s, err := sim.NewSimulator(procs, sim.NewPolicy(cfg), simOpts...)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Policy: %s", cfg)
	runErr := s.Run()
	metrics := sim.NewMetrics(s)

	fmt.Fprintf(w, "\nSimulation of %d processes under %s\n\n", len(procs), cfg)
	if opts.Ticks {
		report.WriteLegend(w)
		fmt.Fprintln(w)
		report.WriteTickTable(w, s.Table.Processes(), st.Ticks)
		fmt.Fprintln(w)
	}
	if opts.Gantt {
		report.WriteGantt(w, s.Table.Processes(), trace.GanttSlices(st.Ticks))
	}
	fmt.Fprintln(w, "Run Statistics:")
	report.WriteStats(w, metrics)
	fmt.Fprintln(w)
	report.WriteSummary(w, metrics, trace.Summarize(st))

	if runErr != nil {
		return metrics, runErr
	}
	if opts.DBPath != "" {
		if err := saveRun(ctx, opts.DBPath, store.NewRunRecord(cfg, s, metrics)); err != nil {
			return metrics, err
		}
	}
	return metrics, nil
}

// saveRun appends rec to the run history at path.
func saveRun(ctx context.Context, path string, rec *store.RunRecord) error {
	st, err := openStore(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveRun(ctx, rec); err != nil {
		return err
	}
	logrus.Infof("Saved run %s to %s", rec.ID, path)
	return nil
}

// openStore opens and migrates the SQLite run history at path.
func openStore(ctx context.Context, path string) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return st, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Registers flags and attaches subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&processesPath, "processes", "", "Process list file (.yaml/.yml, or the text format: count then 'id start burst priority' rows)")
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyFIFO, "Scheduling policy (rr, spn, srt, hrrn, modified-hrrn, fifo, mlq, mlfq)")
	runCmd.Flags().IntVar(&quantum, "quantum", 0, "Time quantum for rr, mlq and mlfq")
	runCmd.Flags().IntVar(&highQuantum, "high-quantum", 0, "mlfq: foreground ticks before demotion")
	runCmd.Flags().IntVar(&lowQuantum, "low-quantum", 0, "mlfq: background ticks before promotion")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "YAML policy configuration file")
	runCmd.Flags().Int64Var(&horizon, "horizon", 0, "Last tick the simulation may run (0 = last arrival + total burst)")
	runCmd.Flags().BoolVar(&showTicks, "ticks", true, "Print the per-tick table")
	runCmd.Flags().BoolVar(&showGantt, "gantt", false, "Print the Gantt schedule")
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to record the run in")
	_ = runCmd.MarkFlagRequired("processes")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
