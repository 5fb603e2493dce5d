package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/inference-sim/proc-sim/internal/store"
	"github.com/inference-sim/proc-sim/sim"
	"github.com/inference-sim/proc-sim/sim/trace"
	"github.com/inference-sim/proc-sim/sim/workload"
)

// maxBodyBytes caps the simulation request body.
const maxBodyBytes = 1 << 20

// SimulationRequest is the body of POST /api/v1/simulations.
type SimulationRequest struct {
	Policy       sim.PolicyConfig       `json:"policy"`
	Processes    []workload.ProcessSpec `json:"processes"`
	IncludeTicks bool                   `json:"include_ticks"`
}

// SimulationResult is the data of a successful simulation response.
type SimulationResult struct {
	RunID   string             `json:"run_id,omitempty"` // set when the run was persisted
	Policy  string             `json:"policy"`
	Metrics *sim.Metrics       `json:"metrics"`
	Gantt   []trace.Slice      `json:"gantt"`
	Ticks   []trace.TickRecord `json:"ticks,omitempty"`
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Policy.Validate(); err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeInvalidPolicy, err.Error())
		return
	}

	procs := workload.ToProcesses(req.Processes)
	if err := sim.ValidateProcesses(procs); err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeInvalidProcesses, err.Error())
		return
	}
	var work int64
	for _, p := range procs {
		work = max(work, p.StartTime)
	}
	for _, p := range procs {
		work += p.TotalTimeNeeded
	}
	if work > s.maxTicks {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeTooLarge,
			fmt.Sprintf("workload needs up to %d ticks, limit is %d", work, s.maxTicks))
		return
	}

	// Trace is always recorded: the Gantt slices come from it.
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTicks})
	simulator, err := sim.NewSimulator(procs, sim.NewPolicy(req.Policy), sim.WithTrace(st))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrCodeInvalidProcesses, err.Error())
		return
	}
	if err := simulator.Run(); err != nil {
		status := http.StatusInternalServerError
		code := ErrCodeInternal
		if errors.Is(err, sim.ErrHorizonExceeded) {
			status, code = http.StatusUnprocessableEntity, ErrCodeHorizonExceeded
		}
		s.logger.WithField("request_id", reqID).Errorf("simulation failed: %v", err)
		respondError(w, reqID, status, code, err.Error())
		return
	}

	metrics := sim.NewMetrics(simulator)
	result := SimulationResult{
		Policy:  req.Policy.String(),
		Metrics: metrics,
		Gantt:   trace.GanttSlices(st.Ticks),
	}
	if req.IncludeTicks {
		result.Ticks = st.Ticks
	}

	if s.store != nil {
		rec := store.NewRunRecord(req.Policy, simulator, metrics)
		if err := s.store.SaveRun(r.Context(), rec); err != nil {
			s.logger.WithField("request_id", reqID).Errorf("save run: %v", err)
			respondError(w, reqID, http.StatusInternalServerError, ErrCodeInternal, "failed to persist run")
			return
		}
		result.RunID = rec.ID
	}
	respondCreated(w, reqID, result)
}
