package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/proc-sim/internal/store"
	"github.com/inference-sim/proc-sim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
}

func testStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func do(t *testing.T, srv *Server, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "%s %s: invalid JSON: %s", method, path, w.Body.String())
	return w.Code, env
}

const srtBody = `{
  "policy": {"policy": "srt"},
  "processes": [
    {"id": "p1", "start": 0, "burst": 5},
    {"id": "p2", "start": 1, "burst": 3},
    {"id": "p3", "start": 2, "burst": 1}
  ],
  "include_ticks": true
}`

func TestHealth(t *testing.T) {
	code, env := do(t, New(), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", env.Status)

	var data healthResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "healthy", data.Status)
	assert.Equal(t, "none", data.Store)
	assert.NotEmpty(t, data.GoVersion)
}

func TestResponseEnvelope_RequestID(t *testing.T) {
	srv := New()
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, strings.HasPrefix(env.RequestID, "req_"), "request_id = %q", env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, env.Timestamp)
}

func TestListPolicies(t *testing.T) {
	code, env := do(t, New(), "GET", "/api/v1/policies", "")
	assert.Equal(t, http.StatusOK, code)
	var names []string
	require.NoError(t, json.Unmarshal(env.Data, &names))
	assert.Equal(t, sim.PolicyNames(), names)
}

func TestCreateSimulation_ReturnsMetricsAndTicks(t *testing.T) {
	// GIVEN a server without a store
	srv := New()

	// WHEN the SRT fixture is posted
	code, env := do(t, srv, "POST", "/api/v1/simulations", srtBody)

	// THEN the run succeeds with the expected statistics
	require.Equal(t, http.StatusCreated, code, "error: %+v", env.Error)
	var res SimulationResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Empty(t, res.RunID)
	assert.Equal(t, "srt", res.Policy)
	assert.InDelta(t, 14.0/3.0, res.Metrics.MeanTurnaround, 1e-9)
	assert.Equal(t, int64(9), res.Metrics.Makespan)
	assert.Len(t, res.Ticks, 9)
	// p1 p2 p3 p2 p1
	require.Len(t, res.Gantt, 5)
	assert.Equal(t, 0, res.Gantt[0].Index)
	assert.Equal(t, int64(5), res.Gantt[4].Start)
	assert.Equal(t, int64(9), res.Gantt[4].Stop)
}

func TestCreateSimulation_TicksOmittedByDefault(t *testing.T) {
	body := `{"policy": {"policy": "fifo"}, "processes": [{"id": "a", "start": 0, "burst": 2}]}`
	code, env := do(t, New(), "POST", "/api/v1/simulations", body)
	require.Equal(t, http.StatusCreated, code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.NotContains(t, raw, "ticks")
	assert.Contains(t, raw, "gantt")
}

func TestCreateSimulation_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"policy":`, ErrCodeBadRequest},
		{"unknown field", `{"policy": {"policy": "fifo"}, "procs": []}`, ErrCodeBadRequest},
		{"unknown policy", `{"policy": {"policy": "lottery"}, "processes": [{"id": "a", "burst": 1}]}`, ErrCodeInvalidPolicy},
		{"rr without quantum", `{"policy": {"policy": "rr"}, "processes": [{"id": "a", "burst": 1}]}`, ErrCodeInvalidPolicy},
		{"no processes", `{"policy": {"policy": "fifo"}, "processes": []}`, ErrCodeInvalidProcesses},
		{"zero burst", `{"policy": {"policy": "fifo"}, "processes": [{"id": "a", "burst": 0}]}`, ErrCodeInvalidProcesses},
		{"duplicate id", `{"policy": {"policy": "fifo"}, "processes": [{"id": "a", "burst": 1}, {"id": "a", "burst": 1}]}`, ErrCodeInvalidProcesses},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do(t, New(), "POST", "/api/v1/simulations", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantCode, env.Error.Code)
		})
	}
}

func TestCreateSimulation_TooLarge(t *testing.T) {
	srv := New(WithMaxTicks(10))
	body := `{"policy": {"policy": "fifo"}, "processes": [{"id": "a", "start": 5, "burst": 6}]}`
	code, env := do(t, srv, "POST", "/api/v1/simulations", body)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeTooLarge, env.Error.Code)
}

func TestRuns_WithoutStore_Unavailable(t *testing.T) {
	srv := New()
	for _, path := range []string{"/api/v1/runs", "/api/v1/runs/abc"} {
		code, env := do(t, srv, "GET", path, "")
		assert.Equal(t, http.StatusServiceUnavailable, code, path)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeUnavailable, env.Error.Code)
	}
}

func TestRuns_PersistedAndRetrievable(t *testing.T) {
	// GIVEN a server with a store
	srv := New(WithStore(testStore(t)))

	// WHEN a simulation is posted
	code, env := do(t, srv, "POST", "/api/v1/simulations", srtBody)
	require.Equal(t, http.StatusCreated, code)
	var res SimulationResult
	require.NoError(t, json.Unmarshal(env.Data, &res))

	// THEN it has a run id that can be fetched
	require.NotEmpty(t, res.RunID)
	code, env = do(t, srv, "GET", "/api/v1/runs/"+res.RunID, "")
	require.Equal(t, http.StatusOK, code)
	var run store.RunRecord
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, res.RunID, run.ID)
	assert.Equal(t, "srt", run.Policy)
	assert.Len(t, run.Completions, 3)

	// THEN it appears in the listing
	code, env = do(t, srv, "GET", "/api/v1/runs?limit=5", "")
	require.Equal(t, http.StatusOK, code)
	var runs []store.RunRecord
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
}

func TestGetRun_Missing_NotFound(t *testing.T) {
	srv := New(WithStore(testStore(t)))
	code, env := do(t, srv, "GET", "/api/v1/runs/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeNotFound, env.Error.Code)
}

func TestListRuns_BadLimit(t *testing.T) {
	srv := New(WithStore(testStore(t)))
	for _, q := range []string{"0", "-3", "ten"} {
		code, _ := do(t, srv, "GET", "/api/v1/runs?limit="+q, "")
		assert.Equal(t, http.StatusBadRequest, code, q)
	}
}
