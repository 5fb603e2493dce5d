package workload

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/proc-sim/sim"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseText_ReadsCountThenRecords(t *testing.T) {
	// GIVEN the text format spread over irregular whitespace
	in := "3\nA 0 3 0\nB 2 6 1\n  C\t4 4 0\n"

	// WHEN parsed
	procs, err := ParseText(strings.NewReader(in))

	// THEN records are returned in file order
	require.NoError(t, err)
	assert.Equal(t, []sim.Process{
		{ID: "A", StartTime: 0, TotalTimeNeeded: 3, Priority: 0},
		{ID: "B", StartTime: 2, TotalTimeNeeded: 6, Priority: 1},
		{ID: "C", StartTime: 4, TotalTimeNeeded: 4, Priority: 0},
	}, procs)
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"bad count", "three"},
		{"negative count", "-1"},
		{"truncated record", "2\nA 0 3 0\nB 2"},
		{"non-numeric burst", "1\nA 0 x 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestParseText_TrailingInputIgnored(t *testing.T) {
	procs, err := ParseText(strings.NewReader("1\nA 0 1 0\nB 1 1 0\n"))
	require.NoError(t, err)
	assert.Len(t, procs, 1)
}

func TestParseYAML_UnknownKey_Rejected(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("processes:\n  - id: a\n    strat: 1\n    burst: 2\n"))
	assert.Error(t, err)
}

func TestLoadProcesses_DispatchesOnExtension(t *testing.T) {
	yamlPath := writeFile(t, "procs.yaml", `
processes:
  - id: A
    start: 0
    burst: 3
  - id: B
    start: 2
    burst: 6
    priority: 1
`)
	textPath := writeFile(t, "procs.txt", "2\nA 0 3 0\nB 2 6 1\n")

	fromYAML, err := LoadProcesses(yamlPath)
	require.NoError(t, err)
	fromText, err := LoadProcesses(textPath)
	require.NoError(t, err)

	// THEN both formats describe the same workload
	assert.Equal(t, fromText, fromYAML)
}

func TestLoadProcesses_InvalidProcess_Rejected(t *testing.T) {
	// GIVEN a file with a zero burst
	path := writeFile(t, "procs.txt", "1\nA 0 0 0\n")

	// WHEN loaded
	_, err := LoadProcesses(path)

	// THEN the configuration error surfaces before any simulation
	assert.True(t, errors.Is(err, sim.ErrInvalidProcess), "got %v", err)
}

func TestLoadProcesses_EmptyYAML_NoProcesses(t *testing.T) {
	_, err := LoadProcesses(writeFile(t, "procs.yml", ""))
	assert.True(t, errors.Is(err, sim.ErrNoProcesses), "got %v", err)
}

func TestLoadProcesses_MissingFile(t *testing.T) {
	_, err := LoadProcesses(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWriteYAML_ReadBack(t *testing.T) {
	procs := []sim.Process{
		{ID: "p1", StartTime: 0, TotalTimeNeeded: 4, Priority: 0},
		{ID: "p2", StartTime: 3, TotalTimeNeeded: 1, Priority: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, procs))

	got, err := ParseYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, procs, got)
}

func TestWriteText_ReadBack(t *testing.T) {
	procs := []sim.Process{
		{ID: "p1", StartTime: 0, TotalTimeNeeded: 4, Priority: 0},
		{ID: "p2", StartTime: 3, TotalTimeNeeded: 1, Priority: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, procs))
	assert.Equal(t, "2\np1 0 4 0\np2 3 1 1\n", buf.String())

	got, err := ParseText(&buf)
	require.NoError(t, err)
	assert.Equal(t, procs, got)
}
