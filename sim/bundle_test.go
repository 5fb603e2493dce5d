package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPolicyConfig_ValidYAML(t *testing.T) {
	path := writeTempYAML(t, `
policy: mlfq
quantum: 2
high_quantum: 4
low_quantum: 3
`)
	cfg, err := LoadPolicyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, PolicyConfig{Name: PolicyMultilevelFeedbackQueue, Quantum: 2, HighQuantum: 4, LowQuantum: 3}, *cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "mlfq(quantum=2, high=4, low=3)", cfg.String())
}

func TestLoadPolicyConfig_EmptyFile_DefaultsToFIFO(t *testing.T) {
	cfg, err := LoadPolicyConfig(writeTempYAML(t, ""))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.IsType(t, &FIFO{}, NewPolicy(*cfg))
	assert.Equal(t, "fifo", cfg.String())
}

func TestLoadPolicyConfig_MissingFile(t *testing.T) {
	_, err := LoadPolicyConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicyConfig_MalformedYAML(t *testing.T) {
	_, err := LoadPolicyConfig(writeTempYAML(t, "policy: [rr"))
	assert.Error(t, err)
}

func TestPolicyConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         PolicyConfig
		wantErr     bool
		wantQuantum bool
	}{
		{"fifo needs nothing", PolicyConfig{Name: PolicyFIFO}, false, false},
		{"srt needs nothing", PolicyConfig{Name: PolicyShortestRemainingTime}, false, false},
		{"unknown name", PolicyConfig{Name: "lottery"}, true, false},
		{"rr without quantum", PolicyConfig{Name: PolicyRoundRobin}, true, true},
		{"rr negative quantum", PolicyConfig{Name: PolicyRoundRobin, Quantum: -1}, true, true},
		{"rr ok", PolicyConfig{Name: PolicyRoundRobin, Quantum: 1}, false, false},
		{"mlq without quantum", PolicyConfig{Name: PolicyMultilevelQueue}, true, true},
		{"mlfq without high", PolicyConfig{Name: PolicyMultilevelFeedbackQueue, Quantum: 2, LowQuantum: 3}, true, true},
		{"mlfq without low", PolicyConfig{Name: PolicyMultilevelFeedbackQueue, Quantum: 2, HighQuantum: 3}, true, true},
		{"mlfq ok", PolicyConfig{Name: PolicyMultilevelFeedbackQueue, Quantum: 2, HighQuantum: 3, LowQuantum: 3}, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantQuantum, errors.Is(err, ErrMissingQuantum))
		})
	}
}

func TestPolicyNames_AllConstructible(t *testing.T) {
	for _, name := range PolicyNames() {
		assert.True(t, IsValidPolicy(name), name)
		cfg := PolicyConfig{Name: name, Quantum: 1, HighQuantum: 1, LowQuantum: 1}
		require.NoError(t, cfg.Validate(), name)
		assert.NotNil(t, NewPolicy(cfg), name)
	}
}

func TestLoadPolicyConfig_UnknownKey_Rejected(t *testing.T) {
	_, err := LoadPolicyConfig(writeTempYAML(t, "policy: rr\nquantam: 2\n"))
	assert.Error(t, err)
}
