package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/proc-sim/sim/workload"
)

// PresetConfig is the structure of a generator presets file:
//
//	presets:
//	  interactive:
//	    count: 20
//	    max_interarrival: 2
//	    min_burst: 1
//	    max_burst: 4
type PresetConfig struct {
	Presets map[string]workload.GeneratorConfig `yaml:"presets"`
}

// GetGeneratorPreset reads presetsPath and returns the preset called name.
func GetGeneratorPreset(presetsPath, name string) (*workload.GeneratorConfig, error) {
	data, err := os.ReadFile(presetsPath)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	// Parse YAML with strict field checking: typos must cause errors
	var cfg PresetConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing presets file: %w", err)
	}

	preset, ok := cfg.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in %s", name, presetsPath)
	}
	logrus.Infof("Using preset workload %v", name)
	return &preset, nil
}
