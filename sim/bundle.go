package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingQuantum is returned by Validate when a quantum-based policy has no positive quantum.
var ErrMissingQuantum = errors.New("quantum must be positive")

// PolicyConfig selects a scheduling policy and its parameters, loadable from a YAML file.
// Quantum applies to rr, mlq and mlfq; HighQuantum and LowQuantum only to mlfq.
type PolicyConfig struct {
	Name        string `yaml:"policy" json:"policy"`
	Quantum     int    `yaml:"quantum,omitempty" json:"quantum,omitempty"`
	HighQuantum int    `yaml:"high_quantum,omitempty" json:"high_quantum,omitempty"`
	LowQuantum  int    `yaml:"low_quantum,omitempty" json:"low_quantum,omitempty"`
}

// LoadPolicyConfig reads and parses a YAML policy configuration file.
func LoadPolicyConfig(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	// Strict parsing: unknown keys (typos) are rejected
	var cfg PolicyConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &cfg, nil
}

// ValidPolicies is the set of recognized policy names.
// Shared by Validate() and NewPolicy() to avoid duplication.
var ValidPolicies = map[string]bool{
	"":                            true,
	PolicyRoundRobin:              true,
	PolicyShortestProcessNext:     true,
	PolicyShortestRemainingTime:   true,
	PolicyHighestResponseRatio:    true,
	PolicyModifiedHRRN:            true,
	PolicyFIFO:                    true,
	PolicyMultilevelQueue:         true,
	PolicyMultilevelFeedbackQueue: true,
}

// IsValidPolicy returns true if name is a recognized policy name.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// PolicyNames lists the recognized policy names in menu order.
func PolicyNames() []string {
	return []string{
		PolicyRoundRobin,
		PolicyShortestProcessNext,
		PolicyShortestRemainingTime,
		PolicyHighestResponseRatio,
		PolicyModifiedHRRN,
		PolicyFIFO,
		PolicyMultilevelQueue,
		PolicyMultilevelFeedbackQueue,
	}
}

// Validate checks the policy name and that every parameter the policy needs is set.
func (c *PolicyConfig) Validate() error {
	if !IsValidPolicy(c.Name) {
		return fmt.Errorf("unknown policy %q", c.Name)
	}
	switch c.Name {
	case PolicyRoundRobin, PolicyMultilevelQueue:
		if c.Quantum <= 0 {
			return fmt.Errorf("policy %q: %w, got %d", c.Name, ErrMissingQuantum, c.Quantum)
		}
	case PolicyMultilevelFeedbackQueue:
		if c.Quantum <= 0 {
			return fmt.Errorf("policy %q: %w, got %d", c.Name, ErrMissingQuantum, c.Quantum)
		}
		if c.HighQuantum <= 0 {
			return fmt.Errorf("policy %q: high_quantum: %w, got %d", c.Name, ErrMissingQuantum, c.HighQuantum)
		}
		if c.LowQuantum <= 0 {
			return fmt.Errorf("policy %q: low_quantum: %w, got %d", c.Name, ErrMissingQuantum, c.LowQuantum)
		}
	}
	return nil
}

// String renders the policy with the parameters it uses.
func (c PolicyConfig) String() string {
	name := c.Name
	if name == "" {
		name = PolicyFIFO
	}
	switch name {
	case PolicyRoundRobin, PolicyMultilevelQueue:
		return fmt.Sprintf("%s(quantum=%d)", name, c.Quantum)
	case PolicyMultilevelFeedbackQueue:
		return fmt.Sprintf("%s(quantum=%d, high=%d, low=%d)", name, c.Quantum, c.HighQuantum, c.LowQuantum)
	default:
		return name
	}
}
