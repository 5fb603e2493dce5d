package workload

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/proc-sim/sim"
)

// ProcessFile is the YAML process-list format.
// Loaded via LoadProcesses(path) for .yaml/.yml paths.
type ProcessFile struct {
	Processes []ProcessSpec `yaml:"processes" json:"processes"`
}

// ProcessSpec describes one process as written in a process file or an API request.
type ProcessSpec struct {
	ID       string `yaml:"id" json:"id"`
	Start    int64  `yaml:"start" json:"start"`
	Burst    int64  `yaml:"burst" json:"burst"`
	Priority int    `yaml:"priority" json:"priority"` // 0 = foreground
}

// ToProcesses converts specs into sim process descriptors, preserving order.
func ToProcesses(specs []ProcessSpec) []sim.Process {
	procs := make([]sim.Process, len(specs))
	for i, s := range specs {
		procs[i] = sim.Process{ID: s.ID, StartTime: s.Start, TotalTimeNeeded: s.Burst, Priority: s.Priority}
	}
	return procs
}

// FromProcesses is the inverse of ToProcesses; dynamic fields are dropped.
func FromProcesses(procs []sim.Process) []ProcessSpec {
	specs := make([]ProcessSpec, len(procs))
	for i, p := range procs {
		specs[i] = ProcessSpec{ID: p.ID, Start: p.StartTime, Burst: p.TotalTimeNeeded, Priority: p.Priority}
	}
	return specs
}

// LoadProcesses reads a process list from path and validates it.
// .yaml and .yml files use the ProcessFile format; anything else is read as
// the whitespace-separated text format (see ParseText).
func LoadProcesses(path string) ([]sim.Process, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading process file: %w", err)
	}
	var procs []sim.Process
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		procs, err = ParseYAML(bytes.NewReader(data))
	default:
		procs, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing process file %s: %w", path, err)
	}
	if err := sim.ValidateProcesses(procs); err != nil {
		return nil, fmt.Errorf("process file %s: %w", path, err)
	}
	logrus.Debugf("loaded %d processes from %s", len(procs), path)
	return procs, nil
}

// ParseYAML decodes the ProcessFile format.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func ParseYAML(r io.Reader) ([]sim.Process, error) {
	var f ProcessFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	return ToProcesses(f.Processes), nil
}

// ParseText decodes the text format: a process count followed by one
// "id start burst priority" record per process, all whitespace separated.
// Tokens after the last record are ignored.
func ParseText(r io.Reader) ([]sim.Process, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func(field string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("unexpected end of input reading %s", field)
		}
		return sc.Text(), nil
	}
	nextInt := func(field string) (int64, error) {
		tok, err := next(field)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
		return v, nil
	}

	n, err := nextInt("process count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("process count must be non-negative, got %d", n)
	}
	procs := make([]sim.Process, n)
	for i := range procs {
		p := &procs[i]
		if p.ID, err = next(fmt.Sprintf("process %d id", i)); err != nil {
			return nil, err
		}
		if p.StartTime, err = nextInt(fmt.Sprintf("process %q start", p.ID)); err != nil {
			return nil, err
		}
		if p.TotalTimeNeeded, err = nextInt(fmt.Sprintf("process %q burst", p.ID)); err != nil {
			return nil, err
		}
		prio, err := nextInt(fmt.Sprintf("process %q priority", p.ID))
		if err != nil {
			return nil, err
		}
		p.Priority = int(prio)
	}
	if sc.Scan() {
		logrus.Warnf("ignoring trailing input after %d processes", n)
	}
	return procs, nil
}

// WriteYAML writes procs in the ProcessFile format.
func WriteYAML(w io.Writer, procs []sim.Process) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ProcessFile{Processes: FromProcesses(procs)}); err != nil {
		return fmt.Errorf("encoding process file: %w", err)
	}
	return enc.Close()
}

// WriteText writes procs in the text format read by ParseText.
func WriteText(w io.Writer, procs []sim.Process) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(procs))
	for _, p := range procs {
		fmt.Fprintf(bw, "%s %d %d %d\n", p.ID, p.StartTime, p.TotalTimeNeeded, p.Priority)
	}
	return bw.Flush()
}
