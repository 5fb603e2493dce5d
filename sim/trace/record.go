// Package trace provides per-tick observation records for a scheduler run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// Idle is the Selected value of a tick in which no process ran.
const Idle = -1

// Marker describes what happened to one process during one tick.
type Marker int

const (
	// MarkerNone: the process was not selected.
	MarkerNone Marker = iota
	// MarkerScheduled: the process ran and still needs more time.
	MarkerScheduled
	// MarkerCompleted: the process ran its final tick.
	MarkerCompleted
	// MarkerOverrun: an already finished process was selected. Always a policy bug.
	MarkerOverrun
)

// Symbol returns the single-character table symbol for m.
func (m Marker) Symbol() string {
	switch m {
	case MarkerScheduled:
		return "O"
	case MarkerCompleted:
		return "X"
	case MarkerOverrun:
		return "!"
	default:
		return ""
	}
}

func (m Marker) String() string {
	switch m {
	case MarkerScheduled:
		return "scheduled"
	case MarkerCompleted:
		return "completed"
	case MarkerOverrun:
		return "overrun"
	default:
		return "none"
	}
}

// MarshalText encodes the marker by name for JSON and YAML output.
func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a marker name written by MarshalText.
func (m *Marker) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*m = MarkerNone
	case "scheduled":
		*m = MarkerScheduled
	case "completed":
		*m = MarkerCompleted
	case "overrun":
		*m = MarkerOverrun
	default:
		return fmt.Errorf("unknown marker %q", text)
	}
	return nil
}

// TickRecord captures the dispatch decision of a single tick.
type TickRecord struct {
	Tick     int64    `json:"tick"`
	Selected int      `json:"selected"` // process index, or Idle
	Markers  []Marker `json:"markers"`  // one per process, in table order
}

// IsIdle reports whether no process ran during the tick.
func (r TickRecord) IsIdle() bool {
	return r.Selected == Idle
}
