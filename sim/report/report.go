// Package report renders a finished run for a terminal: the per-tick table,
// a Gantt strip and the run statistics.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/proc-sim/sim"
	"github.com/inference-sim/proc-sim/sim/trace"
)

// columnWidth caps process IDs in the tick table header.
const columnWidth = 4

// WriteLegend explains the tick table symbols.
func WriteLegend(w io.Writer) {
	_, _ = fmt.Fprintln(w, "   O: Process scheduled")
	_, _ = fmt.Fprintln(w, "   X: Process completed")
	_, _ = fmt.Fprintln(w, "   !: Completed process scheduled more time than needed")
}

// WriteTickTable writes one row per tick: the tick number, the marker symbol
// of every process, and an O in the IDLE column when no process ran.
func WriteTickTable(w io.Writer, procs []sim.Process, ticks []trace.TickRecord) {
	header := make([]string, 0, len(procs)+2)
	header = append(header, "Time")
	for _, p := range procs {
		id := p.ID
		if len(id) > columnWidth {
			id = id[:columnWidth]
		}
		header = append(header, id)
	}
	header = append(header, "IDLE")

	rows := make([][]string, len(ticks))
	for i, rec := range ticks {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprint(rec.Tick))
		for j := range procs {
			var m trace.Marker
			if j < len(rec.Markers) {
				m = rec.Markers[j]
			}
			row = append(row, m.Symbol())
		}
		idle := ""
		if rec.IsIdle() {
			idle = trace.MarkerScheduled.Symbol()
		}
		rows[i] = append(row, idle)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

// WriteGantt writes the slices as a strip of process IDs over their start
// ticks, closed by the stop tick of the last slice.
func WriteGantt(w io.Writer, procs []sim.Process, slices []trace.Slice) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	if len(slices) == 0 {
		_, _ = fmt.Fprintln(w, "(empty)")
		return
	}
	_, _ = fmt.Fprint(w, "|")
	for _, s := range slices {
		id := "?"
		if s.Index >= 0 && s.Index < len(procs) {
			id = procs[s.Index].ID
		}
		padding := strings.Repeat(" ", max(0, 8-len(id))/2)
		_, _ = fmt.Fprint(w, padding, id, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i, s := range slices {
		_, _ = fmt.Fprint(w, fmt.Sprint(s.Start), "\t")
		if i == len(slices)-1 {
			_, _ = fmt.Fprint(w, fmt.Sprint(s.Stop))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

// WriteStats writes the per-process completion table with means in the footer.
// Unfinished processes are shown with dashes and excluded from the means.
func WriteStats(w io.Writer, m *sim.Metrics) {
	rows := make([][]string, len(m.Completions))
	for i, c := range m.Completions {
		if c.TimeFinished < 0 {
			rows[i] = []string{c.ID, "-", "-", "-"}
			continue
		}
		rows[i] = []string{
			c.ID,
			fmt.Sprint(c.FinishTime()),
			fmt.Sprint(c.Turnaround()),
			fmt.Sprintf("%.2f", c.NormalizedTurnaround()),
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Process", "Finish Time", "Turnaround Time", "Normalized Turnaround Time"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"Mean", "",
		fmt.Sprintf("%.2f", m.MeanTurnaround),
		fmt.Sprintf("%.2f", m.MeanNormalizedTurnaround)})
	table.Render()
}

// WriteSummary writes the run-level figures that do not belong to a single process.
func WriteSummary(w io.Writer, m *sim.Metrics, ts *trace.TraceSummary) {
	rows := [][]string{
		{"Makespan", fmt.Sprint(m.Makespan)},
		{"Idle ticks", fmt.Sprint(m.IdleTicks)},
		{"Utilization", fmt.Sprintf("%.2f%%", m.Utilization*100)},
		{"P90 turnaround", fmt.Sprintf("%.2f", m.P90Turnaround)},
		{"Max turnaround", fmt.Sprint(m.MaxTurnaround)},
		{"Overruns", fmt.Sprint(m.Overruns)},
		{"Invalid decisions", fmt.Sprint(m.InvalidDecisions)},
	}
	if ts != nil && ts.TotalTicks > 0 {
		rows = append(rows, []string{"Context switches", fmt.Sprint(ts.ContextSwitches)})
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk(rows)
	table.Render()
}
