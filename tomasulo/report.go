package tomasulo

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteReport renders the per-instruction cycle table to w: a header row
// followed by one row per instruction in tag order, tag printed 1-based,
// followed by its fetch/dispatch/schedule/execute/state-update cycles.
//
// This is a method on the simulator itself, called once after the run
// completes, rather than a free function the caller re-derives from
// Stats(). Rendering goes through go-pretty's tab-separated writer
// rather than hand-rolled column alignment.
func (s *Simulator) WriteReport(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"INST", "FETCH", "DISP", "SCHED", "EXEC", "STATE"})
	for tag, row := range s.log.rows {
		tw.AppendRow(table.Row{tag + 1, row[0], row[1], row[2], row[3], row[4]})
	}
	tw.RenderTSV()
}
