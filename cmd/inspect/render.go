package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// #region render-helpers

// renderTable writes header and rows as a table.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	if err := table.Append(header); err != nil {
		return fmt.Errorf("append header row: %w", err)
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	return table.Render()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func f4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func ms(ts int64) string {
	return time.UnixMilli(ts).UTC().Format(time.RFC3339)
}

// tail keeps the newest n items; n <= 0 keeps all.
func tail[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

// #endregion render-helpers

// #region renderers

func renderMemory(w io.Writer, entries []memory.Entry, asJSON bool) error {
	if asJSON {
		return renderJSON(w, entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		fb := "-"
		if e.Feedback != nil {
			fb = f4(*e.Feedback)
		}
		rows = append(rows, []string{ms(e.Timestamp), e.Input, e.Output, f4(vector.Magnitude(e.U)), f4(e.AttractorDistance), fb})
	}
	return renderTable(w, []string{"Time", "Input", "Output", "|u|", "Distance", "Feedback"}, rows)
}

func renderMetrics(w io.Writer, entries []metrics.Entry, asJSON bool) error {
	if asJSON {
		return renderJSON(w, entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Step),
			string(e.ClosureStatus),
			strconv.FormatBool(e.ClosureForced),
			strconv.Itoa(e.ClosureHoldSteps),
			f4(e.SemanticDivergence),
			f4(e.AttractorDistance),
			f4(e.EntropyGate),
			f4(e.MemoryAlignment),
			f4(e.ClosureLatencyMs),
		})
	}
	return renderTable(w, []string{"Step", "Status", "Forced", "Holds", "Divergence", "Distance", "Gate", "Alignment", "Latency ms"}, rows)
}

func renderReadiness(w io.Writer, snap eval.Snapshot, asJSON bool) error {
	if asJSON {
		return renderJSON(w, snap)
	}
	rows := make([][]string, 0, len(snap.Readiness.Metrics))
	for _, m := range snap.Readiness.Metrics {
		rows = append(rows, []string{m.Name, f4(m.Value), strconv.FormatBool(m.Pass)})
	}
	if err := renderTable(w, []string{"Check", "Value", "Pass"}, rows); err != nil {
		return err
	}
	fmt.Fprintln(w, snap.Readiness.Reason)
	for _, n := range snap.Readiness.Notes {
		fmt.Fprintf(w, "  - %s\n", n)
	}

	components := make([][]string, 0, len(snap.Components))
	for _, c := range snap.Components {
		components = append(components, []string{c.Name, c.TransformerAnalogue, c.EngineConstruct})
	}
	return renderTable(w, []string{"Component", "Analogue", "Construct"}, components)
}

func renderHooks(w io.Writer, list []hooks.Hook, asJSON bool) error {
	if asJSON {
		return renderJSON(w, list)
	}
	rows := make([][]string, 0, len(list))
	for i, h := range list {
		rows = append(rows, []string{strconv.Itoa(i + 1), h.Message, h.Reply, h.IncurSentence, ms(h.CreatedAt)})
	}
	return renderTable(w, []string{"#", "Message", "Reply", "Incur", "Created"}, rows)
}

func renderProvenance(w io.Writer, entries []logging.ProvenanceEntry, asJSON bool) error {
	if asJSON {
		return renderJSON(w, entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.CreatedAt.Format(time.RFC3339), e.TurnID, string(e.Trigger), string(e.Decision), e.Reason})
	}
	return renderTable(w, []string{"Time", "Turn", "Trigger", "Decision", "Reason"}, rows)
}

// #endregion renderers
