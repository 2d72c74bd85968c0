package output

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// RunHeader announces a run to sinks before any result is written. It
// carries the run metadata and the detector's diagnostic notes.
type RunHeader struct {
	Info        model.RunInfo    `json:"run"`
	Diagnostics []checks.Finding `json:"diagnostics,omitempty"`
}

// RunFooter closes a run with aggregate counts and the exit code.
type RunFooter struct {
	Totals   Totals `json:"totals"`
	ExitCode int    `json:"exit_code"`
}

// Totals counts results by status.
type Totals struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
	Warn int `json:"warn"`
	Skip int `json:"skip"`
}

// TotalsOf tallies results by status.
func TotalsOf(results []checks.CheckResult) Totals {
	var t Totals
	for _, r := range results {
		switch r.Status {
		case checks.StatusPass:
			t.Pass++
		case checks.StatusFail:
			t.Fail++
		case checks.StatusWarn:
			t.Warn++
		case checks.StatusSkip:
			t.Skip++
		}
	}
	return t
}

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line):
// - run.started (run metadata and detection diagnostics)
// - check.result
// - run.finished (totals and exit code)
//
// JSON mode remains an aggregate of checks.CheckResult values.
type Event struct {
	Type        string           `json:"type"`
	Run         *model.RunInfo   `json:"run,omitempty"`
	Diagnostics []checks.Finding `json:"diagnostics,omitempty"`
	*checks.CheckResult
	Totals   *Totals `json:"totals,omitempty"`
	ExitCode int     `json:"exit_code,omitempty"`
}

func eventFromResult(r checks.CheckResult) Event {
	return Event{Type: "check.result", CheckResult: &r}
}

func eventFromHeader(h RunHeader) Event {
	info := h.Info
	return Event{Type: "run.started", Run: &info, Diagnostics: h.Diagnostics}
}

func eventFromFooter(f RunFooter) Event {
	totals := f.Totals
	return Event{Type: "run.finished", Totals: &totals, ExitCode: f.ExitCode}
}
