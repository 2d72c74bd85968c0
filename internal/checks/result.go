package checks

// Status is the overall outcome of one check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusWarn Status = "WARN"
	StatusSkip Status = "SKIP"
)

// Severity grades a single finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one located inconsistency or diagnostic. Findings are values:
// created by a check, never mutated afterwards.
type Finding struct {
	Severity Severity `json:"severity"`
	// File is repository-relative; empty when the finding has no single
	// file (e.g. a cross-file comparison summary).
	File string `json:"file,omitempty"`
	// Line is 1-based; 0 means the finding is not tied to a line.
	Line        int    `json:"line,omitempty"`
	Description string `json:"description"`
}

// CheckResult is the outcome of one registered check. Status is always
// derived from Findings through the check's policy, never set on its own;
// a result whose status disagrees with its findings cannot be constructed
// through this package.
type CheckResult struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Status   Status    `json:"status"`
	Summary  string    `json:"summary,omitempty"`
	Findings []Finding `json:"findings"`
}
