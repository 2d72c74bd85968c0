package checks

import (
	"errors"
	"fmt"
	"sort"
)

func Errorf(file string, line int, format string, args ...any) Finding {
	return Finding{Severity: SeverityError, File: file, Line: line, Description: fmt.Sprintf(format, args...)}
}

func Warnf(file string, line int, format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, File: file, Line: line, Description: fmt.Sprintf(format, args...)}
}

func Infof(file string, line int, format string, args ...any) Finding {
	return Finding{Severity: SeverityInfo, File: file, Line: line, Description: fmt.Sprintf(format, args...)}
}

// SortFindings orders findings by file, then line, then description. Every
// result carries its findings in this order so successive reports diff
// cleanly.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Description < b.Description
	})
}

// NewResult builds the result for a completed check: findings sorted,
// status derived through the check's policy, summary counting findings.
func NewResult(c Check, findings []Finding) CheckResult {
	SortFindings(findings)
	return CheckResult{
		Key:      c.Key(),
		Name:     c.Name(),
		Status:   c.Policy().Status(findings),
		Summary:  summarize(findings),
		Findings: findings,
	}
}

// SkipResult builds a SKIP outcome carrying the reason as an info finding,
// so reports show why the check did not run.
func SkipResult(c Check, reason string) CheckResult {
	return CheckResult{
		Key:      c.Key(),
		Name:     c.Name(),
		Status:   StatusSkip,
		Summary:  "skipped",
		Findings: []Finding{{Severity: SeverityInfo, Description: reason}},
	}
}

func summarize(findings []Finding) string {
	if len(findings) == 0 {
		return ""
	}
	return fmt.Sprintf("%d issue(s)", len(findings))
}

// skipError carries a check's own decision not to run (e.g. not enough
// version sources to compare). It is distinct from engine-driven skips.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

// Skipf returns an error that Evaluate can use to degrade itself to SKIP.
func Skipf(format string, args ...any) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

// SkipReason extracts the reason from a Skipf error.
func SkipReason(err error) (string, bool) {
	var s *skipError
	if errors.As(err, &s) {
		return s.reason, true
	}
	return "", false
}
