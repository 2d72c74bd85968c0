package checks

// Policy is a check's declared mapping from findings to status. It is part
// of the check definition because the same finding severity means different
// things to different checks: a purely-informational check never fails.
type Policy string

const (
	// PolicyBySeverity grades strictly by the worst finding severity:
	// any error fails, else any warning warns, else pass.
	PolicyBySeverity Policy = "by-severity"

	// PolicyWarnOnAny fails on error findings but treats any other
	// finding, info included, as a warning condition.
	PolicyWarnOnAny Policy = "warn-on-any"
)

// Status derives the check status for a finding set under this policy.
func (p Policy) Status(findings []Finding) Status {
	hasError, hasWarning := false, false
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			hasError = true
		case SeverityWarning:
			hasWarning = true
		}
	}
	switch {
	case hasError:
		return StatusFail
	case p == PolicyWarnOnAny && len(findings) > 0:
		return StatusWarn
	case hasWarning:
		return StatusWarn
	default:
		return StatusPass
	}
}
