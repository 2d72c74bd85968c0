package checks

import (
	"github.com/frederickw082922/crosscheck/internal/model"
)

// Check is one registered consistency check. Implementations are stateless:
// Evaluate reads the model and returns findings, nothing else. The engine
// owns skipping (inapplicable family, missing sources, internal faults) and
// status derivation, so a check never decides its own status directly.
type Check interface {
	// Key is the stable identifier used for selection and reporting.
	Key() string
	Name() string
	Description() string

	// AppliesTo reports whether the check is meaningful for a family.
	// Checks outside their family are SKIP, not PASS.
	AppliesTo(f model.Family) bool

	// Requires lists the sources the check cannot run without. An
	// extraction gap on any of them degrades the check to SKIP.
	Requires() []model.Source

	// Policy declares how findings map to a status.
	Policy() Policy

	// Evaluate inspects the read-only model. Returning a Skipf error
	// degrades the result to SKIP with the reason as a finding; any other
	// error is an internal fault and is handled the same way.
	Evaluate(m *model.Model) ([]Finding, error)
}
