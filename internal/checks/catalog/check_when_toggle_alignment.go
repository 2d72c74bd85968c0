package catalog

import (
	"strings"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type WhenToggleAlignmentCheck struct{}

func (c *WhenToggleAlignmentCheck) Key() string {
	return "when_toggle_alignment"
}

func (c *WhenToggleAlignmentCheck) Name() string {
	return "When Toggle Alignment"
}

func (c *WhenToggleAlignmentCheck) Description() string {
	return "STIG only. A task's when: conditional must reference the toggle whose\n" +
		"digits match the rule named in the task. A task for RHEL-09-211010\n" +
		"gated by rhel_09_211015 runs rule A under rule B's switch, which is\n" +
		"almost always a copy-paste left behind.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-STIG --only when_toggle_alignment"
}

func (c *WhenToggleAlignmentCheck) AppliesTo(f model.Family) bool {
	return benchmark.HasWhenAlignment(f)
}

func (c *WhenToggleAlignmentCheck) Requires() []model.Source {
	return []model.Source{model.SourceTasks}
}

func (c *WhenToggleAlignmentCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *WhenToggleAlignmentCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, w := range m.WhenRefs {
		if digitsAfter(w.RuleKey, '-') == digitsAfter(w.Toggle, '_') {
			continue
		}
		findings = append(findings, checks.Errorf(w.File, w.Line,
			"task %s gated by %s", w.RuleKey, w.Toggle))
	}
	return findings, nil
}

// digitsAfter returns the segment after the last separator, the rule digit
// block in both RHEL-09-211010 and rhel_09_211010.
func digitsAfter(s string, sep byte) string {
	if i := strings.LastIndexByte(s, sep); i >= 0 {
		return s[i+1:]
	}
	return s
}

func init() {
	checks.Register(&WhenToggleAlignmentCheck{})
}
