package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type RuleIDMatchCheck struct{}

func (c *RuleIDMatchCheck) Key() string {
	return "rule_id_match"
}

func (c *RuleIDMatchCheck) Name() string {
	return "Rule ID Match"
}

func (c *RuleIDMatchCheck) Description() string {
	return "Compares the secondary rule identifiers (SV-NNNNNNrNNNNNN_rule tags)\n" +
		"recorded for the same rule key on both sides. Benchmarks revise these\n" +
		"identifiers between releases; a mismatch means one side was updated to\n" +
		"a newer benchmark revision and the other was not.\n\n" +
		"An identifier present on only one side is reported as a warning, a\n" +
		"conflicting pair as an error.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-STIG --only rule_id_match"
}

func (c *RuleIDMatchCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *RuleIDMatchCheck) Requires() []model.Source {
	return []model.Source{model.SourceTasks, model.SourceAuditTests}
}

func (c *RuleIDMatchCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *RuleIDMatchCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, key := range model.Names(m.Tasks) {
		rec, ok := m.AuditFiles[key]
		if !ok {
			continue
		}
		task := m.Tasks[key]
		switch {
		case task.RuleID == "" && rec.RuleID == "":
		case task.RuleID == "":
			findings = append(findings, checks.Warnf(task.File, task.Line,
				"%s: audit records %s, remediation has no rule ID tag", key, rec.RuleID))
		case rec.RuleID == "":
			findings = append(findings, checks.Warnf(rec.File, 0,
				"%s: remediation records %s, audit has no rule ID", key, task.RuleID))
		case task.RuleID != rec.RuleID:
			findings = append(findings, checks.Errorf(rec.File, 0,
				"rule ID mismatch for %s: remediation %s, audit %s", key, task.RuleID, rec.RuleID))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&RuleIDMatchCheck{})
}
