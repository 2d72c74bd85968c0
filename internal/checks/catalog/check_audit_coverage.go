package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type AuditCoverageCheck struct{}

func (c *AuditCoverageCheck) Key() string {
	return "audit_coverage"
}

func (c *AuditCoverageCheck) Name() string {
	return "Audit Coverage"
}

func (c *AuditCoverageCheck) Description() string {
	return "Verifies that every rule toggle declared in defaults/main.yml is covered\n" +
		"by an audit test file, and that every audit test key maps back to a\n" +
		"declared toggle.\n\n" +
		"STIG pairs derive the expected audit key from the toggle digits\n" +
		"(rhel_09_211010 -> RHEL-09-211010); CIS audit files are keyed by the\n" +
		"toggle guarding them. When the STIG rule-ID prefix cannot be determined,\n" +
		"only the audit-to-defaults direction is evaluated.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only audit_coverage"
}

func (c *AuditCoverageCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *AuditCoverageCheck) Requires() []model.Source {
	return []model.Source{model.SourceDefaults, model.SourceAuditTests}
}

func (c *AuditCoverageCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *AuditCoverageCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding

	for _, name := range model.Names(m.DefaultToggles) {
		tg := m.DefaultToggles[name]
		key := benchmark.ExpectedAuditKey(m.Family, m.RuleIDPrefix, m.Prefix, name)
		if key == "" {
			continue
		}
		if _, ok := m.AuditFiles[key]; !ok {
			findings = append(findings, checks.Warnf(tg.File, tg.Line,
				"toggle %s has no audit test keyed %s", name, key))
		}
	}

	for _, key := range model.Names(m.AuditFiles) {
		rec := m.AuditFiles[key]
		toggle := benchmark.ToggleForKey(m.Family, m.Prefix, key)
		if _, ok := m.DefaultToggles[toggle]; !ok {
			findings = append(findings, checks.Warnf(rec.File, 0,
				"audit key %s has no toggle %s in defaults", key, toggle))
		}
	}

	return findings, nil
}

func init() {
	checks.Register(&AuditCoverageCheck{})
}
