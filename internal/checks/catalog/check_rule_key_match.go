package catalog

import (
	"path"
	"strings"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type RuleKeyMatchCheck struct{}

func (c *RuleKeyMatchCheck) Key() string {
	return "rule_key_match"
}

func (c *RuleKeyMatchCheck) Name() string {
	return "Rule Key Match"
}

func (c *RuleKeyMatchCheck) Description() string {
	return "Reconciles the three places an audit test file states which rule it\n" +
		"verifies: its file name, its embedded STIG_ID metadata, and the toggle\n" +
		"its template conditional is gated by.\n\n" +
		"A file named for one rule but carrying metadata or a conditional for\n" +
		"another usually survives a copy-paste; goss will happily run it against\n" +
		"the wrong toggle.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-STIG --only rule_key_match"
}

func (c *RuleKeyMatchCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *RuleKeyMatchCheck) Requires() []model.Source {
	return []model.Source{model.SourceAuditTests}
}

func (c *RuleKeyMatchCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *RuleKeyMatchCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, key := range model.Names(m.AuditFiles) {
		rec := m.AuditFiles[key]
		stem := strings.TrimSuffix(path.Base(rec.File), ".yml")

		if benchmark.IsRuleKeyStem(stem) && rec.StigID != "" && !strings.EqualFold(stem, rec.StigID) {
			findings = append(findings, checks.Errorf(rec.File, 0,
				"file name %s disagrees with STIG_ID %s", stem, rec.StigID))
		}

		if rec.Toggle == "" {
			continue
		}
		implied := benchmark.ExpectedAuditKey(m.Family, m.RuleIDPrefix, m.Prefix, rec.Toggle)
		if implied != "" && implied != key {
			findings = append(findings, checks.Errorf(rec.File, 0,
				"conditional toggle %s implies key %s, file is keyed %s", rec.Toggle, implied, key))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&RuleKeyMatchCheck{})
}
