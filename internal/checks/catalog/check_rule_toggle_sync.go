package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type RuleToggleSyncCheck struct{}

func (c *RuleToggleSyncCheck) Key() string {
	return "rule_toggle_sync"
}

func (c *RuleToggleSyncCheck) Name() string {
	return "Rule Toggle Sync"
}

func (c *RuleToggleSyncCheck) Description() string {
	return "Follows every rule toggle declared in defaults/main.yml through the\n" +
		"three places it must surface: the generated-vars template, the audit\n" +
		"vars file, and at least one audit test conditional.\n\n" +
		"A toggle missing from any of them is documented but unenforced: the\n" +
		"operator can switch it, and nothing downstream notices.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only rule_toggle_sync"
}

func (c *RuleToggleSyncCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *RuleToggleSyncCheck) Requires() []model.Source {
	return []model.Source{
		model.SourceDefaults, model.SourceTemplate,
		model.SourceAuditVars, model.SourceAuditTests,
	}
}

func (c *RuleToggleSyncCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *RuleToggleSyncCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, name := range model.Names(m.DefaultToggles) {
		tg := m.DefaultToggles[name]
		if _, ok := m.TemplateToggles[name]; !ok {
			findings = append(findings, checks.Warnf(tg.File, tg.Line,
				"toggle %s is not exported by the vars template", name))
		}
		if _, ok := m.AuditVarsToggles[name]; !ok {
			findings = append(findings, checks.Warnf(tg.File, tg.Line,
				"toggle %s is not declared in the audit vars file", name))
		}
		if _, ok := m.AuditConditionals[name]; !ok {
			findings = append(findings, checks.Warnf(tg.File, tg.Line,
				"toggle %s is not used by any audit test conditional", name))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&RuleToggleSyncCheck{})
}
