package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type GossTemplateVarSyncCheck struct{}

func (c *GossTemplateVarSyncCheck) Key() string {
	return "goss_template_var_sync"
}

func (c *GossTemplateVarSyncCheck) Name() string {
	return "Goss Template Variable Sync"
}

func (c *GossTemplateVarSyncCheck) Description() string {
	return "Inspects the generated-vars template for hardcoded values. The template\n" +
		"exists to pass remediation settings through to the audit; a literal\n" +
		"value pins the audit to one answer no matter what defaults say.\n\n" +
		"A hardcoded entry that shadows a different defaults value is a warning.\n" +
		"A hardcoded entry with no defaults declaration at all is reported as\n" +
		"informational: it may be audit-only tuning.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only goss_template_var_sync"
}

func (c *GossTemplateVarSyncCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *GossTemplateVarSyncCheck) Requires() []model.Source {
	return []model.Source{model.SourceTemplate, model.SourceDefaults}
}

func (c *GossTemplateVarSyncCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *GossTemplateVarSyncCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, name := range model.Names(m.TemplateVars) {
		tv := m.TemplateVars[name]
		if !tv.Hardcoded {
			continue
		}
		if dv, ok := m.DefaultConfig[name]; ok {
			if dv.Value != tv.Raw {
				findings = append(findings, checks.Warnf(tv.File, tv.Line,
					"%s hardcoded to %q, defaults declare %q", name, tv.Raw, dv.Value))
			}
			continue
		}
		if dt, ok := m.DefaultToggles[name]; ok {
			if dt.Raw != tv.Raw {
				findings = append(findings, checks.Warnf(tv.File, tv.Line,
					"toggle %s hardcoded to %q, defaults declare %q", name, tv.Raw, dt.Raw))
			}
			continue
		}
		findings = append(findings, checks.Infof(tv.File, tv.Line,
			"%s hardcoded to %q with no defaults declaration", name, tv.Raw))
	}
	return findings, nil
}

func init() {
	checks.Register(&GossTemplateVarSyncCheck{})
}
