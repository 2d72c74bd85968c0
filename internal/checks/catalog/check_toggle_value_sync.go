package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type ToggleValueSyncCheck struct{}

func (c *ToggleValueSyncCheck) Key() string {
	return "toggle_value_sync"
}

func (c *ToggleValueSyncCheck) Name() string {
	return "Toggle Value Sync"
}

func (c *ToggleValueSyncCheck) Description() string {
	return "Compares the value of each rule toggle between defaults/main.yml and\n" +
		"the audit vars file. A rule disabled for remediation but enabled for\n" +
		"audit fails every scan on machines configured exactly as shipped.\n\n" +
		"Values parsing as booleans are compared as booleans; anything else is\n" +
		"compared as the cleaned literal.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only toggle_value_sync"
}

func (c *ToggleValueSyncCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *ToggleValueSyncCheck) Requires() []model.Source {
	return []model.Source{model.SourceDefaults, model.SourceAuditVars}
}

func (c *ToggleValueSyncCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *ToggleValueSyncCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, name := range model.Names(m.DefaultToggles) {
		av, ok := m.AuditVarsToggles[name]
		if !ok {
			continue
		}
		dv := m.DefaultToggles[name]
		if dv.Bool != nil && av.Bool != nil {
			if *dv.Bool != *av.Bool {
				findings = append(findings, checks.Warnf(av.File, av.Line,
					"toggle %s: remediation %v, audit %v", name, *dv.Bool, *av.Bool))
			}
			continue
		}
		if dv.Raw != av.Raw {
			findings = append(findings, checks.Warnf(av.File, av.Line,
				"toggle %s: remediation %q, audit %q", name, dv.Raw, av.Raw))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&ToggleValueSyncCheck{})
}
