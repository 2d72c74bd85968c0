package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type ConfigVariableParityCheck struct{}

func (c *ConfigVariableParityCheck) Key() string {
	return "config_variable_parity"
}

func (c *ConfigVariableParityCheck) Name() string {
	return "Config Variable Parity"
}

func (c *ConfigVariableParityCheck) Description() string {
	return "Compares scalar configuration variables declared in both\n" +
		"defaults/main.yml and the audit vars file. A variable set to one value\n" +
		"for remediation and another for auditing verifies a machine the\n" +
		"remediation never built.\n\n" +
		"Only variables present on both sides are compared; block scalars and\n" +
		"inline lists are excluded from extraction, so presence on one side\n" +
		"only is not reported here.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only config_variable_parity"
}

func (c *ConfigVariableParityCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *ConfigVariableParityCheck) Requires() []model.Source {
	return []model.Source{model.SourceDefaults, model.SourceAuditVars}
}

func (c *ConfigVariableParityCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *ConfigVariableParityCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, name := range model.Names(m.DefaultConfig) {
		av, ok := m.AuditConfig[name]
		if !ok {
			continue
		}
		dv := m.DefaultConfig[name]
		if dv.Value != av.Value {
			findings = append(findings, checks.Warnf(av.File, av.Line,
				"%s: remediation sets %q, audit expects %q", name, dv.Value, av.Value))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&ConfigVariableParityCheck{})
}
