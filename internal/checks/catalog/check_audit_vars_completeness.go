package catalog

import (
	"fmt"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type AuditVarsCompletenessCheck struct{}

func (c *AuditVarsCompletenessCheck) Key() string {
	return "audit_vars_completeness"
}

func (c *AuditVarsCompletenessCheck) Name() string {
	return "Audit Vars Completeness"
}

func (c *AuditVarsCompletenessCheck) Description() string {
	return "Verifies that every {{ .Vars.<name> }} reference in the audit test files\n" +
		"is declared in the audit vars file.\n\n" +
		"Variables the audit runner injects at execution time (machine_uuid,\n" +
		"epoch, os_release and friends) are excluded; the set can be extended\n" +
		"with --runtime-var.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only audit_vars_completeness"
}

func (c *AuditVarsCompletenessCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *AuditVarsCompletenessCheck) Requires() []model.Source {
	return []model.Source{model.SourceAuditTests, model.SourceAuditVars}
}

func (c *AuditVarsCompletenessCheck) Policy() checks.Policy {
	return checks.PolicyWarnOnAny
}

func (c *AuditVarsCompletenessCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, name := range model.Names(m.VarRefs) {
		if m.RuntimeExcluded[name] {
			continue
		}
		if _, ok := m.AuditDeclared[name]; ok {
			continue
		}
		files := m.VarRefs[name]
		where := ""
		if n := len(files) - 1; n > 0 {
			where = fmt.Sprintf(" (and %d more files)", n)
		}
		findings = append(findings, checks.Warnf(files[0], 0,
			"variable %s is referenced but not declared in the audit vars file%s", name, where))
	}
	return findings, nil
}

func init() {
	checks.Register(&AuditVarsCompletenessCheck{})
}
