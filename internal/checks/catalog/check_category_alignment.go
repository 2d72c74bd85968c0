package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type CategoryAlignmentCheck struct{}

func (c *CategoryAlignmentCheck) Key() string {
	return "category_alignment"
}

func (c *CategoryAlignmentCheck) Name() string {
	return "Category Alignment"
}

func (c *CategoryAlignmentCheck) Description() string {
	return "Verifies that a rule lives in the same category on both sides: the\n" +
		"remediation task's cat_N/section_N directory must equal the audit test\n" +
		"file's directory.\n\n" +
		"Audit files carrying Cat: metadata that disagrees with their own\n" +
		"directory are also reported.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-STIG --only category_alignment"
}

func (c *CategoryAlignmentCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *CategoryAlignmentCheck) Requires() []model.Source {
	return []model.Source{model.SourceTasks, model.SourceAuditTests}
}

func (c *CategoryAlignmentCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *CategoryAlignmentCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding

	for _, key := range model.Names(m.AuditFiles) {
		rec := m.AuditFiles[key]
		if task, ok := m.Tasks[key]; ok && task.Category != rec.Category {
			findings = append(findings, checks.Errorf(rec.File, 0,
				"category mismatch for %s: remediation %s, audit %s", key,
				benchmark.CategoryLabel(m.Family, task.Category),
				benchmark.CategoryLabel(m.Family, rec.Category)))
		}
		if rec.MetaCategory > 0 && rec.MetaCategory != rec.Category {
			findings = append(findings, checks.Errorf(rec.File, 0,
				"Cat: %d metadata disagrees with directory %s", rec.MetaCategory,
				benchmark.CategoryLabel(m.Family, rec.Category)))
		}
	}

	return findings, nil
}

func init() {
	checks.Register(&CategoryAlignmentCheck{})
}
