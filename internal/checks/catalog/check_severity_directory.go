package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type SeverityDirectoryCheck struct{}

func (c *SeverityDirectoryCheck) Key() string {
	return "severity_directory"
}

func (c *SeverityDirectoryCheck) Name() string {
	return "Severity Directory Match"
}

func (c *SeverityDirectoryCheck) Description() string {
	return "STIG only. Task names carry a HIGH | MEDIUM | LOW severity label, and\n" +
		"the convention files HIGH rules under cat_1, MEDIUM under cat_2, LOW\n" +
		"under cat_3. A task whose label disagrees with its directory misstates\n" +
		"its severity to one audience or the other.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-STIG --only severity_directory"
}

func (c *SeverityDirectoryCheck) AppliesTo(f model.Family) bool {
	return benchmark.HasSeverityLabels(f)
}

func (c *SeverityDirectoryCheck) Requires() []model.Source {
	return []model.Source{model.SourceTasks}
}

func (c *SeverityDirectoryCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *SeverityDirectoryCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, s := range m.SeverityLabels {
		want := benchmark.SeverityCategory(s.Label)
		if want == 0 || want == s.Category {
			continue
		}
		findings = append(findings, checks.Errorf(s.File, s.Line,
			"%s task sits in %s, severity implies %s", s.Label,
			benchmark.CategoryLabel(m.Family, s.Category),
			benchmark.CategoryLabel(m.Family, want)))
	}
	return findings, nil
}

func init() {
	checks.Register(&SeverityDirectoryCheck{})
}
