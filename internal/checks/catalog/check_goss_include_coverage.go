package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/goss"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type GossIncludeCoverageCheck struct{}

func (c *GossIncludeCoverageCheck) Key() string {
	return "goss_include_coverage"
}

func (c *GossIncludeCoverageCheck) Name() string {
	return "Goss Include Coverage"
}

func (c *GossIncludeCoverageCheck) Description() string {
	return "Verifies that every audit test file is matched by at least one\n" +
		"inclusion glob in goss.yml. A test file no glob picks up exists in the\n" +
		"repository but never runs, which reads as silent coverage.\n\n" +
		"Globs behind template conditionals are skipped during extraction and\n" +
		"do not count as coverage.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only goss_include_coverage"
}

func (c *GossIncludeCoverageCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *GossIncludeCoverageCheck) Requires() []model.Source {
	return []model.Source{model.SourceAuditTests, model.SourceGossIndex}
}

func (c *GossIncludeCoverageCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *GossIncludeCoverageCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	var findings []checks.Finding
	for _, f := range m.AuditTestFiles {
		matched := false
		for _, g := range m.IncludeGlobs {
			if goss.MatchGlob(g.Pattern, f) {
				matched = true
				break
			}
		}
		if !matched {
			findings = append(findings, checks.Errorf(f, 0,
				"not matched by any goss.yml inclusion glob"))
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&GossIncludeCoverageCheck{})
}
