package catalog

import (
	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type VersionConsistencyCheck struct{}

func (c *VersionConsistencyCheck) Key() string {
	return "version_consistency"
}

func (c *VersionConsistencyCheck) Name() string {
	return "Version Consistency"
}

func (c *VersionConsistencyCheck) Description() string {
	return "Compares the benchmark version across its three declarations:\n" +
		"defaults/main.yml, the audit vars file, and BENCHMARK_VER in\n" +
		"run_audit.sh. Versions are normalized to (major, minor) so that\n" +
		"v1.2.0, 1.2.0 and v1r2 compare equal.\n\n" +
		"Unparseable version strings are warnings; a genuine (major, minor)\n" +
		"disagreement is an error. With fewer than two sources found the check\n" +
		"skips: there is nothing to compare.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only version_consistency"
}

func (c *VersionConsistencyCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *VersionConsistencyCheck) Requires() []model.Source {
	return nil
}

func (c *VersionConsistencyCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *VersionConsistencyCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	if len(m.Versions) < 2 {
		return nil, checks.Skipf("fewer than two version sources found")
	}

	var findings []checks.Finding
	type normalized struct {
		v     model.VersionString
		tuple model.VersionTuple
	}
	var ok []normalized
	for _, v := range m.Versions {
		tuple, err := benchmark.NormalizeVersion(v.Raw)
		if err != nil {
			findings = append(findings, checks.Warnf(v.File, v.Line,
				"unrecognized version format %q", v.Raw))
			continue
		}
		ok = append(ok, normalized{v: v, tuple: tuple})
	}

	for i := 0; i < len(ok); i++ {
		for j := i + 1; j < len(ok); j++ {
			if ok[i].tuple != ok[j].tuple {
				findings = append(findings, checks.Errorf("", 0,
					"version mismatch: %s declares %q, %s declares %q",
					ok[i].v.File, ok[i].v.Raw, ok[j].v.File, ok[j].v.Raw))
			}
		}
	}
	return findings, nil
}

func init() {
	checks.Register(&VersionConsistencyCheck{})
}
