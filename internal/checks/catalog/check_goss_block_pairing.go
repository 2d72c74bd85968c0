package catalog

import (
	"sort"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/goss"
	"github.com/frederickw082922/crosscheck/internal/model"
)

type GossBlockPairingCheck struct{}

func (c *GossBlockPairingCheck) Key() string {
	return "goss_block_pairing"
}

func (c *GossBlockPairingCheck) Name() string {
	return "Goss Block Pairing"
}

func (c *GossBlockPairingCheck) Description() string {
	return "Verifies that every {{ if }} and {{ range }} block opened in an audit\n" +
		"test file is closed by a matching {{ end }}, and that no {{ end }}\n" +
		"appears with no block open. Goss rejects such files at run time; this\n" +
		"catches them before a release does.\n\n" +
		"Examples:\n" +
		"  crosscheck validate ./RHEL9-CIS --only goss_block_pairing"
}

func (c *GossBlockPairingCheck) AppliesTo(model.Family) bool {
	return true
}

func (c *GossBlockPairingCheck) Requires() []model.Source {
	return []model.Source{model.SourceAuditTests}
}

func (c *GossBlockPairingCheck) Policy() checks.Policy {
	return checks.PolicyBySeverity
}

func (c *GossBlockPairingCheck) Evaluate(m *model.Model) ([]checks.Finding, error) {
	files := make([]string, 0, len(m.BlockTokens))
	for f := range m.BlockTokens {
		files = append(files, f)
	}
	sort.Strings(files)

	var findings []checks.Finding
	for _, f := range files {
		findings = append(findings, goss.ValidateBlocks(f, m.BlockTokens[f])...)
	}
	return findings, nil
}

func init() {
	checks.Register(&GossBlockPairingCheck{})
}
