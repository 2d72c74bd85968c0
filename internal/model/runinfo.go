package model

import "time"

// RunInfo is the run-level metadata rendered in report headers. It carries
// no check data; results reference it read-only.
type RunInfo struct {
	RemediationRepo string `json:"remediation_repo"`
	AuditRepo       string `json:"audit_repo"`
	RemediationPath string `json:"remediation_path"`
	AuditPath       string `json:"audit_path"`

	Family       Family `json:"family"`
	Prefix       string `json:"prefix"`
	RuleIDPrefix string `json:"rule_id_prefix,omitempty"`

	// Version is the first benchmark version string found, raw.
	Version string `json:"version,omitempty"`

	// Branch names read from each repository's .git/HEAD, empty when the
	// directory is not a git checkout.
	RemediationBranch string `json:"remediation_branch,omitempty"`
	AuditBranch       string `json:"audit_branch,omitempty"`

	ToolVersion string    `json:"tool_version"`
	GeneratedAt time.Time `json:"generated_at"`
}
