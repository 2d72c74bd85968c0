package model

// Source identifies one expected input location in the repository pair.
// Checks declare the sources they need; extraction records a Gap for any
// source whose file or directory is absent.
type Source string

const (
	// SourceDefaults is the remediation toggle-declaration file
	// (defaults/main.yml). It is the ground truth for toggle names and
	// values and one of the version locations.
	SourceDefaults Source = "remediation.defaults"

	// SourceTemplate is the generated audit-vars template shipped by the
	// remediation repository (templates/ansible_vars_goss.yml.j2).
	SourceTemplate Source = "remediation.template"

	// SourceTasks is the set of per-category remediation task directories
	// (tasks/cat_N or tasks/section_N depending on family).
	SourceTasks Source = "remediation.tasks"

	// SourceAuditVars is the audit repository's standalone vars file
	// (vars/STIG.yml, vars/CIS.yml, or the first vars/*.yml present).
	SourceAuditVars Source = "audit.vars"

	// SourceAuditTests is the set of per-category audit test directories
	// at the audit repository root.
	SourceAuditTests Source = "audit.tests"

	// SourceGossIndex is the audit repository's inclusion index (goss.yml)
	// listing test files as glob patterns.
	SourceGossIndex Source = "audit.goss_index"

	// SourceAuditScript is the audit runner script (run_audit.sh), one of
	// the version locations.
	SourceAuditScript Source = "audit.run_script"
)

// Gap records an expected source that could not be read. It degrades the
// checks that depend on the source to SKIP instead of aborting the run.
type Gap struct {
	Source Source `json:"source"`
	// Path is the expected location relative to its repository root.
	Path string `json:"path"`
	// Reason is a short human explanation (usually "file not found").
	Reason string `json:"reason"`
}
