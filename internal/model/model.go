package model

import "sort"

// Model is the complete record set extracted from one remediation/audit
// repository pair. It is built once per run and read-only from then on:
// checks receive it by pointer but never mutate it.
type Model struct {
	Family       Family `json:"family"`
	Prefix       string `json:"prefix"`
	RuleIDPrefix string `json:"rule_id_prefix,omitempty"`

	RemediationRoot string `json:"remediation_root"`
	AuditRoot       string `json:"audit_root"`

	// Toggle declarations per source, keyed by toggle name.
	DefaultToggles   map[string]Toggle `json:"default_toggles"`
	TemplateToggles  map[string]Toggle `json:"template_toggles"`
	AuditVarsToggles map[string]Toggle `json:"audit_vars_toggles"`
	// AuditConditionals maps a toggle name to the first audit test file
	// whose template conditional references it.
	AuditConditionals map[string]string `json:"audit_conditionals"`

	// Non-toggle scalar settings per declaration source.
	DefaultConfig map[string]ConfigVariable   `json:"default_config"`
	AuditConfig   map[string]ConfigVariable   `json:"audit_config"`
	TemplateVars  map[string]TemplateVariable `json:"template_vars"`

	Tasks      map[string]TaskRecord  `json:"tasks"`
	AuditFiles map[string]AuditRecord `json:"audit_files"`

	SeverityLabels []SeverityLabel `json:"severity_labels,omitempty"`
	WhenRefs       []WhenRef       `json:"when_refs,omitempty"`

	// VarRefs maps each templated variable name referenced by audit test
	// files to the sorted list of files referencing it.
	VarRefs map[string][]string `json:"var_refs"`
	// AuditDeclared maps every top-level name declared in the audit vars
	// file to its line, toggles and config alike.
	AuditDeclared map[string]int `json:"audit_declared"`

	// RuntimeExcluded holds variable names injected by the audit runner;
	// references to them never need a declaration.
	RuntimeExcluded map[string]bool `json:"runtime_excluded,omitempty"`

	IncludeGlobs []Glob `json:"include_globs,omitempty"`
	// AuditTestFiles lists every audit test file found on disk, sorted,
	// relative to the audit root.
	AuditTestFiles []string `json:"audit_test_files,omitempty"`

	// BlockTokens holds the ordered block-delimiter stream per audit file.
	BlockTokens map[string][]BlockToken `json:"block_tokens,omitempty"`

	Versions []VersionString `json:"versions,omitempty"`

	Gaps map[Source]Gap `json:"gaps,omitempty"`
}

// New returns an empty model with every map initialized, so extraction and
// synthetic test fixtures can fill fields without nil checks.
func New() *Model {
	return &Model{
		DefaultToggles:    make(map[string]Toggle),
		TemplateToggles:   make(map[string]Toggle),
		AuditVarsToggles:  make(map[string]Toggle),
		AuditConditionals: make(map[string]string),
		DefaultConfig:     make(map[string]ConfigVariable),
		AuditConfig:       make(map[string]ConfigVariable),
		TemplateVars:      make(map[string]TemplateVariable),
		Tasks:             make(map[string]TaskRecord),
		AuditFiles:        make(map[string]AuditRecord),
		VarRefs:           make(map[string][]string),
		AuditDeclared:     make(map[string]int),
		RuntimeExcluded:   make(map[string]bool),
		BlockTokens:       make(map[string][]BlockToken),
		Gaps:              make(map[Source]Gap),
	}
}

// Missing reports whether the given source was recorded as an extraction gap.
func (m *Model) Missing(s Source) bool {
	_, ok := m.Gaps[s]
	return ok
}

// GapFor returns the gap recorded for a source, if any.
func (m *Model) GapFor(s Source) (Gap, bool) {
	g, ok := m.Gaps[s]
	return g, ok
}

// Names returns the keys of a record map in sorted order. Checks iterate
// maps through it so finding order is stable across runs.
func Names[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
