package model

// Family is the benchmark naming dialect. The set is closed: every toggle,
// rule key, and category convention belongs to one of exactly two families.
type Family string

const (
	FamilyCIS  Family = "cis"
	FamilySTIG Family = "stig"
)

// Toggle is one on/off rule switch as declared in a single source file. The
// same name may appear in up to four sources; Name is the join key across
// them.
type Toggle struct {
	Name string `json:"name"`
	// Raw is the declared value text with quotes and trailing comments
	// stripped. Empty when the source declares the name without a scalar
	// value on the same line.
	Raw string `json:"raw,omitempty"`
	// Bool is the parsed boolean value, nil when Raw is not a plain
	// true/false literal (templated values stay nil).
	Bool *bool  `json:"bool,omitempty"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// ConfigVariable is a non-toggle scalar setting. Multi-line and list values
// are excluded from extraction on purpose: formatting differences across the
// two repositories would drown real mismatches.
type ConfigVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	File  string `json:"file"`
	Line  int    `json:"line"`
}

// TemplateVariable is one entry of the generated audit-vars template.
type TemplateVariable struct {
	Name string `json:"name"`
	Raw  string `json:"raw"`
	// Hardcoded is true when Raw contains no template expression, meaning
	// the template ships a literal instead of referencing the declaration
	// source.
	Hardcoded bool   `json:"hardcoded"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

// TaskRecord is one rule found in a remediation task file.
type TaskRecord struct {
	// Key is the human-assigned rule identifier: a dotted-section toggle
	// name for CIS, an <idprefix>-DDDDDD code for STIG.
	Key string `json:"key"`
	// RuleID is the embedded secondary identifier (SV-NNNrN_rule) when tagged.
	RuleID string `json:"rule_id,omitempty"`
	// Category is the numeric suffix of the containing category directory,
	// 0 when the directory does not follow the family convention.
	Category int    `json:"category,omitempty"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// AuditRecord is one audit test file together with its embedded metadata.
type AuditRecord struct {
	Key  string `json:"key"`
	File string `json:"file"`
	// Category is derived from the containing category directory.
	Category int `json:"category,omitempty"`
	// MetaCategory is the Cat: value embedded in the file, 0 when absent.
	MetaCategory int    `json:"meta_category,omitempty"`
	RuleID       string `json:"rule_id,omitempty"`
	StigID       string `json:"stig_id,omitempty"`
	// Toggle is the toggle named by the file's first template conditional.
	Toggle string `json:"toggle,omitempty"`
}

// SeverityLabel is a HIGH/MEDIUM/LOW marker on a task name line, recorded
// with the category of the directory the task lives in.
type SeverityLabel struct {
	Label    string `json:"label"`
	Category int    `json:"category"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// WhenRef pairs a conditional toggle reference with the rule key most
// recently named above it in the same task file.
type WhenRef struct {
	RuleKey string `json:"rule_key"`
	Toggle  string `json:"toggle"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

// VersionString is one raw benchmark version as found in a source, before
// normalization.
type VersionString struct {
	Source Source `json:"source"`
	Raw    string `json:"raw"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

// VersionTuple is the canonical comparable form of a version string.
// Components beyond minor are ignored: patch and revision numbers drift
// across the three locations without being a defect.
type VersionTuple struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// Glob is one inclusion pattern from the audit index file.
type Glob struct {
	Pattern string `json:"pattern"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

// TokenKind distinguishes block-delimiter tokens in audit template text.
type TokenKind string

const (
	TokenOpen  TokenKind = "open"
	TokenClose TokenKind = "close"
)

// Construct is the template construct an open token introduces. Close
// tokens carry no construct: the template language closes every block with
// a bare "end".
type Construct string

const (
	ConstructIf    Construct = "if"
	ConstructRange Construct = "range"
)

// BlockToken is one block delimiter in file order, the unit consumed by the
// block-pairing validation.
type BlockToken struct {
	Kind      TokenKind `json:"kind"`
	Construct Construct `json:"construct,omitempty"`
	Line      int       `json:"line"`
}
