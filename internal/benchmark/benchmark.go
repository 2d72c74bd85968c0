// Package benchmark knows the two naming dialects of hardening benchmarks
// (CIS and STIG) and everything that depends on which one a repository pair
// speaks: toggle and conditional patterns, category directory conventions,
// rule-key derivation, and check applicability. The family set is closed;
// dialect-specific behavior lives in lookup tables here instead of being
// spread across callers.
package benchmark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/frederickw082922/crosscheck/internal/model"
)

// familySpec is the per-dialect lookup table.
type familySpec struct {
	// toggleShape yields the unanchored toggle-name pattern for a variable
	// prefix. Declaration and conditional patterns are both built from it.
	toggleShape func(prefix string) string
	// categoryDir is the category directory prefix ("cat_" or "section_").
	categoryDir string
	// severityLabels is true when task names carry HIGH/MEDIUM/LOW labels
	// tied to category directories.
	severityLabels bool
	// whenAlignment is true when per-rule conditionals must name the
	// toggle matching the rule's own identifier.
	whenAlignment bool
}

var families = map[model.Family]familySpec{
	model.FamilyCIS: {
		toggleShape: func(prefix string) string {
			return regexp.QuoteMeta(prefix) + `_rule_[\d_]+`
		},
		categoryDir:    "section_",
		severityLabels: false,
		whenAlignment:  false,
	},
	model.FamilySTIG: {
		toggleShape: func(prefix string) string {
			return regexp.QuoteMeta(prefix) + `_\d{6}`
		},
		categoryDir:    "cat_",
		severityLabels: true,
		whenAlignment:  true,
	},
}

// TogglePattern compiles the anchored toggle-declaration pattern for a
// family and variable prefix. Matches capture the toggle name.
func TogglePattern(f model.Family, prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^(` + families[f].toggleShape(prefix) + `)\s*:`)
}

// ConditionalPattern compiles the audit template conditional pattern for a
// family and prefix: an if-block opening on one of the family's toggles.
// Matches capture the toggle name.
func ConditionalPattern(f model.Family, prefix string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{-?\s*if\s+\.Vars\.(` + families[f].toggleShape(prefix) + `)`)
}

// ToggleRefPattern compiles the unanchored toggle-reference pattern for a
// family and prefix, used to spot toggles cited mid-line in conditionals
// and task list items. Matches capture the toggle name.
func ToggleRefPattern(f model.Family, prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(` + families[f].toggleShape(prefix) + `)`)
}

// CategoryDirPrefix returns the family's category directory prefix.
func CategoryDirPrefix(f model.Family) string {
	return families[f].categoryDir
}

// CategoryFromDir parses a directory name into its category number.
// "cat_2" is category 2 for STIG, "section_5" category 5 for CIS.
func CategoryFromDir(f model.Family, dir string) (int, bool) {
	rest, ok := strings.CutPrefix(dir, families[f].categoryDir)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CategoryLabel renders a category number in the family's directory
// convention.
func CategoryLabel(f model.Family, n int) string {
	return families[f].categoryDir + strconv.Itoa(n)
}

// HasSeverityLabels reports whether the family ties HIGH/MEDIUM/LOW task
// labels to category directories.
func HasSeverityLabels(f model.Family) bool {
	return families[f].severityLabels
}

// HasWhenAlignment reports whether the family requires per-rule
// conditionals to reference the rule's own toggle.
func HasWhenAlignment(f model.Family) bool {
	return families[f].whenAlignment
}

// severityCategories maps a task severity label to the category directory
// it belongs in.
var severityCategories = map[string]int{
	"HIGH":   1,
	"MEDIUM": 2,
	"LOW":    3,
}

// SeverityCategory returns the category implied by a HIGH/MEDIUM/LOW label,
// 0 for anything else.
func SeverityCategory(label string) int {
	return severityCategories[strings.ToUpper(label)]
}

// ruleKeyStem is the canonical STIG rule-key file stem, e.g.
// RHEL-09-211010.
var ruleKeyStem = regexp.MustCompile(`^[A-Z]+-\d+-\d{6}$`)

// IsRuleKeyStem reports whether a file stem is itself a STIG rule key.
func IsRuleKeyStem(s string) bool {
	return ruleKeyStem.MatchString(s)
}

// ExpectedAuditKey derives the audit file key a toggle should be verified
// by. STIG toggles <prefix>_DDDDDD map to <idprefix>-DDDDDD; CIS audit
// files are keyed by the toggle itself. Returns "" when the key cannot be
// derived (STIG without a known rule-ID prefix).
func ExpectedAuditKey(f model.Family, ruleIDPrefix, prefix, toggle string) string {
	if f != model.FamilySTIG {
		return toggle
	}
	if ruleIDPrefix == "" {
		return ""
	}
	return ruleIDPrefix + "-" + strings.TrimPrefix(toggle, prefix+"_")
}

// ToggleForKey is the inverse of ExpectedAuditKey: the toggle name a rule
// key should be switched by.
func ToggleForKey(f model.Family, prefix, key string) string {
	if f != model.FamilySTIG {
		return key
	}
	if i := strings.LastIndex(key, "-"); i >= 0 {
		return prefix + "_" + key[i+1:]
	}
	return prefix + "_" + key
}

// ParseFamily converts a user-supplied family name. Empty and "auto" mean
// detection.
func ParseFamily(s string) (model.Family, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", false, nil
	case "cis":
		return model.FamilyCIS, true, nil
	case "stig":
		return model.FamilySTIG, true, nil
	default:
		return "", false, fmt.Errorf("unknown benchmark type %q (want cis, stig, or auto)", s)
	}
}
