package extract

import (
	"regexp"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// Prefix-independent line shapes, compiled once per process.
var (
	benchVersionLine  = regexp.MustCompile(`^benchmark_version:\s*['"]?([^'"#\n]+)`)
	scriptVersionLine = regexp.MustCompile(`^BENCHMARK_VER\s*=\s*([^\s#]+)`)
	includeGlobLine   = regexp.MustCompile(`^([\w.*?/\[\]-]+\.yml)\s*:\s*\{\}`)
	// nameLine matches a task-level name. The dash is required: module
	// arguments also spell "name:" but never as a list item.
	nameLine = regexp.MustCompile(`^\s*-\s*name\s*:`)
	ruleIDTag         = regexp.MustCompile(`(SV-\d+r\d+_rule)`)
	severityTag       = regexp.MustCompile(`(?i)\b(HIGH|MEDIUM|LOW)\s*\|`)
	stigIDMeta        = regexp.MustCompile(`STIG_ID:\s*(\S+)`)
	catMeta           = regexp.MustCompile(`Cat:\s*(\d+)`)
	topLevelDecl      = regexp.MustCompile(`^(\w+)\s*:`)
)

// patterns holds the prefix-dependent expressions of one extraction run.
type patterns struct {
	// toggle matches a toggle declaration at line start, capturing the name.
	toggle *regexp.Regexp
	// toggleRef matches a toggle named anywhere in a line.
	toggleRef *regexp.Regexp
	// conditional matches a template if-block opening on a toggle.
	conditional *regexp.Regexp
	// configVar matches any prefixed declaration, capturing name and value.
	configVar *regexp.Regexp
	// ruleKey matches a STIG rule key such as RHEL-09-211010 inside a task
	// name, case-insensitively. Nil for CIS and for STIG runs where the
	// rule-ID prefix could not be determined.
	ruleKey *regexp.Regexp
}

func newPatterns(f model.Family, prefix, ruleIDPrefix string) *patterns {
	p := &patterns{
		toggle:      benchmark.TogglePattern(f, prefix),
		toggleRef:   benchmark.ToggleRefPattern(f, prefix),
		conditional: benchmark.ConditionalPattern(f, prefix),
		configVar:   regexp.MustCompile(`^(` + regexp.QuoteMeta(prefix) + `_\w+)\s*:\s*(.+)$`),
	}
	if f == model.FamilySTIG && ruleIDPrefix != "" {
		p.ruleKey = regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(ruleIDPrefix) + `-\d{6})`)
	}
	return p
}
