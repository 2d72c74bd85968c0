// Package goss understands just enough of the audit test language to
// support extraction and validation: block delimiters ({{ if }}, {{ range }},
// {{ end }}), templated variable references (.Vars.name), the inclusion
// index's glob dialect, and the variable names its runner injects at
// execution time. It is deliberately not a template parser.
package goss

import (
	"regexp"
	"strings"
	"sync"

	"github.com/frederickw082922/crosscheck/internal/model"
)

// VarRefPattern matches a templated variable reference and captures its
// name.
var VarRefPattern = regexp.MustCompile(`\.Vars\.(\w+)`)

// blockDelimiter matches every block open/close delimiter on a line, in
// positional order, so one-line constructs like "{{ if x }}x{{ end }}"
// tokenize correctly.
var blockDelimiter = regexp.MustCompile(`\{\{-?\s*(if|range|end)\b`)

// ScanBlocks extracts the ordered block-delimiter stream from a file's
// lines. Lines are 1-based in the returned tokens.
func ScanBlocks(lines []string) []model.BlockToken {
	var tokens []model.BlockToken
	for i, line := range lines {
		for _, m := range blockDelimiter.FindAllStringSubmatch(line, -1) {
			switch m[1] {
			case "if":
				tokens = append(tokens, model.BlockToken{Kind: model.TokenOpen, Construct: model.ConstructIf, Line: i + 1})
			case "range":
				tokens = append(tokens, model.BlockToken{Kind: model.TokenOpen, Construct: model.ConstructRange, Line: i + 1})
			case "end":
				tokens = append(tokens, model.BlockToken{Kind: model.TokenClose, Line: i + 1})
			}
		}
	}
	return tokens
}

// DefaultRuntimeVars are variable names the audit runner injects at
// execution time. References to them never require a declaration in the
// audit vars file.
func DefaultRuntimeVars() []string {
	return []string{
		"machine_uuid",
		"epoch",
		"os_locale",
		"os_release",
		"os_distribution",
		"auto_group",
		"os_hostname",
		"system_type",
		"benchmark_type",
		"benchmark_version",
		"benchmark_os",
		"system_is_container",
	}
}

var (
	globMu    sync.Mutex
	globCache = map[string]*regexp.Regexp{}
)

// MatchGlob reports whether an inclusion pattern matches a file path,
// using shell-wildcard semantics where '*' and '?' cross directory
// separators. The inclusion index was written against a matcher with those
// semantics, so path-segment matching would reject nested files the index
// legitimately covers.
func MatchGlob(pattern, path string) bool {
	globMu.Lock()
	re, ok := globCache[pattern]
	globMu.Unlock()
	if !ok {
		re = regexp.MustCompile(translateGlob(pattern))
		globMu.Lock()
		globCache[pattern] = re
		globMu.Unlock()
	}
	return re.MatchString(path)
}

func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString(`\A`)
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			// Pass character classes through, handling a leading negation.
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i : j+1]
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString(class)
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	return b.String()
}
