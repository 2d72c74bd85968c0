package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// validation behavior, keep these in sync:
	// - CLI flags in internal/cli/validate.go
	// - config-file keys in internal/config/file.go
	Benchmark Benchmark
	Checks    Checks
	Output    Output
	Runtime   Runtime
}

type Benchmark struct {
	// RemediationPath is the remediation repository checkout, taken from
	// the validate command's positional argument.
	RemediationPath string

	// AuditPath points at the paired audit repository (see --audit).
	// Empty means locate it beside the remediation checkout by name.
	AuditPath string

	// Type forces the benchmark family (see --type).
	// Allowed values: cis, stig, auto.
	Type string

	// Prefix forces the benchmark variable prefix, e.g. rhel9cis
	// (see --prefix). Empty means detect it by majority vote.
	Prefix string

	// RuleIDPrefix forces the STIG rule-key prefix, e.g. RHEL-09
	// (see --rule-id-prefix). Only meaningful for the stig family.
	RuleIDPrefix string
}

type Checks struct {
	// Only restricts the run to these check keys (see --only).
	// Values may be provided as repeated flags and/or comma-separated
	// lists. When set, Skip is ignored.
	Only []string

	// Skip excludes these check keys (see --skip).
	Skip []string

	// Strict makes WARN results affect the exit code (see --strict).
	Strict bool

	// Waivers is the path to a waiver file (see --waivers). Empty means
	// no waivers are applied.
	Waivers string
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by result status
	// (see --console-filter-status).
	// Allowed values: PASS, FAIL, WARN, SKIP.
	ConsoleFilterStatus []string

	// Report writes a rendered report to this path (see --report).
	Report string

	// ReportFormat selects the format for --report (see --report-format).
	// Allowed values: markdown, html, json. If empty, it is inferred from
	// the --report file extension.
	ReportFormat string

	// Out writes raw results to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the
	// --out file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --out/--report for machine-readable output.
	NoConsole bool
}

type Runtime struct {
	// Concurrency bounds parallel check execution (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// RuntimeVars names additional audit-runner-injected variables whose
	// references never need a declaration (see --runtime-var).
	RuntimeVars []string

	// Verbose enables debug-level diagnostics on stderr (see --verbose).
	Verbose bool

	// Quiet silences diagnostics entirely (see --quiet).
	Quiet bool
}

func New() *Config {
	return &Config{
		Benchmark: Benchmark{
			Type: "auto",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 4,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Checks.Only = splitCommaList(c.Checks.Only)
	c.Checks.Skip = splitCommaList(c.Checks.Skip)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)
	c.Runtime.RuntimeVars = splitCommaList(c.Runtime.RuntimeVars)

	// Benchmark validation
	if strings.TrimSpace(c.Benchmark.RemediationPath) == "" {
		return errors.New("a remediation repository path is required")
	}
	c.Benchmark.Type = normalizeEnumValue(c.Benchmark.Type)
	if c.Benchmark.Type == "" {
		c.Benchmark.Type = "auto"
	}
	if c.Benchmark.Type != "cis" && c.Benchmark.Type != "stig" && c.Benchmark.Type != "auto" {
		return fmt.Errorf("unsupported --type: %s (must be one of: cis, stig, auto)", c.Benchmark.Type)
	}
	c.Benchmark.Prefix = strings.TrimSpace(c.Benchmark.Prefix)
	c.Benchmark.RuleIDPrefix = strings.ToUpper(strings.TrimSpace(c.Benchmark.RuleIDPrefix))

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, st := range c.Output.ConsoleFilterStatus {
		v := strings.ToUpper(strings.TrimSpace(st))
		if v != "PASS" && v != "FAIL" && v != "WARN" && v != "SKIP" {
			return fmt.Errorf("unsupported --console-filter-status value: %s (must be one of: PASS, FAIL, WARN, SKIP)", st)
		}
		c.Output.ConsoleFilterStatus[i] = v
	}

	if c.Output.Out != "" {
		format, err := resolveFormat(c.Output.OutFormat, c.Output.Out, map[string]string{
			".json":   "json",
			".ndjson": "ndjson",
			".jsonl":  "ndjson",
		}, "--out-format")
		if err != nil {
			return err
		}
		c.Output.OutFormat = format
	}

	if c.Output.Report != "" {
		format, err := resolveFormat(c.Output.ReportFormat, c.Output.Report, map[string]string{
			".md":       "markdown",
			".markdown": "markdown",
			".html":     "html",
			".htm":      "html",
			".json":     "json",
		}, "--report-format")
		if err != nil {
			return err
		}
		c.Output.ReportFormat = format
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Quiet && c.Runtime.Verbose {
		return errors.New("--quiet and --verbose are mutually exclusive")
	}

	return nil
}

// resolveFormat normalizes an explicit format value against the allowed set,
// or infers one from the file extension when the value is empty.
func resolveFormat(explicit, path string, byExt map[string]string, flag string) (string, error) {
	allowed := make(map[string]bool, len(byExt))
	var names []string
	for _, f := range byExt {
		if !allowed[f] {
			allowed[f] = true
			names = append(names, f)
		}
	}
	sort.Strings(names)

	v := normalizeEnumValue(explicit)
	if v != "" {
		if !allowed[v] {
			return "", fmt.Errorf("unsupported %s: %s (must be one of: %s)", flag, v, strings.Join(names, ", "))
		}
		return v, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := byExt[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("cannot infer format for %q (missing extension); use %s", path, flag)
	}
	return "", fmt.Errorf("cannot infer format from file extension %q; use %s", ext, flag)
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
