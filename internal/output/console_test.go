package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

func plainColors(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func sampleResult(key string, st checks.Status, findings ...checks.Finding) checks.CheckResult {
	return checks.CheckResult{
		Key:      key,
		Name:     key,
		Status:   st,
		Summary:  fmt.Sprintf("%d issue(s)", len(findings)),
		Findings: findings,
	}
}

func sampleHeader() RunHeader {
	return RunHeader{
		Info: model.RunInfo{
			RemediationRepo:   "RHEL9-CIS",
			AuditRepo:         "RHEL9-CIS-Audit",
			RemediationBranch: "main",
			Family:            model.FamilyCIS,
			Prefix:            "rhel9cis",
			Version:           "3.0.0",
			ToolVersion:       "dev",
			GeneratedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Diagnostics: []checks.Finding{
			checks.Infof("", 0, "benchmark type vote tied (cis 0, stig 0); defaulting to cis"),
		},
	}
}

func TestConsoleSink_Filtering(t *testing.T) {
	plainColors(t)

	tests := []struct {
		name           string
		format         string
		filterStatuses []string
		input          checks.CheckResult
		shouldWrite    bool
	}{
		{
			name:        "text no filter pass",
			format:      "text",
			input:       sampleResult("audit_coverage", checks.StatusPass),
			shouldWrite: true,
		},
		{
			name:           "text filter FAIL input PASS",
			format:         "text",
			filterStatuses: []string{"FAIL"},
			input:          sampleResult("audit_coverage", checks.StatusPass),
			shouldWrite:    false,
		},
		{
			name:           "text filter FAIL input FAIL",
			format:         "text",
			filterStatuses: []string{"FAIL"},
			input:          sampleResult("audit_coverage", checks.StatusFail),
			shouldWrite:    true,
		},
		{
			name:           "text filter lowercase",
			format:         "text",
			filterStatuses: []string{"warn"},
			input:          sampleResult("audit_coverage", checks.StatusWarn),
			shouldWrite:    true,
		},
		{
			name:           "ndjson filter FAIL input SKIP",
			format:         "ndjson",
			filterStatuses: []string{"FAIL"},
			input:          sampleResult("audit_coverage", checks.StatusSkip),
			shouldWrite:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sink := NewConsoleSink(&buf, tt.format, tt.filterStatuses)
			if err := sink.Write(tt.input); err != nil {
				t.Fatalf("Write error: %v", err)
			}
			wrote := buf.Len() > 0
			if wrote != tt.shouldWrite {
				t.Fatalf("wrote=%v, want %v (output %q)", wrote, tt.shouldWrite, buf.String())
			}
		})
	}
}

func TestConsoleSink_Text(t *testing.T) {
	plainColors(t)

	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, "text", nil)

	if err := sink.Write(sampleHeader()); err != nil {
		t.Fatalf("Write header error: %v", err)
	}
	if err := sink.Write(sampleResult("audit_coverage", checks.StatusPass)); err != nil {
		t.Fatalf("Write pass error: %v", err)
	}
	fail := sampleResult("category_alignment", checks.StatusFail,
		checks.Errorf("section_1/test.yml", 0, "category mismatch for cis_rule_1_1_1"),
	)
	if err := sink.Write(fail); err != nil {
		t.Fatalf("Write fail error: %v", err)
	}
	if err := sink.Write(RunFooter{Totals: Totals{Pass: 1, Fail: 1}, ExitCode: 2}); err != nil {
		t.Fatalf("Write footer error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"RHEL9-CIS (main) <-> RHEL9-CIS-Audit",
		"family cis, prefix rhel9cis, version 3.0.0",
		"note: benchmark type vote tied",
		"[PASS] audit_coverage",
		"[FAIL] category_alignment: 1 issue(s)",
		"    section_1/test.yml: category mismatch for cis_rule_1_1_1",
		"1 pass, 1 fail, 0 warn, 0 skip",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}
	// Findings of passing checks stay off the console.
	if strings.Contains(out, "audit_coverage:") {
		t.Fatalf("pass result should not print a summary:\n%s", out)
	}
}

func TestConsoleSink_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, "ndjson", nil)

	_ = sink.Write(sampleHeader())
	_ = sink.Write(sampleResult("audit_coverage", checks.StatusWarn, checks.Warnf("defaults/main.yml", 3, "toggle x")))
	_ = sink.Write(RunFooter{Totals: Totals{Warn: 1}, ExitCode: 0})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 NDJSON lines, got %d:\n%s", len(lines), buf.String())
	}

	var types []string
	for _, line := range lines {
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		typ, _ := e["type"].(string)
		types = append(types, typ)
	}
	want := []string{"run.started", "check.result", "run.finished"}
	for i, typ := range want {
		if types[i] != typ {
			t.Fatalf("event %d type: got %q, want %q", i, types[i], typ)
		}
	}

	if !strings.Contains(lines[0], `"prefix":"rhel9cis"`) {
		t.Fatalf("run.started missing run metadata: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"status":"WARN"`) {
		t.Fatalf("check.result missing status: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"totals"`) {
		t.Fatalf("run.finished missing totals: %s", lines[2])
	}
}

func TestConsoleSink_JSONAggregate(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, "json", nil)

	_ = sink.Write(sampleHeader())
	_ = sink.Write(sampleResult("audit_coverage", checks.StatusPass))
	_ = sink.Write(sampleResult("rule_id_match", checks.StatusFail, checks.Errorf("f.yml", 1, "mismatch")))
	_ = sink.Write(RunFooter{})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	var results []checks.CheckResult
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if results[1].Key != "rule_id_match" || results[1].Status != checks.StatusFail {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
}
