package checks

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPolicyStatus(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		findings []Finding
		want     Status
	}{
		{"by-severity no findings", PolicyBySeverity, nil, StatusPass},
		{"by-severity info only", PolicyBySeverity, []Finding{{Severity: SeverityInfo}}, StatusPass},
		{"by-severity warning", PolicyBySeverity, []Finding{{Severity: SeverityInfo}, {Severity: SeverityWarning}}, StatusWarn},
		{"by-severity error beats warning", PolicyBySeverity, []Finding{{Severity: SeverityWarning}, {Severity: SeverityError}}, StatusFail},
		{"warn-on-any no findings", PolicyWarnOnAny, nil, StatusPass},
		{"warn-on-any info counts", PolicyWarnOnAny, []Finding{{Severity: SeverityInfo}}, StatusWarn},
		{"warn-on-any error still fails", PolicyWarnOnAny, []Finding{{Severity: SeverityError}}, StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Status(tt.findings); got != tt.want {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewResultSortsAndDerives(t *testing.T) {
	c := &dummyCheck{key: "sorted", policy: PolicyBySeverity}
	findings := []Finding{
		Warnf("b.yml", 3, "later file"),
		Warnf("a.yml", 9, "same file later line"),
		Warnf("a.yml", 2, "same file early line"),
	}
	res := NewResult(c, findings)

	if res.Status != StatusWarn {
		t.Fatalf("want WARN, got %v", res.Status)
	}
	if res.Summary != "3 issue(s)" {
		t.Fatalf("want summary %q, got %q", "3 issue(s)", res.Summary)
	}
	wantOrder := []string{"same file early line", "same file later line", "later file"}
	for i, want := range wantOrder {
		if res.Findings[i].Description != want {
			t.Fatalf("finding %d: want %q, got %q", i, want, res.Findings[i].Description)
		}
	}
}

func TestNewResultCleanHasNoSummary(t *testing.T) {
	c := &dummyCheck{key: "clean", policy: PolicyBySeverity}
	res := NewResult(c, nil)
	if res.Status != StatusPass {
		t.Fatalf("want PASS, got %v", res.Status)
	}
	if res.Summary != "" {
		t.Fatalf("clean result should carry no summary, got %q", res.Summary)
	}
}

func TestSkipResult(t *testing.T) {
	c := &dummyCheck{key: "skipme"}
	res := SkipResult(c, "audit vars file absent")
	if res.Status != StatusSkip {
		t.Fatalf("want SKIP, got %v", res.Status)
	}
	if len(res.Findings) != 1 || res.Findings[0].Severity != SeverityInfo {
		t.Fatalf("want one info finding, got %+v", res.Findings)
	}
	if res.Findings[0].Description != "audit vars file absent" {
		t.Fatalf("reason not carried: %+v", res.Findings[0])
	}
}

func TestSkipf(t *testing.T) {
	err := Skipf("only %d version source(s) found", 1)
	reason, ok := SkipReason(err)
	if !ok || reason != "only 1 version source(s) found" {
		t.Fatalf("want skip reason, got %q ok=%v", reason, ok)
	}
	if _, ok := SkipReason(errors.New("boom")); ok {
		t.Fatalf("plain errors must not read as skips")
	}
}

func TestFindingSerialization(t *testing.T) {
	f := Errorf("cat_1/AZLX-23-000100.yml", 12, "category mismatch")
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"severity":"error","file":"cat_1/AZLX-23-000100.yml","line":12,"description":"category mismatch"}`
	if string(data) != expected {
		t.Fatalf("want %s, got %s", expected, string(data))
	}
}
