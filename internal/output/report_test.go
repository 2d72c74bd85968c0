package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frederickw082922/crosscheck/internal/checks"
)

func TestReportSink_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	sink, err := NewReportSink(path, "markdown")
	if err != nil {
		t.Fatalf("NewReportSink error: %v", err)
	}

	_ = sink.Write(sampleHeader())
	_ = sink.Write(sampleResult("audit_coverage", checks.StatusPass))
	_ = sink.Write(sampleResult("rule_id_match", checks.StatusFail, checks.Errorf("f.yml", 3, "rule ID mismatch")))
	_ = sink.Write(RunFooter{Totals: Totals{Pass: 1, Fail: 1}, ExitCode: 2})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "# Benchmark consistency report") {
		t.Fatalf("report missing title:\n%s", out)
	}
	if !strings.Contains(out, "| `rule_id_match` | FAIL | 1 |") {
		t.Fatalf("report missing summary row:\n%s", out)
	}
	if !strings.Contains(out, "`f.yml:3`") {
		t.Fatalf("report missing finding location:\n%s", out)
	}
}

func TestReportSink_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	sink, err := NewReportSink(path, "json")
	if err != nil {
		t.Fatalf("NewReportSink error: %v", err)
	}

	_ = sink.Write(sampleHeader())
	_ = sink.Write(sampleResult("audit_coverage", checks.StatusPass))
	_ = sink.Write(RunFooter{Totals: Totals{Pass: 1}})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Run.RemediationRepo != "RHEL9-CIS" {
		t.Fatalf("run metadata missing: %+v", decoded.Run)
	}
	if decoded.Totals.Pass != 1 {
		t.Fatalf("totals missing: %+v", decoded.Totals)
	}
}

func TestReportSink_RejectsUnknownFormat(t *testing.T) {
	if _, err := NewReportSink(filepath.Join(t.TempDir(), "r.out"), "pdf"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
