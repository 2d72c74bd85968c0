package cli

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// scrubEnv drops CROSSCHECK_* variables so a developer's environment cannot
// leak into subprocess runs.
func scrubEnv() []string {
	out := make([]string, 0, len(os.Environ()))
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "CROSSCHECK_") {
			continue
		}
		out = append(out, e)
	}
	return out
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	// internal/cli -> repo root
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func goExe() string {
	if runtime.GOOS == "windows" {
		return "go.exe"
	}
	return "go"
}

func buildCrosscheckBinary(t *testing.T) string {
	t.Helper()

	outPath := filepath.Join(t.TempDir(), "crosscheck-test")
	if runtime.GOOS == "windows" {
		outPath += ".exe"
	}

	cmd := exec.Command(goExe(), "build", "-o", outPath, "./cmd/crosscheck")
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build crosscheck binary: %v; output=%s", err, string(out))
	}

	return outPath
}

func writePairFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// writeValidPair builds a minimal CIS pair that every check passes.
func writeValidPair(t *testing.T) (rem, audit string) {
	t.Helper()
	root := t.TempDir()
	rem = filepath.Join(root, "RHEL9-CIS")
	audit = filepath.Join(root, "RHEL9-CIS-Audit")

	writePairFile(t, rem, "defaults/main.yml", `---
benchmark_version: '3.0.0'

rhel9cis_rule_1_1_1: true
rhel9cis_rule_1_1_2: false
rhel9cis_time_server: 0.pool.ntp.org
`)
	writePairFile(t, rem, "templates/ansible_vars_goss.yml.j2", `---
benchmark_version: {{ benchmark_version }}

rhel9cis_rule_1_1_1: {{ rhel9cis_rule_1_1_1 }}
rhel9cis_rule_1_1_2: {{ rhel9cis_rule_1_1_2 }}
rhel9cis_time_server: {{ rhel9cis_time_server }}
`)
	writePairFile(t, rem, "tasks/section_1/cis_1.1.1.yml", `---
- name: "1.1.1 | PATCH | Ensure cramfs kernel module is not available"
  ansible.builtin.copy:
    dest: /etc/modprobe.d/cramfs.conf
    content: install cramfs /bin/false
  when:
    - rhel9cis_rule_1_1_1
`)
	writePairFile(t, rem, "tasks/section_1/cis_1.1.2.yml", `---
- name: "1.1.2 | PATCH | Ensure chrony is configured"
  ansible.builtin.template:
    src: chrony.conf.j2
    dest: /etc/chrony.conf
  when:
    - rhel9cis_rule_1_1_2
`)

	writePairFile(t, audit, "vars/CIS.yml", `---
benchmark_version: 3.0.0

rhel9cis_rule_1_1_1: true
rhel9cis_rule_1_1_2: false
rhel9cis_time_server: 0.pool.ntp.org
`)
	writePairFile(t, audit, "goss.yml", `---
gossfile:
  section_*/*.yml: {}
`)
	writePairFile(t, audit, "section_1/rhel9cis_rule_1_1_1.yml", `{{ if .Vars.rhel9cis_rule_1_1_1 }}
kernel-module:
  cramfs:
    loaded: false
{{ end }}
`)
	writePairFile(t, audit, "section_1/rhel9cis_rule_1_1_2.yml", `{{ if .Vars.rhel9cis_rule_1_1_2 }}
service:
  chronyd:
    enabled: true
    running: true
{{ end }}
`)
	writePairFile(t, audit, "run_audit.sh", "#!/bin/bash\nBENCHMARK_VER=v3.0.0\n")
	return rem, audit
}

func runCrosscheck(t *testing.T, binary string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = t.TempDir()
	cmd.Env = scrubEnv()
	out, err := cmd.CombinedOutput()
	if err == nil {
		return string(out), 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v; output=%s", err, err, string(out))
	}
	return string(out), exitErr.ProcessState.ExitCode()
}

func TestValidate_PrintsHelpWhenNoArgs(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	out, code := runCrosscheck(t, binary, "validate")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; output=%s", code, out)
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected help output; output=%s", out)
	}
}

func TestValidate_ExitCode3_WhenPathMissing(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	out, code := runCrosscheck(t, binary, "validate", filepath.Join(t.TempDir(), "absent"))
	if code != 3 {
		t.Fatalf("expected exit 3, got %d; output=%s", code, out)
	}
	if !strings.Contains(out, "is not a directory") {
		t.Fatalf("expected path error; output=%s", out)
	}
}

func TestValidate_ExitCode3_WhenOutFormatCannotBeInferred(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	rem, _ := writeValidPair(t)
	out, code := runCrosscheck(t, binary, "validate", rem, "--out", "results.unknown")
	if code != 3 {
		t.Fatalf("expected exit 3, got %d; output=%s", code, out)
	}
	if !strings.Contains(out, "cannot infer format") {
		t.Fatalf("expected format inference error; output=%s", out)
	}
}

func TestValidate_ExitCode3_WhenOnlyNamesUnknownCheck(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	rem, _ := writeValidPair(t)
	out, code := runCrosscheck(t, binary, "validate", rem, "--only", "no_such_check")
	if code != 3 {
		t.Fatalf("expected exit 3, got %d; output=%s", code, out)
	}
	if !strings.Contains(out, "no_such_check") {
		t.Fatalf("expected the unknown key in the error; output=%s", out)
	}
}

func TestValidate_CleanPair(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	rem, _ := writeValidPair(t)
	out, code := runCrosscheck(t, binary, "validate", rem)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; output=%s", code, out)
	}
	for _, want := range []string{
		"RHEL9-CIS <-> RHEL9-CIS-Audit",
		"family cis, prefix rhel9cis, version 3.0.0",
		"[PASS] audit_coverage",
		"[SKIP] severity_directory",
		"12 pass, 0 fail, 0 warn, 2 skip",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q; output=%s", want, out)
		}
	}
}

func TestValidate_WarnAndFailExitCodes(t *testing.T) {
	binary := buildCrosscheckBinary(t)

	t.Run("warn is clean without strict", func(t *testing.T) {
		rem, audit := writeValidPair(t)
		writePairFile(t, audit, "vars/CIS.yml", `---
benchmark_version: 3.0.0

rhel9cis_rule_1_1_1: true
rhel9cis_rule_1_1_2: true
rhel9cis_time_server: 0.pool.ntp.org
`)
		out, code := runCrosscheck(t, binary, "validate", rem)
		if code != 0 {
			t.Fatalf("expected exit 0, got %d; output=%s", code, out)
		}
		if !strings.Contains(out, "[WARN] toggle_value_sync") {
			t.Fatalf("expected warn result; output=%s", out)
		}
	})

	t.Run("warn exits 1 under strict", func(t *testing.T) {
		rem, audit := writeValidPair(t)
		writePairFile(t, audit, "vars/CIS.yml", `---
benchmark_version: 3.0.0

rhel9cis_rule_1_1_1: true
rhel9cis_rule_1_1_2: true
rhel9cis_time_server: 0.pool.ntp.org
`)
		out, code := runCrosscheck(t, binary, "validate", rem, "--strict")
		if code != 1 {
			t.Fatalf("expected exit 1, got %d; output=%s", code, out)
		}
	})

	t.Run("inconsistency exits 2", func(t *testing.T) {
		rem, audit := writeValidPair(t)
		if err := os.Remove(filepath.Join(audit, "section_1", "rhel9cis_rule_1_1_1.yml")); err != nil {
			t.Fatalf("remove: %v", err)
		}
		writePairFile(t, audit, "section_2/rhel9cis_rule_1_1_1.yml", `{{ if .Vars.rhel9cis_rule_1_1_1 }}
kernel-module:
  cramfs:
    loaded: false
{{ end }}
`)
		out, code := runCrosscheck(t, binary, "validate", rem)
		if code != 2 {
			t.Fatalf("expected exit 2, got %d; output=%s", code, out)
		}
		if !strings.Contains(out, "[FAIL] category_alignment") {
			t.Fatalf("expected fail result; output=%s", out)
		}
	})
}

func TestValidate_NDJSONStream(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	rem, _ := writeValidPair(t)
	out, code := runCrosscheck(t, binary, "validate", rem, "--console-format", "ndjson", "--quiet")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; output=%s", code, out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 16 {
		t.Fatalf("expected 16 events (header, 14 results, footer), got %d; output=%s", len(lines), out)
	}
	if !strings.Contains(lines[0], `"type":"run.started"`) {
		t.Fatalf("first event is not run.started: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"type":"check.result"`) {
		t.Fatalf("second event is not check.result: %s", lines[1])
	}
	if !strings.Contains(lines[len(lines)-1], `"type":"run.finished"`) {
		t.Fatalf("last event is not run.finished: %s", lines[len(lines)-1])
	}
}

func TestValidate_Help_DocumentsOutputAndExitCodes(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	out, code := runCrosscheck(t, binary, "validate", "--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; output=%s", code, out)
	}

	// Regression guard: command help must remain agent-friendly and document
	// machine-readable output + exit status semantics.
	required := []string{
		"Output:",
		"Exit codes:",
		"Environment:",
		"NDJSON mode emits",
		"run.started",
		"check.result",
		"run.finished",
		"CROSSCHECK_TYPE",
	}
	for _, r := range required {
		if !strings.Contains(out, r) {
			t.Fatalf("expected validate --help to contain %q; output=%s", r, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	binary := buildCrosscheckBinary(t)
	out, code := runCrosscheck(t, binary, "version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; output=%s", code, out)
	}
	if !strings.Contains(out, "crosscheck dev") || !strings.Contains(out, "commit:") {
		t.Fatalf("expected build info; output=%s", out)
	}
}
