package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/frederickw082922/crosscheck/internal/checks"
	_ "github.com/frederickw082922/crosscheck/internal/checks/catalog"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// faultyCheck misbehaves on demand so the runner's isolation can be proven
// without registering anything.
type faultyCheck struct {
	panicWith any
	err       error
}

func (c faultyCheck) Key() string                 { return "faulty" }
func (c faultyCheck) Name() string                { return "Faulty" }
func (c faultyCheck) Description() string         { return "always misbehaves" }
func (c faultyCheck) AppliesTo(model.Family) bool { return true }
func (c faultyCheck) Requires() []model.Source    { return nil }
func (c faultyCheck) Policy() checks.Policy       { return checks.PolicyBySeverity }

func (c faultyCheck) Evaluate(*model.Model) ([]checks.Finding, error) {
	if c.panicWith != nil {
		panic(c.panicWith)
	}
	return nil, c.err
}

func TestExitCode(t *testing.T) {
	result := func(st checks.Status) checks.CheckResult {
		return checks.CheckResult{Key: "k", Status: st}
	}

	tests := []struct {
		name    string
		results []checks.CheckResult
		strict  bool
		want    int
	}{
		{name: "empty", want: 0},
		{name: "all_pass", results: []checks.CheckResult{result(checks.StatusPass)}, want: 0},
		{name: "warn_without_strict", results: []checks.CheckResult{result(checks.StatusWarn)}, want: 0},
		{name: "warn_with_strict", results: []checks.CheckResult{result(checks.StatusWarn)}, strict: true, want: 1},
		{name: "fail", results: []checks.CheckResult{result(checks.StatusFail)}, want: 2},
		{name: "fail_beats_warn", results: []checks.CheckResult{result(checks.StatusWarn), result(checks.StatusFail)}, strict: true, want: 2},
		{name: "skip_is_clean", results: []checks.CheckResult{result(checks.StatusSkip)}, strict: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.results, tt.strict); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func keysOf(list []checks.Check) []string {
	keys := make([]string, len(list))
	for i, c := range list {
		keys[i] = c.Key()
	}
	return keys
}

func TestSelectChecks(t *testing.T) {
	all := checks.List()

	t.Run("no selectors keep everything", func(t *testing.T) {
		got, err := selectChecks(all, nil, nil)
		if err != nil {
			t.Fatalf("selectChecks error: %v", err)
		}
		if len(got) != len(all) {
			t.Fatalf("want %d checks, got %d", len(all), len(got))
		}
	})

	t.Run("skip removes keys", func(t *testing.T) {
		got, err := selectChecks(all, nil, []string{"audit_coverage", "version_consistency"})
		if err != nil {
			t.Fatalf("selectChecks error: %v", err)
		}
		if len(got) != len(all)-2 {
			t.Fatalf("want %d checks, got %d", len(all)-2, len(got))
		}
		for _, key := range keysOf(got) {
			if key == "audit_coverage" || key == "version_consistency" {
				t.Fatalf("skipped check still selected: %s", key)
			}
		}
	})

	t.Run("only wins over skip", func(t *testing.T) {
		got, err := selectChecks(all, []string{"rule_id_match"}, []string{"rule_id_match"})
		if err != nil {
			t.Fatalf("selectChecks error: %v", err)
		}
		want := []string{"rule_id_match"}
		if !reflect.DeepEqual(keysOf(got), want) {
			t.Fatalf("selected %v, want %v", keysOf(got), want)
		}
	})

	t.Run("unknown only key", func(t *testing.T) {
		_, err := selectChecks(all, []string{"no_such_check"}, nil)
		if err == nil {
			t.Fatalf("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "no_such_check") {
			t.Fatalf("error does not name the key: %v", err)
		}
	})

	t.Run("unknown skip key", func(t *testing.T) {
		if _, err := selectChecks(all, nil, []string{"typo"}); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}

func TestRunChecksKeepsCatalogueOrder(t *testing.T) {
	m := model.New()
	m.Family = model.FamilyCIS
	m.Prefix = "rhel9cis"

	eng := New(nil, "test")
	results := eng.runChecks(m, checks.List(), 4)

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Key
	}
	if !reflect.DeepEqual(got, checks.Keys()) {
		t.Fatalf("result order mismatch:\ngot  %v\nwant %v", got, checks.Keys())
	}
}

func TestRunOne(t *testing.T) {
	lookup := func(t *testing.T, key string) checks.Check {
		t.Helper()
		c, ok := checks.Lookup(key)
		if !ok {
			t.Fatalf("check %s not registered", key)
		}
		return c
	}

	t.Run("missing source degrades to SKIP", func(t *testing.T) {
		m := model.New()
		m.Family = model.FamilyCIS
		m.Gaps[model.SourceDefaults] = model.Gap{
			Source: model.SourceDefaults,
			Path:   "defaults/main.yml",
			Reason: "file not found",
		}

		eng := New(nil, "test")
		res := eng.runOne(m, lookup(t, "audit_coverage"))
		if res.Status != checks.StatusSkip {
			t.Fatalf("status: got %s, want SKIP", res.Status)
		}
		if len(res.Findings) != 1 || !strings.Contains(res.Findings[0].Description, "file not found") {
			t.Fatalf("skip reason does not cite the gap: %+v", res.Findings)
		}
	})

	t.Run("foreign family degrades to SKIP", func(t *testing.T) {
		m := model.New()
		m.Family = model.FamilyCIS

		eng := New(nil, "test")
		res := eng.runOne(m, lookup(t, "severity_directory"))
		if res.Status != checks.StatusSkip {
			t.Fatalf("status: got %s, want SKIP", res.Status)
		}
		if !strings.Contains(res.Findings[0].Description, "not applicable") {
			t.Fatalf("unexpected skip reason: %+v", res.Findings)
		}
	})

	t.Run("self skip carries its reason", func(t *testing.T) {
		m := model.New()
		m.Family = model.FamilyCIS

		eng := New(nil, "test")
		res := eng.runOne(m, lookup(t, "version_consistency"))
		if res.Status != checks.StatusSkip {
			t.Fatalf("status: got %s, want SKIP", res.Status)
		}
		if !strings.Contains(res.Findings[0].Description, "fewer than two version sources") {
			t.Fatalf("unexpected skip reason: %+v", res.Findings)
		}
	})

	t.Run("panicking check degrades to SKIP", func(t *testing.T) {
		m := model.New()
		m.Family = model.FamilyCIS

		eng := New(nil, "test")
		res := eng.runOne(m, faultyCheck{panicWith: "boom"})
		if res.Status != checks.StatusSkip {
			t.Fatalf("status: got %s, want SKIP", res.Status)
		}
		if !strings.Contains(res.Findings[0].Description, "internal fault") {
			t.Fatalf("skip reason does not cite the fault: %+v", res.Findings)
		}
	})

	t.Run("evaluation error degrades to SKIP", func(t *testing.T) {
		m := model.New()
		m.Family = model.FamilyCIS

		eng := New(nil, "test")
		res := eng.runOne(m, faultyCheck{err: errors.New("broken walker")})
		if res.Status != checks.StatusSkip {
			t.Fatalf("status: got %s, want SKIP", res.Status)
		}
		if !strings.Contains(res.Findings[0].Description, "broken walker") {
			t.Fatalf("skip reason does not cite the error: %+v", res.Findings)
		}
	})
}
