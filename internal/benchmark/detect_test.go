package benchmark

import (
	"strings"
	"testing"

	"github.com/frederickw082922/crosscheck/internal/model"
)

func TestTopLevelNames(t *testing.T) {
	lines := []string{
		"---",
		"# comment",
		"rhel9cis_rule_1_1_1: true",
		"  indented_key: true",
		"rhel9cis_syslog: rsyslog",
		"rhel9cis_rule_1_1_2 : false",
		"",
	}
	got := TopLevelNames(lines)
	want := []string{"rhel9cis_rule_1_1_1", "rhel9cis_syslog", "rhel9cis_rule_1_1_2"}
	if len(got) != len(want) {
		t.Fatalf("want %d names, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestDetectPrefix(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		wantPrefix string
		wantErr    bool
		wantNote   bool
	}{
		{
			name: "cis toggles plus config vars",
			names: []string{
				"rhel9cis_rule_1_1_1", "rhel9cis_rule_1_1_2", "rhel9cis_rule_2_1_1",
				"rhel9cis_syslog_service", "rhel9cis_time_server",
			},
			wantPrefix: "rhel9cis",
		},
		{
			name: "stig toggles",
			names: []string{
				"az2023stig_000100", "az2023stig_000200", "az2023stig_000300",
			},
			wantPrefix: "az2023stig",
		},
		{
			name:    "no underscored names",
			names:   []string{"alpha", "beta"},
			wantErr: true,
		},
		{
			name:    "too few votes",
			names:   []string{"rhel9cis_rule_1_1_1", "other_thing"},
			wantErr: true,
		},
		{
			name: "unrelated tie breaks deterministically",
			names: []string{
				"alpha_one", "alpha_two", "alpha_three",
				"beta_one", "beta_two", "beta_three",
			},
			wantPrefix: "alpha",
			wantNote:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote, err := DetectPrefix(tt.names)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got vote %+v", vote)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectPrefix error: %v", err)
			}
			if vote.Prefix != tt.wantPrefix {
				t.Fatalf("want prefix %q, got %q", tt.wantPrefix, vote.Prefix)
			}
			if tt.wantNote && vote.Note == "" {
				t.Fatalf("expected a tie note")
			}
			if !tt.wantNote && vote.Note != "" {
				t.Fatalf("unexpected note %q", vote.Note)
			}
		})
	}
}

func TestDetectPrefixNestedTieStaysQuiet(t *testing.T) {
	// All-toggle repos tie "<p>" with "<p>_rule"; that is the normal case
	// and must not be reported as ambiguous.
	names := []string{"rhel9cis_rule_1_1_1", "rhel9cis_rule_1_1_2", "rhel9cis_rule_1_2_1"}
	vote, err := DetectPrefix(names)
	if err != nil {
		t.Fatalf("DetectPrefix error: %v", err)
	}
	if vote.Prefix != "rhel9cis" {
		t.Fatalf("want prefix rhel9cis, got %q", vote.Prefix)
	}
	if vote.Note != "" {
		t.Fatalf("unexpected note %q", vote.Note)
	}
}

func TestDetectFamily(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		prefix     string
		wantFamily model.Family
		wantNote   bool
	}{
		{
			name:       "cis majority",
			names:      []string{"p_rule_1_1_1", "p_rule_1_1_2", "p_000100"},
			prefix:     "p",
			wantFamily: model.FamilyCIS,
		},
		{
			name:       "stig majority",
			names:      []string{"p_000100", "p_000200", "p_rule_1_1_1"},
			prefix:     "p",
			wantFamily: model.FamilySTIG,
		},
		{
			name:       "tie defaults to cis with note",
			names:      []string{"p_rule_1_1_1", "p_000100"},
			prefix:     "p",
			wantFamily: model.FamilyCIS,
			wantNote:   true,
		},
		{
			name:       "nothing matches defaults to cis with note",
			names:      []string{"p_service_name"},
			prefix:     "p",
			wantFamily: model.FamilyCIS,
			wantNote:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote := DetectFamily(tt.names, tt.prefix)
			if vote.Family != tt.wantFamily {
				t.Fatalf("want family %v, got %v (cis %d, stig %d)", tt.wantFamily, vote.Family, vote.CIS, vote.STIG)
			}
			if tt.wantNote && vote.Note == "" {
				t.Fatalf("expected a tie note")
			}
			if !tt.wantNote && vote.Note != "" {
				t.Fatalf("unexpected note %q", vote.Note)
			}
		})
	}
}

func TestExpectedAuditKey(t *testing.T) {
	tests := []struct {
		name         string
		family       model.Family
		ruleIDPrefix string
		prefix       string
		toggle       string
		want         string
	}{
		{"stig toggle", model.FamilySTIG, "AZLX-23", "az2023stig", "az2023stig_000100", "AZLX-23-000100"},
		{"stig without id prefix", model.FamilySTIG, "", "az2023stig", "az2023stig_000100", ""},
		{"cis identity", model.FamilyCIS, "", "rhel9cis", "rhel9cis_rule_1_1_1", "rhel9cis_rule_1_1_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedAuditKey(tt.family, tt.ruleIDPrefix, tt.prefix, tt.toggle)
			if got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToggleForKey(t *testing.T) {
	if got := ToggleForKey(model.FamilySTIG, "az2023stig", "AZLX-23-000100"); got != "az2023stig_000100" {
		t.Fatalf("want az2023stig_000100, got %q", got)
	}
	if got := ToggleForKey(model.FamilyCIS, "rhel9cis", "rhel9cis_rule_1_1_1"); got != "rhel9cis_rule_1_1_1" {
		t.Fatalf("cis key must be identity, got %q", got)
	}
}

func TestCategoryFromDir(t *testing.T) {
	tests := []struct {
		family model.Family
		dir    string
		want   int
		ok     bool
	}{
		{model.FamilySTIG, "cat_1", 1, true},
		{model.FamilySTIG, "cat_3", 3, true},
		{model.FamilySTIG, "section_1", 0, false},
		{model.FamilySTIG, "cat_x", 0, false},
		{model.FamilyCIS, "section_5", 5, true},
		{model.FamilyCIS, "cat_1", 0, false},
	}
	for _, tt := range tests {
		got, ok := CategoryFromDir(tt.family, tt.dir)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("CategoryFromDir(%v, %q) = %d, %v; want %d, %v", tt.family, tt.dir, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConditionalPattern(t *testing.T) {
	pat := ConditionalPattern(model.FamilySTIG, "az2023stig")
	tests := []struct {
		line string
		want string
	}{
		{"{{ if .Vars.az2023stig_000100 }}", "az2023stig_000100"},
		{"{{- if .Vars.az2023stig_000200 -}}", "az2023stig_000200"},
		{"{{ if .Vars.other_000100 }}", ""},
		{"{{ range .Vars.az2023stig_000100 }}", ""},
	}
	for _, tt := range tests {
		m := pat.FindStringSubmatch(tt.line)
		got := ""
		if m != nil {
			got = m[1]
		}
		if got != tt.want {
			t.Fatalf("line %q: want %q, got %q", tt.line, tt.want, got)
		}
	}
}

func TestParseFamily(t *testing.T) {
	if _, set, err := ParseFamily("auto"); err != nil || set {
		t.Fatalf("auto must mean unset, got set=%v err=%v", set, err)
	}
	f, set, err := ParseFamily("STIG")
	if err != nil || !set || f != model.FamilySTIG {
		t.Fatalf("want stig set, got %v set=%v err=%v", f, set, err)
	}
	if _, _, err := ParseFamily("nist"); err == nil || !strings.Contains(err.Error(), "nist") {
		t.Fatalf("want error naming the bad value, got %v", err)
	}
}
