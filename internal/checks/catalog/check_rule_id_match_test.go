package catalog

import (
	"testing"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

func TestRuleIDMatchCheck_Evaluate(t *testing.T) {
	check := &RuleIDMatchCheck{}

	pair := func(taskID, auditID string) *model.Model {
		m := newSTIG()
		m.Tasks["RHEL-09-211010"] = model.TaskRecord{
			Key: "RHEL-09-211010", RuleID: taskID, File: "tasks/cat_1/RHEL-09-211010.yml", Line: 2,
		}
		m.AuditFiles["RHEL-09-211010"] = model.AuditRecord{
			Key: "RHEL-09-211010", RuleID: auditID, File: "cat_1/RHEL-09-211010.yml",
		}
		return m
	}

	tests := []struct {
		name    string
		taskID  string
		auditID string
		want    checks.Status
	}{
		{"both equal", "SV-257777r925318_rule", "SV-257777r925318_rule", checks.StatusPass},
		{"both empty", "", "", checks.StatusPass},
		{"conflict", "SV-257777r925318_rule", "SV-257777r999999_rule", checks.StatusFail},
		{"audit only", "", "SV-257777r925318_rule", checks.StatusWarn},
		{"remediation only", "SV-257777r925318_rule", "", checks.StatusWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantStatus(t, evaluate(t, check, pair(tt.taskID, tt.auditID)), tt.want)
		})
	}

	t.Run("keys on one side only are ignored", func(t *testing.T) {
		m := newSTIG()
		m.Tasks["RHEL-09-211010"] = model.TaskRecord{Key: "RHEL-09-211010", RuleID: "SV-1r1_rule"}
		m.AuditFiles["RHEL-09-999999"] = model.AuditRecord{Key: "RHEL-09-999999", RuleID: "SV-2r2_rule"}
		wantStatus(t, evaluate(t, check, m), checks.StatusPass)
	})
}
