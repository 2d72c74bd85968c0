package checks

import (
	"testing"

	"github.com/frederickw082922/crosscheck/internal/model"
)

type dummyCheck struct {
	key      string
	policy   Policy
	findings []Finding
	err      error
}

func (c *dummyCheck) Key() string                      { return c.key }
func (c *dummyCheck) Name() string                     { return "Dummy Check" }
func (c *dummyCheck) Description() string              { return "Does nothing" }
func (c *dummyCheck) AppliesTo(model.Family) bool      { return true }
func (c *dummyCheck) Requires() []model.Source         { return nil }
func (c *dummyCheck) Policy() Policy                   { return c.policy }
func (c *dummyCheck) Evaluate(*model.Model) ([]Finding, error) {
	return c.findings, c.err
}

func resetRegistry() {
	mu.Lock()
	registry = make(map[string]Check)
	mu.Unlock()
}

func TestRegistry(t *testing.T) {
	resetRegistry()

	Register(&dummyCheck{key: "b_check"})
	Register(&dummyCheck{key: "a_check"})

	keys := Keys()
	if len(keys) != 2 || keys[0] != "a_check" || keys[1] != "b_check" {
		t.Fatalf("want sorted [a_check b_check], got %v", keys)
	}

	if _, ok := Lookup("a_check"); !ok {
		t.Fatalf("Lookup missed a registered check")
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("Lookup found an unregistered check")
	}

	if err := ValidateKeys([]string{"a_check", "b_check"}); err != nil {
		t.Fatalf("ValidateKeys rejected known keys: %v", err)
	}
	if err := ValidateKeys([]string{"a_check", "typo"}); err == nil {
		t.Fatalf("ValidateKeys accepted an unknown key")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	resetRegistry()
	Register(&dummyCheck{key: "dup"})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	Register(&dummyCheck{key: "dup"})
}
