// Package waiver loads and applies finding waivers. A waiver does not make
// a finding disappear: it demotes it to informational with the recorded
// reason attached, and the check's status is recomputed from what remains.
// Reports keep showing the waived finding so the debt stays visible.
package waiver

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/goss"
)

// Waiver matches findings by check key, file glob, and description
// substring. Empty criteria match anything, but at least one must be set.
type Waiver struct {
	Check    string `yaml:"check"`
	File     string `yaml:"file"`
	Contains string `yaml:"contains"`
	Reason   string `yaml:"reason"`
	// Expires is a YYYY-MM-DD date after which the waiver stops matching.
	// Empty means no expiry.
	Expires string `yaml:"expires"`
}

type waiverFile struct {
	Waivers []Waiver `yaml:"waivers"`
}

// Set is a loaded waiver collection.
type Set struct {
	waivers []Waiver
	expiry  []time.Time
	now     time.Time
}

// Load reads a waiver file. Every entry must carry a reason and at least
// one matching criterion; a criterion-free waiver would silence the whole
// run.
func Load(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading waiver file: %w", err)
	}
	var f waiverFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing waiver file %s: %w", path, err)
	}

	s := &Set{now: time.Now()}
	for i, w := range f.Waivers {
		if strings.TrimSpace(w.Reason) == "" {
			return nil, fmt.Errorf("waiver %d in %s has no reason", i+1, path)
		}
		if w.Check == "" && w.File == "" && w.Contains == "" {
			return nil, fmt.Errorf("waiver %d in %s matches every finding; set check, file, or contains", i+1, path)
		}
		if w.Check != "" {
			if err := checks.ValidateKeys([]string{w.Check}); err != nil {
				return nil, fmt.Errorf("waiver %d in %s: %w", i+1, path, err)
			}
		}
		var exp time.Time
		if w.Expires != "" {
			exp, err = time.Parse("2006-01-02", w.Expires)
			if err != nil {
				return nil, fmt.Errorf("waiver %d in %s: bad expires date %q (want YYYY-MM-DD)", i+1, path, w.Expires)
			}
		}
		s.waivers = append(s.waivers, w)
		s.expiry = append(s.expiry, exp)
	}
	return s, nil
}

// Len reports the number of loaded waivers.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.waivers)
}

// match returns the first live waiver covering a finding of the given
// check.
func (s *Set) match(checkKey string, f checks.Finding) (Waiver, bool) {
	for i, w := range s.waivers {
		if !s.expiry[i].IsZero() && s.now.After(s.expiry[i].Add(24*time.Hour)) {
			continue
		}
		if w.Check != "" && w.Check != checkKey {
			continue
		}
		if w.File != "" && !goss.MatchGlob(w.File, f.File) {
			continue
		}
		if w.Contains != "" && !strings.Contains(f.Description, w.Contains) {
			continue
		}
		return w, true
	}
	return Waiver{}, false
}

// Apply rewrites results under the waiver set: matched findings are
// demoted to info with the reason appended, and each status is derived
// again from the findings that were not waived. SKIP results pass through.
func (s *Set) Apply(results []checks.CheckResult) []checks.CheckResult {
	if s.Len() == 0 {
		return results
	}
	out := make([]checks.CheckResult, len(results))
	for i, res := range results {
		out[i] = s.applyOne(res)
	}
	return out
}

func (s *Set) applyOne(res checks.CheckResult) checks.CheckResult {
	if res.Status == checks.StatusSkip {
		return res
	}
	var kept []checks.Finding
	waived := 0
	findings := make([]checks.Finding, len(res.Findings))
	for i, f := range res.Findings {
		if w, ok := s.match(res.Key, f); ok {
			f.Severity = checks.SeverityInfo
			f.Description = fmt.Sprintf("%s (waived: %s)", f.Description, w.Reason)
			waived++
		} else {
			kept = append(kept, f)
		}
		findings[i] = f
	}
	if waived == 0 {
		return res
	}

	res.Findings = findings
	res.Summary = fmt.Sprintf("%d issue(s), %d waived", len(kept), waived)
	if c, ok := checks.Lookup(res.Key); ok {
		res.Status = c.Policy().Status(kept)
	}
	return res
}
