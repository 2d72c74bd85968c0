package engine

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// runChecks executes the selected checks against the model, at most
// concurrency at a time. Results land in catalogue order regardless of
// completion order: each goroutine writes its own slot.
func (e *Engine) runChecks(m *model.Model, selected []checks.Check, concurrency int) []checks.CheckResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]checks.CheckResult, len(selected))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, c := range selected {
		i, c := i, c
		g.Go(func() error {
			results[i] = e.runOne(m, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runOne produces the result for a single check. A check never aborts the
// run: inapplicable families, missing sources, self-skips, evaluation
// errors, and panics all degrade to SKIP with the reason as a finding.
func (e *Engine) runOne(m *model.Model, c checks.Check) (res checks.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("check panicked", zap.String("check", c.Key()), zap.Any("panic", r))
			res = checks.SkipResult(c, fmt.Sprintf("internal fault: %v", r))
		}
	}()

	if !c.AppliesTo(m.Family) {
		return checks.SkipResult(c, fmt.Sprintf("not applicable to the %s family", m.Family))
	}
	for _, src := range c.Requires() {
		if gap, ok := m.GapFor(src); ok {
			return checks.SkipResult(c, fmt.Sprintf("%s unavailable: %s (%s)", src, gap.Reason, gap.Path))
		}
	}

	findings, err := c.Evaluate(m)
	if err != nil {
		if reason, ok := checks.SkipReason(err); ok {
			return checks.SkipResult(c, reason)
		}
		e.log.Error("check failed", zap.String("check", c.Key()), zap.Error(err))
		return checks.SkipResult(c, fmt.Sprintf("internal error: %v", err))
	}
	return checks.NewResult(c, findings)
}

// selectChecks applies the only/skip selectors to the catalogue. A
// non-empty only list wins and makes skip inert; unknown keys in either
// list are an error rather than a silent no-op.
func selectChecks(all []checks.Check, only, skip []string) ([]checks.Check, error) {
	if err := checks.ValidateKeys(only); err != nil {
		return nil, fmt.Errorf("--only: %w", err)
	}
	if err := checks.ValidateKeys(skip); err != nil {
		return nil, fmt.Errorf("--skip: %w", err)
	}

	if len(only) > 0 {
		keep := make(map[string]bool, len(only))
		for _, k := range only {
			keep[k] = true
		}
		var out []checks.Check
		for _, c := range all {
			if keep[c.Key()] {
				out = append(out, c)
			}
		}
		return out, nil
	}

	if len(skip) == 0 {
		return all, nil
	}
	drop := make(map[string]bool, len(skip))
	for _, k := range skip {
		drop[k] = true
	}
	var out []checks.Check
	for _, c := range all {
		if !drop[c.Key()] {
			out = append(out, c)
		}
	}
	return out, nil
}
