package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/goss"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// extractAuditVars reads the audit vars file: toggle declarations, config
// variables, the full set of declared names, and the version line.
func (e *Extractor) extractAuditVars(r *run, opts Options, varsRel string) {
	if varsRel == "" {
		r.gap(model.SourceAuditVars, "vars", "no vars/*.yml file")
		return
	}
	lines, err := e.loader.Lines(filepath.Join(opts.AuditRoot, varsRel))
	if err != nil {
		r.gap(model.SourceAuditVars, varsRel, readReason(err))
		return
	}
	for i, line := range lines {
		ln := i + 1
		if m := topLevelDecl.FindStringSubmatch(line); m != nil {
			if _, ok := r.m.AuditDeclared[m[1]]; !ok {
				r.m.AuditDeclared[m[1]] = ln
			}
		}
		if m := r.pats.toggle.FindStringSubmatch(line); m != nil {
			name := m[1]
			raw := cleanScalar(line[len(m[0]):])
			r.m.AuditVarsToggles[name] = model.Toggle{
				Name: name, Raw: raw, Bool: parseBool(raw),
				File: varsRel, Line: ln,
			}
			continue
		}
		if m := benchVersionLine.FindStringSubmatch(line); m != nil {
			if r.varsVersion == nil {
				r.varsVersion = &model.VersionString{
					Source: model.SourceAuditVars, Raw: strings.TrimSpace(m[1]),
					File: varsRel, Line: ln,
				}
			}
			continue
		}
		if m := r.pats.configVar.FindStringSubmatch(line); m != nil {
			if scalarExcluded(strings.TrimSpace(m[2])) {
				continue
			}
			val := cleanScalar(m[2])
			if val == "" {
				continue
			}
			r.m.AuditConfig[m[1]] = model.ConfigVariable{
				Name: m[1], Value: val, File: varsRel, Line: ln,
			}
		}
	}
	e.log.Debug("audit vars extracted",
		zap.Int("toggles", len(r.m.AuditVarsToggles)),
		zap.Int("declared", len(r.m.AuditDeclared)))
}

// extractAuditTests walks the per-category test trees. Unlike the
// remediation side this walk is recursive: audit repos nest tests in
// subdirectories, and every nested file belongs to its top-level
// category. goss.yml and main.yml are plumbing, not tests.
func (e *Extractor) extractAuditTests(r *run, opts Options) {
	entries, err := os.ReadDir(opts.AuditRoot)
	if err != nil {
		r.gap(model.SourceAuditTests, ".", readReason(err))
		return
	}
	refs := make(map[string]map[string]bool)
	found := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cat, ok := benchmark.CategoryFromDir(opts.Family, entry.Name())
		if !ok {
			continue
		}
		found++
		dir := filepath.Join(opts.AuditRoot, entry.Name())
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			name := d.Name()
			if !strings.HasSuffix(name, ".yml") || name == "goss.yml" || name == "main.yml" {
				return nil
			}
			relAbs, err := filepath.Rel(opts.AuditRoot, path)
			if err != nil {
				return nil
			}
			rel := filepath.ToSlash(relAbs)
			lines, err := e.loader.Lines(path)
			if err != nil {
				return nil
			}
			e.scanAuditTestFile(r, rel, name, cat, lines, refs)
			return nil
		})
	}
	if found == 0 {
		r.gap(model.SourceAuditTests, ".",
			fmt.Sprintf("no %s* test directories", benchmark.CategoryDirPrefix(opts.Family)))
		return
	}
	for name, files := range refs {
		for f := range files {
			r.m.VarRefs[name] = append(r.m.VarRefs[name], f)
		}
	}
	e.log.Debug("audit tests extracted",
		zap.Int("files", len(r.m.AuditTestFiles)),
		zap.Int("keys", len(r.m.AuditFiles)))
}

// scanAuditTestFile builds one AuditRecord plus the per-file conditional,
// variable-reference, and block-token indexes.
func (e *Extractor) scanAuditTestFile(r *run, rel, base string, cat int, lines []string, refs map[string]map[string]bool) {
	rec := model.AuditRecord{File: rel, Category: cat}
	for _, line := range lines {
		if m := r.pats.conditional.FindStringSubmatch(line); m != nil {
			if rec.Toggle == "" {
				rec.Toggle = m[1]
			}
			if _, ok := r.m.AuditConditionals[m[1]]; !ok {
				r.m.AuditConditionals[m[1]] = rel
			}
		}
		if rec.StigID == "" {
			if m := stigIDMeta.FindStringSubmatch(line); m != nil {
				rec.StigID = strings.Trim(m[1], `'"`)
			}
		}
		if rec.RuleID == "" {
			if m := ruleIDTag.FindStringSubmatch(line); m != nil {
				rec.RuleID = m[1]
			}
		}
		if rec.MetaCategory == 0 {
			if m := catMeta.FindStringSubmatch(line); m != nil {
				rec.MetaCategory, _ = strconv.Atoi(m[1])
			}
		}
		for _, m := range goss.VarRefPattern.FindAllStringSubmatch(line, -1) {
			if refs[m[1]] == nil {
				refs[m[1]] = make(map[string]bool)
			}
			refs[m[1]][rel] = true
		}
	}
	if tokens := goss.ScanBlocks(lines); len(tokens) > 0 {
		r.m.BlockTokens[rel] = tokens
	}
	rec.Key = auditKey(r.m.Family, base, rec)
	if _, ok := r.m.AuditFiles[rec.Key]; !ok {
		r.m.AuditFiles[rec.Key] = rec
	}
	r.m.AuditTestFiles = append(r.m.AuditTestFiles, rel)
}

// auditKey derives the rule key an audit file answers for. STIG files are
// named by their rule key; when they are not, the embedded STIG_ID wins
// over the bare stem. CIS files answer for the toggle guarding them.
func auditKey(f model.Family, base string, rec model.AuditRecord) string {
	stem := strings.TrimSuffix(base, ".yml")
	if f == model.FamilySTIG {
		if benchmark.IsRuleKeyStem(stem) {
			return stem
		}
		if rec.StigID != "" {
			return rec.StigID
		}
		return stem
	}
	if rec.Toggle != "" {
		return rec.Toggle
	}
	return stem
}

// extractGossIndex reads the inclusion globs from goss.yml. Templated
// lines are skipped: a glob behind a conditional cannot be judged
// statically.
func (e *Extractor) extractGossIndex(r *run, opts Options) {
	lines, err := e.loader.Lines(filepath.Join(opts.AuditRoot, gossIndexFile))
	if err != nil {
		r.gap(model.SourceGossIndex, gossIndexFile, readReason(err))
		return
	}
	for i, line := range lines {
		if strings.Contains(line, "{{") {
			continue
		}
		if m := includeGlobLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			r.m.IncludeGlobs = append(r.m.IncludeGlobs, model.Glob{
				Pattern: m[1], File: gossIndexFile, Line: i + 1,
			})
		}
	}
	e.log.Debug("goss index extracted", zap.Int("globs", len(r.m.IncludeGlobs)))
}

// extractAuditScript pulls BENCHMARK_VER out of the runner script.
func (e *Extractor) extractAuditScript(r *run, opts Options) {
	lines, err := e.loader.Lines(filepath.Join(opts.AuditRoot, auditScriptFile))
	if err != nil {
		r.gap(model.SourceAuditScript, auditScriptFile, readReason(err))
		return
	}
	for i, line := range lines {
		if m := scriptVersionLine.FindStringSubmatch(line); m != nil {
			r.scriptVersion = &model.VersionString{
				Source: model.SourceAuditScript, Raw: strings.Trim(m[1], `'"`),
				File: auditScriptFile, Line: i + 1,
			}
			return
		}
	}
}
