package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// extractDefaults reads defaults/main.yml: toggle declarations with their
// values, scalar config variables, and the benchmark version line.
func (e *Extractor) extractDefaults(r *run, opts Options) {
	lines, err := e.loader.Lines(filepath.Join(opts.RemediationRoot, defaultsFile))
	if err != nil {
		r.gap(model.SourceDefaults, defaultsFile, readReason(err))
		return
	}
	for i, line := range lines {
		ln := i + 1
		if m := r.pats.toggle.FindStringSubmatch(line); m != nil {
			name := m[1]
			raw := cleanScalar(line[len(m[0]):])
			r.m.DefaultToggles[name] = model.Toggle{
				Name: name, Raw: raw, Bool: parseBool(raw),
				File: defaultsFile, Line: ln,
			}
			continue
		}
		if m := benchVersionLine.FindStringSubmatch(line); m != nil {
			if r.defaultsVersion == nil {
				r.defaultsVersion = &model.VersionString{
					Source: model.SourceDefaults, Raw: strings.TrimSpace(m[1]),
					File: defaultsFile, Line: ln,
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
			r.m.DefaultConfig[m[1]] = model.ConfigVariable{
				Name: m[1], Value: val, File: defaultsFile, Line: ln,
			}
		}
	}
	e.log.Debug("defaults extracted",
		zap.Int("toggles", len(r.m.DefaultToggles)),
		zap.Int("config_vars", len(r.m.DefaultConfig)))
}

// extractTemplate reads the generated-vars template. Toggle declarations
// feed the sync checks; every top-level entry is kept with a flag telling
// whether its value is hardcoded rather than interpolated.
func (e *Extractor) extractTemplate(r *run, opts Options) {
	lines, err := e.loader.Lines(filepath.Join(opts.RemediationRoot, templateFile))
	if err != nil {
		r.gap(model.SourceTemplate, templateFile, readReason(err))
		return
	}
	for i, line := range lines {
		ln := i + 1
		if m := r.pats.toggle.FindStringSubmatch(line); m != nil {
			name := m[1]
			if _, ok := r.m.TemplateToggles[name]; !ok {
				r.m.TemplateToggles[name] = model.Toggle{Name: name, File: templateFile, Line: ln}
			}
		}
		m := topLevelDecl.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		raw := strings.TrimSpace(line[len(m[0]):])
		if _, ok := r.m.TemplateVars[name]; ok {
			continue
		}
		r.m.TemplateVars[name] = model.TemplateVariable{
			Name: name, Raw: cleanScalar(raw),
			Hardcoded: raw != "" && !strings.Contains(raw, "{{"),
			File:      templateFile, Line: ln,
		}
	}
	e.log.Debug("template extracted",
		zap.Int("toggles", len(r.m.TemplateToggles)),
		zap.Int("vars", len(r.m.TemplateVars)))
}

// extractTasks walks the per-category task directories. The walk is not
// recursive: task files sit directly under tasks/cat_N or tasks/section_N,
// and main.yml is orchestration rather than rule content.
func (e *Extractor) extractTasks(r *run, opts Options) {
	root := filepath.Join(opts.RemediationRoot, tasksDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		r.gap(model.SourceTasks, tasksDir, readReason(err))
		return
	}
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
		files, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, ".yml") || name == "main.yml" {
				continue
			}
			rel := filepath.ToSlash(filepath.Join(tasksDir, entry.Name(), name))
			lines, err := e.loader.Lines(filepath.Join(root, entry.Name(), name))
			if err != nil {
				continue
			}
			if opts.Family == model.FamilySTIG {
				r.scanTaskFileSTIG(rel, lines, cat)
			} else {
				r.scanTaskFileCIS(rel, lines, cat)
			}
		}
	}
	if found == 0 {
		r.gap(model.SourceTasks, tasksDir,
			fmt.Sprintf("no %s* task directories", benchmark.CategoryDirPrefix(opts.Family)))
		return
	}
	e.log.Debug("tasks extracted",
		zap.Int("rules", len(r.m.Tasks)),
		zap.Int("category_dirs", found))
}

// scanTaskFileCIS keys rules by the toggles their tasks reference. Any
// toggle mention counts; the common shapes are "when: <toggle>" and the
// list form "- <toggle>".
func (r *run) scanTaskFileCIS(rel string, lines []string, cat int) {
	current := ""
	for i, line := range lines {
		if m := r.pats.toggleRef.FindStringSubmatch(line); m != nil {
			current = m[1]
			r.recordTask(current, cat, rel, i+1)
			continue
		}
		if m := ruleIDTag.FindStringSubmatch(line); m != nil && current != "" {
			r.setTaskRuleID(current, m[1])
		}
	}
}

// scanTaskFileSTIG keys rules by the STIG identifier in task names. Task
// names also carry the severity label, and the lines that follow a name
// hold the rule's toggle conditional and SV tag until the next name
// starts a new rule.
func (r *run) scanTaskFileSTIG(rel string, lines []string, cat int) {
	current := ""
	for i, line := range lines {
		ln := i + 1
		if nameLine.MatchString(line) {
			current = ""
			if r.pats.ruleKey != nil {
				if m := r.pats.ruleKey.FindStringSubmatch(line); m != nil {
					current = strings.ToUpper(m[1])
					r.recordTask(current, cat, rel, ln)
				}
			}
			if m := severityTag.FindStringSubmatch(line); m != nil {
				r.m.SeverityLabels = append(r.m.SeverityLabels, model.SeverityLabel{
					Label: strings.ToUpper(m[1]), Category: cat, File: rel, Line: ln,
				})
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := r.pats.toggleRef.FindStringSubmatch(line); m != nil {
			r.m.WhenRefs = append(r.m.WhenRefs, model.WhenRef{
				RuleKey: current, Toggle: m[1], File: rel, Line: ln,
			})
			continue
		}
		if m := ruleIDTag.FindStringSubmatch(line); m != nil {
			r.setTaskRuleID(current, m[1])
		}
	}
}
