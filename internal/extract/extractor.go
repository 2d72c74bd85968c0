// Package extract walks the fixed file layout of a remediation/audit
// repository pair and produces the normalized record set every check runs
// against. Extraction is line-oriented pattern matching on purpose: the
// benchmark files are only loosely YAML, and a structural parser would die
// on the template syntax embedded in them. Every record keeps its
// originating file and line so findings can point somewhere useful.
//
// A missing expected file never aborts extraction: it is recorded as a gap
// on the model and the checks that need that source degrade to SKIP.
package extract

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/frederickw082922/crosscheck/internal/goss"
	"github.com/frederickw082922/crosscheck/internal/model"
)

// Expected layout, relative to the repository roots.
const (
	defaultsFile    = "defaults/main.yml"
	templateFile    = "templates/ansible_vars_goss.yml.j2"
	tasksDir        = "tasks"
	gossIndexFile   = "goss.yml"
	auditScriptFile = "run_audit.sh"
)

// varsCandidates are tried in order before falling back to the first
// vars/*.yml in sorted order.
var varsCandidates = []string{"vars/STIG.yml", "vars/CIS.yml", "vars/stig.yml", "vars/cis.yml"}

// Options carries the detector's decisions into extraction.
type Options struct {
	Family          model.Family
	Prefix          string
	RuleIDPrefix    string
	RemediationRoot string
	AuditRoot       string
	// ExtraRuntimeVars extends the audit runner's injected-variable set.
	ExtraRuntimeVars []string
}

// Extractor builds models from repository pairs.
type Extractor struct {
	loader *Loader
	log    *zap.Logger
}

func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{loader: NewLoader(), log: log}
}

// Lines reads a file through the extractor's cache, so callers that inspect
// a file before extraction (dialect detection) do not read it twice.
func (e *Extractor) Lines(path string) ([]string, error) {
	return e.loader.Lines(path)
}

// run is the shared state of one extraction. Stages write disjoint model
// fields; only the gap map needs a lock.
type run struct {
	m    *model.Model
	pats *patterns
	mu   sync.Mutex

	defaultsVersion *model.VersionString
	varsVersion     *model.VersionString
	scriptVersion   *model.VersionString
}

func (r *run) gap(src model.Source, path, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Gaps[src] = model.Gap{Source: src, Path: path, Reason: reason}
}

// Extract reads both repositories and returns the complete model. It does
// not fail: unreadable sources become gaps and partial data stays usable.
func (e *Extractor) Extract(opts Options) *model.Model {
	m := model.New()
	m.Family = opts.Family
	m.Prefix = opts.Prefix
	m.RuleIDPrefix = opts.RuleIDPrefix
	m.RemediationRoot = opts.RemediationRoot
	m.AuditRoot = opts.AuditRoot
	for _, name := range goss.DefaultRuntimeVars() {
		m.RuntimeExcluded[name] = true
	}
	for _, name := range opts.ExtraRuntimeVars {
		if name = strings.TrimSpace(name); name != "" {
			m.RuntimeExcluded[name] = true
		}
	}

	r := &run{m: m, pats: newPatterns(opts.Family, opts.Prefix, opts.RuleIDPrefix)}
	varsRel := e.findVarsFile(opts.AuditRoot)

	g := new(errgroup.Group)
	g.Go(func() error { e.extractDefaults(r, opts); return nil })
	g.Go(func() error { e.extractTemplate(r, opts); return nil })
	g.Go(func() error { e.extractTasks(r, opts); return nil })
	g.Go(func() error { e.extractAuditVars(r, opts, varsRel); return nil })
	g.Go(func() error { e.extractAuditTests(r, opts); return nil })
	g.Go(func() error { e.extractGossIndex(r, opts); return nil })
	g.Go(func() error { e.extractAuditScript(r, opts); return nil })
	_ = g.Wait()

	// Deterministic assembly: fixed version order, sorted reference lists.
	for _, v := range []*model.VersionString{r.defaultsVersion, r.varsVersion, r.scriptVersion} {
		if v != nil {
			m.Versions = append(m.Versions, *v)
		}
	}
	for name := range m.VarRefs {
		sort.Strings(m.VarRefs[name])
	}
	sort.Strings(m.AuditTestFiles)

	e.log.Debug("extraction complete",
		zap.Int("default_toggles", len(m.DefaultToggles)),
		zap.Int("audit_files", len(m.AuditFiles)),
		zap.Int("tasks", len(m.Tasks)),
		zap.Int("gaps", len(m.Gaps)),
	)
	return m
}

// findVarsFile resolves the audit vars file relative path, "" when none
// exists.
func (e *Extractor) findVarsFile(auditRoot string) string {
	for _, cand := range varsCandidates {
		if fileExists(filepath.Join(auditRoot, cand)) {
			return cand
		}
	}
	entries, err := os.ReadDir(filepath.Join(auditRoot, "vars"))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yml") {
			return filepath.ToSlash(filepath.Join("vars", entry.Name()))
		}
	}
	return ""
}

// GitBranch reads the checked-out branch name from a repository's
// .git/HEAD without invoking git. Returns "" for detached heads and
// non-git directories.
func GitBranch(root string) string {
	raw, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	head := strings.TrimSpace(string(raw))
	if ref, ok := strings.CutPrefix(head, "ref: refs/heads/"); ok {
		return ref
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readReason renders a read failure as a gap reason.
func readReason(err error) string {
	if os.IsNotExist(err) {
		return "file not found"
	}
	return err.Error()
}

// recordTask keeps the first sighting of a rule key.
func (r *run) recordTask(key string, category int, file string, line int) {
	if _, ok := r.m.Tasks[key]; ok {
		return
	}
	r.m.Tasks[key] = model.TaskRecord{Key: key, Category: category, File: file, Line: line}
}

func (r *run) setTaskRuleID(key, ruleID string) {
	rec, ok := r.m.Tasks[key]
	if !ok || rec.RuleID != "" {
		return
	}
	rec.RuleID = ruleID
	r.m.Tasks[key] = rec
}

// cleanScalar strips an inline comment, surrounding whitespace, and
// matching quotes from a declared value.
func cleanScalar(s string) string {
	if i := strings.Index(s, " #"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, `'`} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseBool reads a plain true/false literal, nil for anything else.
func parseBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// scalarExcluded reports values excluded from config comparison: block
// scalars and inline lists diff on formatting, not meaning.
func scalarExcluded(val string) bool {
	return val == "" || strings.HasPrefix(val, "|") || strings.HasPrefix(val, ">") || strings.HasPrefix(val, "[")
}
