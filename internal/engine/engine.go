package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/frederickw082922/crosscheck/internal/benchmark"
	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/config"
	"github.com/frederickw082922/crosscheck/internal/extract"
	"github.com/frederickw082922/crosscheck/internal/model"
	"github.com/frederickw082922/crosscheck/internal/output"
	"github.com/frederickw082922/crosscheck/internal/waiver"
)

// ExitCode maps completed results to a process exit code.
//
// Exit code semantics:
//   - 0: clean run; WARN results do not fail it without strict mode
//   - 1: WARN results present and strict mode on
//   - 2: at least one FAIL
//   - 3: fatal error, the run did not complete (mapped by Run)
func ExitCode(results []checks.CheckResult, strict bool) int {
	var fail, warn bool
	for _, r := range results {
		switch r.Status {
		case checks.StatusFail:
			fail = true
		case checks.StatusWarn:
			warn = true
		}
	}
	switch {
	case fail:
		return 2
	case warn && strict:
		return 1
	default:
		return 0
	}
}

// Outcome is one completed validation before rendering: the run metadata,
// the detector's notes, and every check result in catalogue order.
type Outcome struct {
	Info        model.RunInfo
	Diagnostics []checks.Finding
	Results     []checks.CheckResult
}

type Engine struct {
	log     *zap.Logger
	version string
}

// New builds an engine. The version string is stamped into run metadata;
// the CLI passes its build version.
func New(log *zap.Logger, version string) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, version: version}
}

// Run executes a full validation and fans it out to the configured sinks.
// The returned value is the process exit code.
func (e *Engine) Run(cfg *config.Config) int {
	outcome, err := e.Validate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	mgr, err := setupSinks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	code := ExitCode(outcome.Results, cfg.Checks.Strict)

	if err := mgr.Write(output.RunHeader{Info: outcome.Info, Diagnostics: outcome.Diagnostics}); err != nil {
		e.log.Warn("write run header", zap.Error(err))
	}
	for _, res := range outcome.Results {
		if err := mgr.Write(res); err != nil {
			e.log.Warn("write result", zap.String("check", res.Key), zap.Error(err))
		}
	}
	if err := mgr.Write(output.RunFooter{Totals: output.TotalsOf(outcome.Results), ExitCode: code}); err != nil {
		e.log.Warn("write run footer", zap.Error(err))
	}
	if err := mgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == 0 {
			code = 3
		}
	}
	return code
}

// Validate resolves the repository pair, detects the benchmark dialect,
// extracts the record model, and executes the selected checks. It returns
// an error only for faults that prevent the run entirely; anything softer
// degrades to SKIP results or diagnostic notes.
func (e *Engine) Validate(cfg *config.Config) (*Outcome, error) {
	started := time.Now()

	remPath, err := filepath.Abs(cfg.Benchmark.RemediationPath)
	if err != nil {
		return nil, fmt.Errorf("resolve remediation path: %w", err)
	}
	if !isDir(remPath) {
		return nil, fmt.Errorf("remediation repository %s is not a directory", cfg.Benchmark.RemediationPath)
	}

	var diags []checks.Finding

	auditPath := cfg.Benchmark.AuditPath
	if auditPath != "" {
		auditPath, err = filepath.Abs(auditPath)
		if err != nil {
			return nil, fmt.Errorf("resolve audit path: %w", err)
		}
		if !isDir(auditPath) {
			return nil, fmt.Errorf("audit repository %s is not a directory", cfg.Benchmark.AuditPath)
		}
	} else {
		loc, err := benchmark.LocateAuditRepo(remPath)
		if err != nil {
			return nil, err
		}
		auditPath = loc.Path
		if loc.Note != "" {
			diags = append(diags, checks.Infof("", 0, "%s", loc.Note))
		}
	}

	ex := extract.New(e.log)

	d, detDiags, err := e.resolveDialect(cfg, ex, remPath, auditPath)
	if err != nil {
		return nil, err
	}
	diags = append(diags, detDiags...)

	e.log.Info("validating repository pair",
		zap.String("remediation", remPath),
		zap.String("audit", auditPath),
		zap.String("family", string(d.family)),
		zap.String("prefix", d.prefix),
	)

	m := ex.Extract(extract.Options{
		Family:           d.family,
		Prefix:           d.prefix,
		RuleIDPrefix:     d.ruleIDPrefix,
		RemediationRoot:  remPath,
		AuditRoot:        auditPath,
		ExtraRuntimeVars: cfg.Runtime.RuntimeVars,
	})

	selected, err := selectChecks(checks.List(), cfg.Checks.Only, cfg.Checks.Skip)
	if err != nil {
		return nil, err
	}

	results := e.runChecks(m, selected, cfg.Runtime.Concurrency)

	if cfg.Checks.Waivers != "" {
		ws, err := waiver.Load(cfg.Checks.Waivers)
		if err != nil {
			return nil, fmt.Errorf("load waivers: %w", err)
		}
		results = ws.Apply(results)
		e.log.Debug("waivers applied", zap.Int("count", ws.Len()))
	}

	info := model.RunInfo{
		RemediationRepo:   filepath.Base(remPath),
		AuditRepo:         filepath.Base(auditPath),
		RemediationPath:   remPath,
		AuditPath:         auditPath,
		Family:            d.family,
		Prefix:            d.prefix,
		RuleIDPrefix:      d.ruleIDPrefix,
		RemediationBranch: extract.GitBranch(remPath),
		AuditBranch:       extract.GitBranch(auditPath),
		ToolVersion:       e.version,
		GeneratedAt:       time.Now().UTC(),
	}
	if len(m.Versions) > 0 {
		info.Version = m.Versions[0].Raw
	}

	e.log.Info("run complete",
		zap.Int("checks", len(results)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &Outcome{Info: info, Diagnostics: diags, Results: results}, nil
}

// dialect is the resolved benchmark identity of a run.
type dialect struct {
	family       model.Family
	prefix       string
	ruleIDPrefix string
}

// resolveDialect produces the family, variable prefix, and STIG rule-key
// prefix, honoring explicit configuration over detection. Detection reads
// the remediation defaults file; when that is unreadable and the dialect is
// not fully configured, the run cannot proceed.
func (e *Engine) resolveDialect(cfg *config.Config, ex *extract.Extractor, remPath, auditPath string) (dialect, []checks.Finding, error) {
	var diags []checks.Finding

	forcedFamily, haveFamily, err := benchmark.ParseFamily(cfg.Benchmark.Type)
	if err != nil {
		return dialect{}, nil, err
	}

	d := dialect{family: forcedFamily, prefix: cfg.Benchmark.Prefix}

	if d.prefix == "" || !haveFamily {
		defaultsPath := filepath.Join(remPath, "defaults", "main.yml")
		lines, err := ex.Lines(defaultsPath)
		if err != nil {
			return dialect{}, nil, fmt.Errorf("cannot detect the benchmark dialect: read %s: %w (pass --prefix and --type to skip detection)", defaultsPath, err)
		}
		names := benchmark.TopLevelNames(lines)

		if d.prefix == "" {
			vote, err := benchmark.DetectPrefix(names)
			if err != nil {
				return dialect{}, nil, err
			}
			d.prefix = vote.Prefix
			if vote.Note != "" {
				diags = append(diags, checks.Infof("", 0, "%s", vote.Note))
			}
			e.log.Debug("prefix detected", zap.String("prefix", vote.Prefix), zap.Int("votes", vote.Votes))
		}

		if !haveFamily {
			vote := benchmark.DetectFamily(names, d.prefix)
			d.family = vote.Family
			if vote.Note != "" {
				diags = append(diags, checks.Infof("", 0, "%s", vote.Note))
			}
			e.log.Debug("family detected",
				zap.String("family", string(vote.Family)),
				zap.Int("cis", vote.CIS),
				zap.Int("stig", vote.STIG),
			)
		}
	}

	if d.family == model.FamilySTIG {
		d.ruleIDPrefix = cfg.Benchmark.RuleIDPrefix
		if d.ruleIDPrefix == "" {
			d.ruleIDPrefix = benchmark.DetectRuleIDPrefix(auditPath, d.family)
		}
		if d.ruleIDPrefix == "" {
			diags = append(diags, checks.Infof("", 0,
				"no rule-key prefix found in the audit repository; rule-key checks will degrade (pass --rule-id-prefix to set one)"))
		}
	}

	return d, diags, nil
}

func setupSinks(cfg *config.Config) (*output.Manager, error) {
	mgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := mgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			mgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			mgr.Close()
			return nil, err
		}
		if err := mgr.AddSink(fs); err != nil {
			mgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report, cfg.Output.ReportFormat)
		if err != nil {
			mgr.Close()
			return nil, err
		}
		if err := mgr.AddSink(rs); err != nil {
			mgr.Close()
			return nil, err
		}
	}

	return mgr, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
