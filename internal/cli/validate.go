package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frederickw082922/crosscheck/internal/config"
	"github.com/frederickw082922/crosscheck/internal/engine"
	"github.com/frederickw082922/crosscheck/internal/flags"
	"github.com/frederickw082922/crosscheck/internal/logging"
)

var cfg = config.New()

const validateHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	Every flag can also be set through a config file or the environment.
	Precedence: explicit flags, then CROSSCHECK_* environment variables,
	then the config file, then built-in defaults.

	Config file (.crosscheck.yml in the working directory, or --config):
	  type: stig
	  prefix: rhel_09
	  strict: true
	  skip:
	    - version_consistency

	Environment variables use the flag name with dashes as underscores:
	  CROSSCHECK_TYPE=stig
	  CROSSCHECK_RULE_ID_PREFIX=RHEL-09

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var validateCmd = &cobra.Command{
	Use:   "validate [REMEDIATION_PATH]",
	Short: "Validate a remediation/audit repository pair",
	Long: `Validate a remediation repository against its audit companion and report
every cross-repository inconsistency.

The audit repository is located automatically beside the remediation checkout
(the "<name>-Audit" sibling); pass --audit when the pair lives elsewhere.
Benchmark type and variable prefix are detected from defaults/main.yml and can
be forced with --type and --prefix.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --report / --report-format: write a Markdown, HTML, or JSON report
	- --no-console: suppress the console sink (use with --out/--report)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, check.result, run.finished). Check
	results are embedded in the "check.result" events.

Exit codes:
	0 = consistent pair (warnings allowed unless --strict)
	1 = warnings detected and --strict is set
	2 = inconsistencies detected
	3 = fatal error (validation did not complete)

Examples:
  # Validate with automatic detection
  crosscheck validate ./RHEL9-CIS

  # Force the dialect and run only two checks
  crosscheck validate ./RHEL9-STIG --type stig --prefix rhel_09 --only audit_coverage,category_alignment

  # AI Agent: stream machine-readable events to stdout
  crosscheck validate ./RHEL9-CIS --console-format ndjson
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		if len(args) > 0 {
			cfg.Benchmark.RemediationPath = args[0]
		}

		if err := config.LoadFile(cfg, cmd.Flags(), configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		log := logging.New(cfg.Runtime.Verbose, cfg.Runtime.Quiet)
		code := engine.New(log, buildVersion).Run(cfg)
		_ = log.Sync()
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.SetHelpTemplate(validateHelpTemplate)

	// Benchmark
	validateCmd.Flags().StringVar(&cfg.Benchmark.AuditPath, flags.FlagAudit, "", "Path to the audit repository (default: the \"<name>-Audit\" sibling)")
	validateCmd.Flags().StringVar(&cfg.Benchmark.Type, flags.FlagType, cfg.Benchmark.Type, "Benchmark type: cis|stig|auto (default: auto-detect)")
	validateCmd.Flags().StringVar(&cfg.Benchmark.Prefix, flags.FlagPrefix, "", "Benchmark variable prefix, e.g. rhel9cis (default: detected by vote)")
	validateCmd.Flags().StringVar(&cfg.Benchmark.RuleIDPrefix, flags.FlagRuleIDPrefix, "", "STIG rule key prefix, e.g. RHEL-09 (default: detected from audit file names)")

	// Checks
	validateCmd.Flags().StringSliceVar(&cfg.Checks.Only, flags.FlagOnly, nil, "Run only these checks (repeatable; comma-separated accepted)")
	validateCmd.Flags().StringSliceVar(&cfg.Checks.Skip, flags.FlagSkip, nil, "Skip these checks (repeatable; comma-separated accepted)")
	validateCmd.Flags().BoolVar(&cfg.Checks.Strict, flags.FlagStrict, false, "Exit 1 when warnings are found")
	validateCmd.Flags().StringVar(&cfg.Checks.Waivers, flags.FlagWaivers, "", "Waiver file demoting known findings to informational")

	// Output
	validateCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson (default: text)")
	validateCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console results by status (PASS, FAIL, WARN, SKIP). Comma-separated.")
	validateCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a report to this path")
	validateCmd.Flags().StringVar(&cfg.Output.ReportFormat, flags.FlagReportFormat, "", "Report format for --report: markdown|html|json (default: inferred from file extension)")
	validateCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	validateCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	validateCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out/--report)")

	// Runtime
	validateCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent checks (default: 4)")
	validateCmd.Flags().StringSliceVar(&cfg.Runtime.RuntimeVars, flags.FlagRuntimeVar, nil, "Extra runtime-injected variable names audit tests may reference (repeatable; comma-separated accepted)")
}
