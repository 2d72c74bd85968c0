package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// the config loader. Keeping these as constants helps avoid drift between
// Cobra flag wiring and the config-file merge, which has to ask whether a
// flag was explicitly set before letting file or environment values through.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Benchmark.Prefix, flags.FlagPrefix, "", "...")
//	changed := cmd.Flags().Changed(flags.FlagPrefix)
const (
	// Benchmark
	FlagType         = "type"
	FlagPrefix       = "prefix"
	FlagRuleIDPrefix = "rule-id-prefix"
	FlagAudit        = "audit"

	// Checks
	FlagOnly    = "only"
	FlagSkip    = "skip"
	FlagStrict  = "strict"
	FlagWaivers = "waivers"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagReportFormat        = "report-format"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagRuntimeVar  = "runtime-var"
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
	FlagQuiet       = "quiet"
)
