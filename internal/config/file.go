package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/frederickw082922/crosscheck/internal/flags"
)

// DefaultFileName is the base name of the tool config file searched for in
// the working directory when --config is not given (typically written as
// .crosscheck.yml).
const DefaultFileName = ".crosscheck"

const envPrefix = "CROSSCHECK"

// LoadFile merges tool-config-file and CROSSCHECK_* environment values into
// cfg. Precedence: explicitly set CLI flags stay untouched; file and env
// values override built-in defaults. File keys are the flag names, so the
// file reads like a saved command line:
//
//	type: stig
//	prefix: rhel_09
//	strict: true
//	skip:
//	  - audit_vars_completeness
//
// An empty path searches the working directory for the default file and
// tolerates its absence; a named file that cannot be read is an error.
func LoadFile(cfg *Config, fs *pflag.FlagSet, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	merge := func(flag string, apply func()) {
		if fs != nil && fs.Changed(flag) {
			return
		}
		if !v.IsSet(flag) {
			return
		}
		apply()
	}

	merge(flags.FlagType, func() { cfg.Benchmark.Type = v.GetString(flags.FlagType) })
	merge(flags.FlagPrefix, func() { cfg.Benchmark.Prefix = v.GetString(flags.FlagPrefix) })
	merge(flags.FlagRuleIDPrefix, func() { cfg.Benchmark.RuleIDPrefix = v.GetString(flags.FlagRuleIDPrefix) })
	merge(flags.FlagAudit, func() { cfg.Benchmark.AuditPath = v.GetString(flags.FlagAudit) })

	merge(flags.FlagOnly, func() { cfg.Checks.Only = v.GetStringSlice(flags.FlagOnly) })
	merge(flags.FlagSkip, func() { cfg.Checks.Skip = v.GetStringSlice(flags.FlagSkip) })
	merge(flags.FlagStrict, func() { cfg.Checks.Strict = v.GetBool(flags.FlagStrict) })
	merge(flags.FlagWaivers, func() { cfg.Checks.Waivers = v.GetString(flags.FlagWaivers) })

	merge(flags.FlagConsoleFormat, func() { cfg.Output.ConsoleFormat = v.GetString(flags.FlagConsoleFormat) })
	merge(flags.FlagConsoleFilterStatus, func() {
		cfg.Output.ConsoleFilterStatus = v.GetStringSlice(flags.FlagConsoleFilterStatus)
	})
	merge(flags.FlagReport, func() { cfg.Output.Report = v.GetString(flags.FlagReport) })
	merge(flags.FlagReportFormat, func() { cfg.Output.ReportFormat = v.GetString(flags.FlagReportFormat) })
	merge(flags.FlagOut, func() { cfg.Output.Out = v.GetString(flags.FlagOut) })
	merge(flags.FlagOutFormat, func() { cfg.Output.OutFormat = v.GetString(flags.FlagOutFormat) })
	merge(flags.FlagNoConsole, func() { cfg.Output.NoConsole = v.GetBool(flags.FlagNoConsole) })

	merge(flags.FlagConcurrency, func() { cfg.Runtime.Concurrency = v.GetInt(flags.FlagConcurrency) })
	merge(flags.FlagRuntimeVar, func() { cfg.Runtime.RuntimeVars = v.GetStringSlice(flags.FlagRuntimeVar) })
	merge(flags.FlagVerbose, func() { cfg.Runtime.Verbose = v.GetBool(flags.FlagVerbose) })
	merge(flags.FlagQuiet, func() { cfg.Runtime.Quiet = v.GetBool(flags.FlagQuiet) })

	return nil
}
