package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frederickw082922/crosscheck/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// configPath is the --config override; empty means the loader looks for
// .crosscheck.yml in the working directory.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Validate a hardening repository against its audit companion",
	Long: `Crosscheck validates that a security-hardening remediation repository and its
goss-based audit companion describe the same benchmark: same rules, same
toggles, same values, same versions.

Crosscheck is read-only: it reports inconsistencies and never rewrites either
repository.

Examples:
	# Show available commands and global flags
	crosscheck --help

	# Validate a repository pair
	crosscheck validate ./RHEL9-CIS

	# List checks
	crosscheck checks list

	# Print build info
	crosscheck version

Output:
	By default, commands write human-readable output to stdout.
	The validate command also supports structured output (see "crosscheck
	validate --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints detection and extraction details to stderr)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Quiet, flags.FlagQuiet, false, "Suppress diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&configPath, flags.FlagConfig, "", "Config file (default: .crosscheck.yml in the working directory)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
