package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frederickw082922/crosscheck/internal/checks"
	"github.com/frederickw082922/crosscheck/internal/model"
)

var checksListQuiet bool

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List and inspect consistency checks",
	Long: `Inspect the consistency checks registered in this build.

Checks are evaluated during validation (see "crosscheck validate --help");
their keys are the values accepted by --only, --skip, and waiver files.

Examples:
  # List all available checks
  crosscheck checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checks",
	Long: `List all checks currently registered in this build.

Checks are sorted by key; the listed order is also the execution and report
order.

Examples:
  crosscheck checks list

Output:
  A vertical list of checks:
    ----------------------------------------
    CHECK: {KEY}
    ----------------------------------------
    {NAME}
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range checks.List() {
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), c.Key())
			} else {
				printCheck(cmd.OutOrStdout(), c)
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [check-key]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its key.

Examples:
  crosscheck checks show audit_coverage
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := checks.Lookup(args[0])
		if !ok {
			return fmt.Errorf("check not found: %s", args[0])
		}
		printCheck(cmd.OutOrStdout(), c)
		return nil
	},
}

func printCheck(w io.Writer, c checks.Check) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", c.Key())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, c.Name())
	fmt.Fprintln(w, c.Description())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Families: %s\n", familiesOf(c))
	fmt.Fprintf(w, "Policy:   %s\n", c.Policy())
	if sources := sourcesOf(c); sources != "" {
		fmt.Fprintf(w, "Sources:  %s\n", sources)
	}
	fmt.Fprintln(w)
}

func familiesOf(c checks.Check) string {
	var fams []string
	for _, f := range []model.Family{model.FamilyCIS, model.FamilySTIG} {
		if c.AppliesTo(f) {
			fams = append(fams, string(f))
		}
	}
	return strings.Join(fams, ", ")
}

func sourcesOf(c checks.Check) string {
	var names []string
	for _, s := range c.Requires() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check keys")
	checksCmd.AddCommand(checksShowCmd)
}
