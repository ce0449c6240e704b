package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/roach88/pkgsnap/internal/snapshot"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Baseline string // stored snapshot to compare against
	Update   bool   // rewrite the baseline instead of failing
}

// CheckResult is the structured output of the check command.
type CheckResult struct {
	Package  string `json:"package" yaml:"package"`
	Baseline string `json:"baseline" yaml:"baseline"`
	Digest   string `json:"digest" yaml:"digest"`
	Match    bool   `json:"match" yaml:"match"`
	Updated  bool   `json:"updated" yaml:"updated"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <package-dir>",
		Short: "Compare a fixture package's snapshot against a baseline",
		Long: `Render the snapshot of a fixture package and compare it byte for byte
with a stored baseline. On mismatch a unified diff is printed and the command
exits with status 1. --update rewrites the baseline instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Baseline, "baseline", "b", "", "baseline snapshot file")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "write the current snapshot to the baseline")
	_ = cmd.MarkFlagRequired("baseline")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	actual, err := newHarness(opts.RootOptions, cmd).Prepare(dir)
	if err != nil {
		return commandError(formatter, ErrCodeSetup, fmt.Sprintf("preparing %s", dir), err)
	}

	expected, err := os.ReadFile(opts.Baseline)
	missing := errors.Is(err, fs.ErrNotExist)
	switch {
	case missing && opts.Update:
	case missing:
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("baseline not found: %s", opts.Baseline), nil)
	case err != nil:
		return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("reading %s", opts.Baseline), err)
	}

	result := CheckResult{
		Package:  dir,
		Baseline: opts.Baseline,
		Digest:   snapshot.Digest(actual),
		Match:    !missing && string(expected) == actual,
	}

	if result.Match {
		return reportCheck(formatter, result, "✓ Snapshot of %s matches %s\n")
	}

	if opts.Update {
		if err := os.WriteFile(opts.Baseline, []byte(actual), 0o644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s", opts.Baseline), err)
		}
		result.Updated = true
		return reportCheck(formatter, result, "✓ Updated %[2]s from %[1]s\n")
	}

	diff, err := unifiedDiff(opts.Baseline, string(expected), actual)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "computing diff", err)
	}

	message := fmt.Sprintf("snapshot of %s does not match %s", dir, opts.Baseline)
	if formatter.Structured() {
		_ = formatter.Error(ErrCodeMismatch, message, map[string]string{"diff": diff})
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s\n\n%s", message, diff)
	}
	return NewExitError(ExitFailure, message)
}

func reportCheck(formatter *OutputFormatter, result CheckResult, text string) error {
	if formatter.Structured() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, text, result.Package, result.Baseline)
	return nil
}

// unifiedDiff returns a unified diff from the baseline to the rendered
// snapshot.
func unifiedDiff(baseline, expected, actual string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: baseline,
		ToFile:   "snapshot",
		Context:  3,
	})
}
