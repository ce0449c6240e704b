package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pkgsnap/internal/snapshot"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string // output file path
}

// RenderResult is the structured output of the render command.
type RenderResult struct {
	Package  string   `json:"package" yaml:"package"`
	Failed   bool     `json:"failed" yaml:"failed"`
	Files    []string `json:"files" yaml:"files"`
	Warnings int      `json:"warnings" yaml:"warnings"`
	Digest   string   `json:"digest" yaml:"digest"`
	Snapshot string   `json:"snapshot" yaml:"snapshot"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <package-dir>",
		Short: "Compile a fixture package and print its snapshot",
		Long: `Compile a fixture package in an in-memory filesystem and print the
rendered snapshot. A compile error is part of the snapshot, not a failure of
this command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the snapshot to this file")

	return cmd
}

func runRender(opts *RenderOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	outcome, err := newHarness(opts.RootOptions, cmd).Compile(dir)
	if err != nil {
		return commandError(formatter, ErrCodeSetup, fmt.Sprintf("preparing %s", dir), err)
	}
	text := outcome.Render()

	formatter.VerboseLog("Rendered %d file(s), %d warning(s) from %s",
		len(outcome.Files()), len(outcome.Warnings()), dir)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0o644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing %s", opts.Output), err)
		}
	}

	if formatter.Structured() {
		return formatter.Success(RenderResult{
			Package:  dir,
			Failed:   outcome.IsFailure(),
			Files:    outcome.Paths(),
			Warnings: len(outcome.Warnings()),
			Digest:   snapshot.Digest(text),
			Snapshot: text,
		})
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Wrote snapshot of %s to %s\n", dir, opts.Output)
		return nil
	}
	_, err = fmt.Fprint(formatter.Writer, text)
	return err
}
