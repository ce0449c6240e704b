package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/pkgsnap/internal/project"
)

// ListResult is the structured output of the list command.
type ListResult struct {
	Root     string   `json:"root" yaml:"root"`
	Packages []string `json:"packages" yaml:"packages"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list <root>",
		Short:         "List fixture packages under a directory",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, root string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	fsys := afero.NewReadOnlyFs(afero.NewOsFs())

	if ok, err := afero.DirExists(fsys, root); err != nil || !ok {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("directory not found: %s", root), err)
	}

	packages, err := project.DiscoverPackages(fsys, root)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, "discovering packages", err)
	}
	if packages == nil {
		packages = []string{}
	}

	if formatter.Structured() {
		return formatter.Success(ListResult{Root: root, Packages: packages})
	}

	if len(packages) == 0 {
		fmt.Fprintf(formatter.Writer, "No packages found under %s\n", root)
		return nil
	}
	for _, p := range packages {
		fmt.Fprintln(formatter.Writer, p)
	}
	return nil
}
