package cmd

import (
	"context"
	"iter"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gitglob/internal/output"
	"github.com/Aman-CERP/gitglob/pkg/gitglob"
)

func newGlobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glob <pattern>",
		Short: "Print non-ignored files matching a glob",
		Long: `Print the non-ignored files under the working directory whose relative
path matches a glob. Patterns support *, ?, [class], {alt,ernatives} and **
for any number of directories.`,
		Example: `  gitglob glob '**/*.go'
  gitglob glob 'src/**/*.{ts,tsx}' --types`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd, false)
			if err != nil {
				return err
			}
			return printEntries(entryWriter(cmd), client.GlobEntries(cmd.Context(), args[0]))
		},
	}
}

func newWalkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "walk",
		Short: "Print every non-ignored file",
		Long: `Print every non-ignored file under the working directory, depth first.
Directories are descended into but not printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClient(cmd, false)
			if err != nil {
				return err
			}
			return printEntries(entryWriter(cmd), client.WalkEntries(cmd.Context()))
		},
	}
}

func newListCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:     "ls [dir]",
		Aliases: []string{"list"},
		Short:   "List the non-ignored entries of a directory",
		Long: `List the non-ignored entries of a directory, sorted, relative to it.
Without --recursive only direct children are listed, directories included.`,
		Example: `  gitglob ls
  gitglob ls src -r`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runList(cmd.Context(), cmd, dir, recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List files in subdirectories too")

	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, dir string, recursive bool) error {
	client, _, err := newClient(cmd, false)
	if err != nil {
		return err
	}
	entries, err := client.ListEntries(ctx, dir, recursive)
	if err != nil {
		return err
	}
	w := entryWriter(cmd)
	for _, e := range entries {
		if err := w.Entry(e); err != nil {
			return err
		}
	}
	return nil
}

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate [dir]",
		Short: "Print the .gitignore files that apply to a directory",
		Long: `Print the .gitignore files in a directory and its ancestors, outermost
first. These are the files whose rules apply before the walk descends.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			client, _, err := newClient(cmd, false)
			if err != nil {
				return err
			}
			files, err := client.LocateGitignoreFiles(dir)
			if err != nil {
				return err
			}
			return printPaths(entryWriter(cmd), files)
		},
	}
}

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <file>",
		Short: "Print the globs an ignore file stands for",
		Long: `Print the globs each rule of an ignore file stands for, relative to the
working directory. Re-including rules are prefixed with "!".`,
		Example: `  gitglob translate src/.gitignore`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(cmd, false)
			if err != nil {
				return err
			}
			globs, err := client.TranslateGitignoreFile(args[0])
			if err != nil {
				return err
			}
			return printPaths(entryWriter(cmd), globs)
		},
	}
}

func printEntries(w *output.Writer, seq iter.Seq2[gitglob.Entry, error]) error {
	for e, err := range seq {
		if err != nil {
			return err
		}
		if err := w.Entry(e); err != nil {
			return err
		}
	}
	return nil
}

func printPaths(w *output.Writer, paths []string) error {
	for _, p := range paths {
		if err := w.Path(p); err != nil {
			return err
		}
	}
	return nil
}
