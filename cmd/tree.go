package cmd

import (
	"fmt"
	"os"

	"codeloom/pkg/bundle"

	"github.com/spf13/cobra"
)

var (
	treeOutput      string
	treeInclude     []string
	treeExclude     []string
	treeIgnoreFiles []string
	treeMaxSizeKB   int64
)

// treeCmd renders the directory layout bundle would walk, without reading
// any file contents.
var treeCmd = &cobra.Command{
	Use:   "tree [paths...]",
	Short: "Render the directory tree that bundle would walk",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := args
		if len(roots) == 0 {
			roots = []string{"."}
		}

		opts := bundle.Options{
			Roots:       roots,
			Include:     treeInclude,
			Exclude:     treeExclude,
			IgnoreFiles: treeIgnoreFiles,
			MaxFileSize: treeMaxSizeKB * 1024,
		}

		rendered, err := bundle.Tree(opts, logger)
		if err != nil {
			return err
		}

		if treeOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		}
		if err := os.WriteFile(treeOutput, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write tree to %s: %w", treeOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Tree written to: %s\n", treeOutput)
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVarP(&treeOutput, "output", "o", "", "Write the tree to a file instead of stdout")
	treeCmd.Flags().StringSliceVar(&treeInclude, "include", nil, "Only show files matching these glob patterns")
	treeCmd.Flags().StringSliceVar(&treeExclude, "exclude", nil, "Hide files matching these glob patterns")
	treeCmd.Flags().StringSliceVar(&treeIgnoreFiles, "ignore-file", nil, "Apply gitignore-style rules from these files")
	treeCmd.Flags().Int64Var(&treeMaxSizeKB, "max-size", 0, "Maximum file size in KB, 0 for unlimited")

	RootCmd.AddCommand(treeCmd)
}
