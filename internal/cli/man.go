package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newBuildManCommand(root *cobra.Command) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build-man",
		Short: "Generate troff man pages for every subcommand",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "MARC21",
				Section: "1",
			}
			return doc.GenManTree(root, header, outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "output directory for man pages")
	return cmd
}
